package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://furbooru.org", cfg.BoardURL)
	assert.Equal(t, "https://furbooru.org/images/new", cfg.SubmissionURL)
	assert.Equal(t, "coordinator", cfg.CoordinatorContextID)
	assert.Equal(t, 10*time.Second, cfg.ExtractTimeout)
	assert.Equal(t, time.Hour, cfg.RepostCacheTTL)
	assert.Empty(t, cfg.SubmitQueueURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOARD_URL", "http://localhost:4000/")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("EXTRACT_TIMEOUT", "250ms")
	t.Setenv("SUBMIT_QUEUE_URL", "http://queue")
	t.Setenv("PRESETS_PATH", "s3://config/presets.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000", cfg.BoardURL)
	assert.Equal(t, "http://localhost:4000/images/new", cfg.SubmissionURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.ExtractTimeout)
	assert.Equal(t, "http://queue", cfg.SubmitQueueURL)
	assert.Equal(t, "s3://config/presets.yaml", cfg.PresetsPath)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("EXTRACT_TIMEOUT", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "EXTRACT_TIMEOUT must be a duration")

	t.Setenv("EXTRACT_TIMEOUT", "0s")
	_, err = Load()
	assert.ErrorContains(t, err, "must be positive")

	t.Setenv("EXTRACT_TIMEOUT", "")
	t.Setenv("SUBMISSION_URL", "/images/new")
	_, err = Load()
	assert.ErrorContains(t, err, "SUBMISSION_URL must be an absolute URL")
}
