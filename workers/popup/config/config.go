package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Torvusil/Furadder/workers/popup/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	AWSEndpointURL       string
	AWSRegion            string
	AWSAccessKeyID       string
	AWSSecretKey         string
	RedisHost            string
	RedisPort            string
	CoordinatorContextID string
	BoardURL             string
	SubmissionURL        string
	SubmitQueueURL       string
	PresetsPath          string
	AliasesPath          string
	AliasTable           string
	ExtractTimeout       time.Duration
	SubmitTimeout        time.Duration
	RepostCacheTTL       time.Duration
}

func Load() (*Config, error) {
	extractTimeout, err := getEnvDuration("EXTRACT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	submitTimeout, err := getEnvDuration("SUBMIT_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	repostCacheTTL, err := getEnvDuration("REPOST_CACHE_TTL", time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		AllowedOrigins:       splitList(getEnv("ALLOWED_ORIGINS", "*")),
		AWSEndpointURL:       getEnv("AWS_ENDPOINT_URL", ""),
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:       getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:         getEnv("AWS_SECRET_ACCESS_KEY", ""),
		RedisHost:            getEnv("REDIS_HOST", "localhost"),
		RedisPort:            getEnv("REDIS_PORT", "6379"),
		CoordinatorContextID: getEnv("COORDINATOR_CONTEXT_ID", shared.CoordinatorContextID),
		BoardURL:             strings.TrimRight(getEnv("BOARD_URL", domain.DefaultBoardURL), "/"),
		SubmitQueueURL:       getEnv("SUBMIT_QUEUE_URL", ""),
		PresetsPath:          getEnv("PRESETS_PATH", ""),
		AliasesPath:          getEnv("ALIASES_PATH", ""),
		AliasTable:           getEnv("ALIAS_TABLE", ""),
		ExtractTimeout:       extractTimeout,
		SubmitTimeout:        submitTimeout,
		RepostCacheTTL:       repostCacheTTL,
	}
	cfg.SubmissionURL = getEnv("SUBMISSION_URL", cfg.BoardURL+domain.SubmissionPath)

	for key, raw := range map[string]string{"BOARD_URL": cfg.BoardURL, "SUBMISSION_URL": cfg.SubmissionURL} {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() {
			return nil, fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
		}
	}
	if cfg.ExtractTimeout <= 0 || cfg.SubmitTimeout <= 0 {
		return nil, fmt.Errorf("EXTRACT_TIMEOUT and SUBMIT_TIMEOUT must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
