package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

type Config struct {
	PageURL      string
	ContextID    string
	RedisHost    string
	RedisPort    string
	FetchTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		PageURL:   os.Getenv("PAGE_URL"),
		ContextID: os.Getenv("CONTEXT_ID"),
		RedisHost: os.Getenv("REDIS_HOST"),
		RedisPort: os.Getenv("REDIS_PORT"),
	}

	if cfg.PageURL == "" {
		return nil, fmt.Errorf("PAGE_URL is required")
	}
	if u, err := url.Parse(cfg.PageURL); err != nil || u.Host == "" {
		return nil, fmt.Errorf("PAGE_URL must be an absolute URL")
	}

	if cfg.RedisHost == "" {
		cfg.RedisHost = "localhost"
	}
	if cfg.RedisPort == "" {
		cfg.RedisPort = "6379"
	}

	cfg.FetchTimeout = 15 * time.Second
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("FETCH_TIMEOUT must be a duration: %w", err)
		}
		cfg.FetchTimeout = d
	}

	return cfg, nil
}
