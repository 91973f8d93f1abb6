package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Torvusil/Furadder/workers/coordinator/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

type Config struct {
	AWSEndpointURL string
	AWSRegion      string
	AWSAccessKeyID string
	AWSSecretKey   string
	InputQueueURL  string
	RedisHost      string
	RedisPort      string
	ContextID      string
	ChromeWSURL    string
	Headless       bool
	Delivery       domain.DeliveryConfig
}

func Load() (*Config, error) {
	timeoutMs, err := getEnvInt("DELIVERY_TIMEOUT_MS", 1000)
	if err != nil {
		return nil, err
	}
	maxRetries, err := getEnvInt("MAX_FILL_RETRIES", 5)
	if err != nil {
		return nil, err
	}
	retryDelayMs, err := getEnvInt("RETRY_DELAY_MS", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		InputQueueURL:  getEnv("INPUT_QUEUE_URL", ""),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		ContextID:      getEnv("CONTEXT_ID", shared.CoordinatorContextID),
		ChromeWSURL:    getEnv("CHROME_WS_URL", ""),
		Headless:       getEnv("CHROME_HEADLESS", "true") != "false",
		Delivery: domain.DeliveryConfig{
			DeliveryTimeout: time.Duration(timeoutMs) * time.Millisecond,
			MaxRetries:      maxRetries,
			RetryDelay:      time.Duration(retryDelayMs) * time.Millisecond,
		},
	}

	if cfg.Delivery.DeliveryTimeout <= 0 {
		return nil, fmt.Errorf("DELIVERY_TIMEOUT_MS must be positive")
	}
	if cfg.Delivery.MaxRetries <= 0 {
		return nil, fmt.Errorf("MAX_FILL_RETRIES must be positive")
	}
	if cfg.Delivery.RetryDelay < 0 {
		return nil, fmt.Errorf("RETRY_DELAY_MS must not be negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
