package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration (storage + notification stream)
	RedisAddr             string
	RedisDB               int
	StorageKeyPrefix      string
	NotifyStream          string
	NotifyStreamCount     int
	NotifyStreamMaxLength int

	// Memcache configuration (per-host fetch block cache)
	MemcacheAddr  string
	HostBlockTime time.Duration

	// Periodic job configuration
	AlertCheckInterval   time.Duration
	TrackingInterval     time.Duration
	TrackingInitialDelay time.Duration

	// Tracking cycle configuration
	FetchTimeout time.Duration
	PoliteDelay  time.Duration

	// Live watch session configuration
	SettleDelay    time.Duration
	DebounceWindow time.Duration

	// History configuration
	HistoryRetention int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("NOTIFY_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("NOTIFY_STREAM_MAXLEN", "500"))
	blockTime, _ := strconv.Atoi(getEnv("HOST_BLOCK_SECONDS", "300"))
	alertCheck, _ := strconv.Atoi(getEnv("ALERT_CHECK_INTERVAL_MINUTES", "30"))
	tracking, _ := strconv.Atoi(getEnv("TRACKING_INTERVAL_MINUTES", "240"))
	trackingDelay, _ := strconv.Atoi(getEnv("TRACKING_INITIAL_DELAY_MINUTES", "5"))
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "30"))
	politeDelay, _ := strconv.Atoi(getEnv("POLITE_DELAY_SECONDS", "3"))
	settleDelay, _ := strconv.Atoi(getEnv("SETTLE_DELAY_MS", "500"))
	debounce, _ := strconv.Atoi(getEnv("DEBOUNCE_WINDOW_MS", "1000"))
	retention, _ := strconv.Atoi(getEnv("HISTORY_RETENTION", "20"))

	return &Config{
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:               redisDB,
		StorageKeyPrefix:      getEnv("STORAGE_KEY_PREFIX", "pricewatcher"),
		NotifyStream:          getEnv("NOTIFY_STREAM", "pricealerts"),
		NotifyStreamCount:     streamCount,
		NotifyStreamMaxLength: streamMaxLen,
		MemcacheAddr:          getEnv("MEMCACHE_ADDR", "localhost:11211"),
		HostBlockTime:         time.Duration(blockTime) * time.Second,
		AlertCheckInterval:    time.Duration(alertCheck) * time.Minute,
		TrackingInterval:      time.Duration(tracking) * time.Minute,
		TrackingInitialDelay:  time.Duration(trackingDelay) * time.Minute,
		FetchTimeout:          time.Duration(fetchTimeout) * time.Second,
		PoliteDelay:           time.Duration(politeDelay) * time.Second,
		SettleDelay:           time.Duration(settleDelay) * time.Millisecond,
		DebounceWindow:        time.Duration(debounce) * time.Millisecond,
		HistoryRetention:      retention,
		Environment:           getEnv("PRICEWATCHER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.RedisAddr == "" {
		return fmt.Errorf("redis address must not be empty")
	}
	if c.NotifyStreamCount < 1 {
		return fmt.Errorf("notify stream count must be at least 1, got %d", c.NotifyStreamCount)
	}
	if c.HistoryRetention < 1 {
		return fmt.Errorf("history retention must be at least 1, got %d", c.HistoryRetention)
	}
	if c.AlertCheckInterval <= 0 {
		return fmt.Errorf("alert check interval must be positive, got %v", c.AlertCheckInterval)
	}
	if c.TrackingInterval <= 0 {
		return fmt.Errorf("tracking interval must be positive, got %v", c.TrackingInterval)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %v", c.FetchTimeout)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
