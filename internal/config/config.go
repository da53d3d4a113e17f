package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Scanning
	ScanRoots    []string
	ScanInterval time.Duration
	WorkerCount  int
	MaxQueueSize int
	MaxFileBytes int64

	// Status persistence
	StatusFile string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8095"),

		APIKey: os.Getenv("MDTRACK_API_KEY"),

		ScanRoots:    envList("SCAN_ROOTS"),
		ScanInterval: envDuration("SCAN_INTERVAL", 30*time.Second),
		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 256),
		MaxFileBytes: envInt64("MAX_FILE_BYTES", 10485760), // 10MB

		StatusFile: envOr("STATUS_FILE", "mdtrack-status.json"),
	}

	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = 30 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 256
	}
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = 10485760
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("MDTRACK_API_KEY is required")
	}
	if len(c.ScanRoots) == 0 {
		return fmt.Errorf("SCAN_ROOTS is required")
	}
	for _, root := range c.ScanRoots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("scan root %s: %w", root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("scan root %s is not a directory", root)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
