package config

import (
	"os"
	"runtime"
	"strconv"

	"github.com/Wxl-c137/blindmarker/internal/archive"
)

// Config is the daemon's environment-derived configuration, loaded once
// at startup (§ AMBIENT STACK).
type Config struct {
	ListenAddr        string
	ScratchRoot       string
	WorkerCount       int
	LogLevel          string
	MaxArchiveBytes   int64
	MaxArchiveEntries int
	DefaultOutputDir  string
}

func Load() *Config {
	return &Config{
		ListenAddr:        envOr("LISTEN_ADDR", ":8080"),
		ScratchRoot:       envOr("SCRATCH_ROOT", "./scratch"),
		WorkerCount:       envIntOr("WORKER_COUNT", runtime.NumCPU()),
		LogLevel:          envOr("LOG_LEVEL", "info"),
		MaxArchiveBytes:   envInt64Or("MAX_ARCHIVE_BYTES", archive.DefaultMaxBytes),
		MaxArchiveEntries: envIntOr("MAX_ARCHIVE_ENTRIES", archive.DefaultMaxEntries),
		DefaultOutputDir:  envOr("DEFAULT_OUTPUT_DIR", ""),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
