package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth; empty disables bearer auth on the API.
	APIKey string

	// Template locations
	TemplatesDir   string
	MasterTemplate string
	ConfigsDir     string

	// Where generated quotes are written.
	OutputDir string

	// Optional YAML file with company defaults.
	DefaultsFile string

	ConfigCacheSize int

	// Request limits
	MaxRequestBytes int64
	MaxUploadBytes  int64

	StatsWindow time.Duration

	// Batch generation
	WorkerCount         int
	MaxQueueSize        int
	MaxConcurrentRender int
	MaxBatchSize        int
	JobTTL              time.Duration

	// Generated quotes named <id><ext> in OutputDir are removed after
	// OutputTTL. Zero disables the sweep.
	OutputTTL time.Duration

	Debug bool
}

func Load() Config {
	templatesDir := envOr("TEMPLATES_DIR", "templates")
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("QUOTEGEN_API_KEY"),

		TemplatesDir:   templatesDir,
		MasterTemplate: envOr("MASTER_TEMPLATE", filepath.Join(templatesDir, "master_template.docx")),
		ConfigsDir:     envOr("CONFIGS_DIR", filepath.Join(templatesDir, "configs")),

		OutputDir:    envOr("OUTPUT_DIR", os.TempDir()),
		DefaultsFile: os.Getenv("QUOTE_DEFAULTS_FILE"),

		ConfigCacheSize: envInt("CONFIG_CACHE_SIZE", 64),

		MaxRequestBytes: envInt64("MAX_REQUEST_BYTES", 1<<20),    // 1MB
		MaxUploadBytes:  envInt64("MAX_UPLOAD_BYTES", 26214400), // 25MB

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		WorkerCount:         envInt("WORKER_COUNT", 2),
		MaxQueueSize:        envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentRender: envInt("MAX_CONCURRENT_RENDER", 4),
		MaxBatchSize:        envInt("MAX_BATCH_SIZE", 50),
		JobTTL:              envDuration("JOB_TTL", 1*time.Hour),
		OutputTTL:           envDuration("OUTPUT_TTL", 24*time.Hour),

		Debug: envBool("DEBUG", false),
	}

	if cfg.ConfigCacheSize <= 0 {
		cfg.ConfigCacheSize = 64
	}
	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = 1 << 20
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 26214400
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentRender <= 0 {
		cfg.MaxConcurrentRender = 4
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 50
	}

	return cfg
}

func (c Config) Validate() error {
	if c.TemplatesDir == "" {
		return fmt.Errorf("TEMPLATES_DIR is required")
	}
	if c.MasterTemplate == "" {
		return fmt.Errorf("MASTER_TEMPLATE is required")
	}
	info, err := os.Stat(c.OutputDir)
	if err != nil {
		return fmt.Errorf("OUTPUT_DIR: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("OUTPUT_DIR %s is not a directory", c.OutputDir)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
