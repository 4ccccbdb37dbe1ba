package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config stores the application configuration.
// Values come from the environment (optionally seeded by a .env file) and an
// optional YAML file pointed to by WORSHIPHUB_CONFIG.
type Config struct {
	APIBaseURL string        `yaml:"api_base_url"`
	APITimeout time.Duration `yaml:"-"`
	SessionDir string        `yaml:"session_dir"`

	// Cache settings
	CacheBackend   string `yaml:"cache_backend"` // "memory" or "redis"
	CacheNamespace string `yaml:"cache_namespace"`
	// ReorderInvalidatesInfo widens setlist reordering to also drop the
	// group_info entry of the setlist's group.
	ReorderInvalidatesInfo bool `yaml:"reorder_invalidates_info"`

	// Redis cache backend
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Sheet export
	SheetBackend   string `yaml:"sheet_backend"` // "dir" or "minio"
	SheetDir       string `yaml:"sheet_dir"`
	MinioEndpoint  string `yaml:"minio_endpoint"`
	MinioAccessKey string `yaml:"minio_access_key"`
	MinioSecretKey string `yaml:"minio_secret_key"`
	MinioBucket    string `yaml:"minio_bucket"`
	MinioRegion    string `yaml:"minio_region"`
	MinioUseSSL    bool   `yaml:"minio_use_ssl"`

	ServerAddr string `yaml:"server_addr"`

	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	LogMaxSize    int    `yaml:"log_max_size"`
	LogMaxBackups int    `yaml:"log_max_backups"`
	LogMaxAge     int    `yaml:"log_max_age"`
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".worshiphub"
	}
	return filepath.Join(home, ".worshiphub")
}

// Load loads configuration from environment variables (via .env file), the
// optional YAML file, and defaults. Environment variables win over the file.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	file := &Config{}
	if path := os.Getenv("WORSHIPHUB_CONFIG"); path != "" {
		loaded, err := loadFile(path)
		if err != nil {
			log.Printf("Ignoring config file %s: %v", path, err)
		} else {
			file = loaded
		}
	}

	sessionDir := firstNonEmpty(file.SessionDir, defaultSessionDir())

	return &Config{
		APIBaseURL: getEnv("API_BASE_URL", firstNonEmpty(file.APIBaseURL, "http://localhost:3333")),
		APITimeout: time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 15)) * time.Second,
		SessionDir: getEnv("SESSION_DIR", sessionDir),

		CacheBackend:           getEnv("CACHE_BACKEND", firstNonEmpty(file.CacheBackend, "memory")),
		CacheNamespace:         getEnv("CACHE_NAMESPACE", firstNonEmpty(file.CacheNamespace, "worshiphub")),
		ReorderInvalidatesInfo: getEnvBool("CACHE_REORDER_INVALIDATES_INFO", file.ReorderInvalidatesInfo),

		RedisHost:     getEnv("REDIS_HOST", firstNonEmpty(file.RedisHost, "127.0.0.1")),
		RedisPort:     getEnv("REDIS_PORT", firstNonEmpty(file.RedisPort, "6379")),
		RedisPassword: getEnv("REDIS_PASSWORD", file.RedisPassword), // no password by default
		RedisDB:       getEnvInt("REDIS_DB", file.RedisDB),

		SheetBackend:   getEnv("SHEET_BACKEND", firstNonEmpty(file.SheetBackend, "dir")),
		SheetDir:       getEnv("SHEET_DIR", firstNonEmpty(file.SheetDir, filepath.Join(sessionDir, "sheets"))),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", file.MinioEndpoint),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", file.MinioAccessKey),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", file.MinioSecretKey),
		MinioBucket:    getEnv("MINIO_BUCKET", firstNonEmpty(file.MinioBucket, "worshiphub-sheets")),
		MinioRegion:    getEnv("MINIO_REGION", file.MinioRegion),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", file.MinioUseSSL),

		ServerAddr: getEnv("SERVER_ADDR", firstNonEmpty(file.ServerAddr, ":8080")),

		LogLevel:      getEnv("LOG_LEVEL", firstNonEmpty(file.LogLevel, "info")),
		LogFile:       getEnv("LOG_FILE", file.LogFile),
		LogMaxSize:    getEnvInt("LOG_MAX_SIZE", orInt(file.LogMaxSize, 10)),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", orInt(file.LogMaxBackups, 3)),
		LogMaxAge:     getEnvInt("LOG_MAX_AGE", orInt(file.LogMaxAge, 28)),
	}
}

// loadFile reads a YAML config file.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

// RedisAddr returns host:port for the redis cache backend.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
