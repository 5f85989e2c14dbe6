package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the API reads at startup.
// Values come from the process environment, optionally seeded from a local .env file.
type Config struct {
	Env             string        `mapstructure:"APP_ENV"`
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	CORSOrigin      string        `mapstructure:"CORS_ALLOWED_ORIGIN"`

	// --- Database ---
	DBDSN             string        `mapstructure:"DB_DSN_PRIMARY"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`
	AutoMigrate       bool          `mapstructure:"DB_AUTO_MIGRATE"`
	SeedOnStart       bool          `mapstructure:"SEED_ON_START"`

	// --- Catalog ---
	PageSize int `mapstructure:"CATALOG_PAGE_SIZE"`
}

var defaults = map[string]interface{}{
	"APP_ENV":              "development",
	"SERVER_PORT":          "8080",
	"SHUTDOWN_TIMEOUT":     "30s",
	"LOG_LEVEL":            "info",
	"CORS_ALLOWED_ORIGIN":  "http://localhost:5173",
	"DB_DSN_PRIMARY":       "root:password@tcp(127.0.0.1:3306)/shopsphere?parseTime=true",
	"DB_MAX_OPEN_CONNS":    25,
	"DB_MAX_IDLE_CONNS":    25,
	"DB_CONN_MAX_LIFETIME": "5m",
	"DB_AUTO_MIGRATE":      true,
	"SEED_ON_START":        false,
	"CATALOG_PAGE_SIZE":    10,
}

// Load reads .env (if present) into the environment and then resolves the Config.
// A missing .env file is not an error; the system environment is used as is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	return cfg, nil
}

// IsDevelopment reports whether human-readable console logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
