package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration values.
type Config struct {
	AppPort         string
	DBDriver        string
	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DBLogSQL        bool
	SlowQuery       time.Duration
	UploadDir       string
	MaxUploadBytes  int
	RequestTimeout  time.Duration
	Debug           bool
	LogLevel        slog.Level
}

var supportedDrivers = map[string]bool{
	"mysql":    true,
	"postgres": true,
	"sqlite":   true,
}

// Load reads .env, the environment and, when configFile is non-empty, a
// config file, and returns a populated Config.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DATABASE_URL", "root:@tcp(localhost:3306)/abstore?parseTime=true")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SEC", 300)
	v.SetDefault("DB_LOG_SQL", false)
	v.SetDefault("DB_SLOW_QUERY_MS", 200)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_MB", 20)
	v.SetDefault("REQUEST_TIMEOUT_SEC", 15)
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_LEVEL", "info")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:         strings.TrimSpace(v.GetString("APP_PORT")),
		DBDriver:        strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_SEC")) * time.Second,
		DBLogSQL:        v.GetBool("DB_LOG_SQL"),
		SlowQuery:       time.Duration(v.GetInt("DB_SLOW_QUERY_MS")) * time.Millisecond,
		UploadDir:       v.GetString("UPLOAD_DIR"),
		MaxUploadBytes:  v.GetInt("MAX_UPLOAD_MB") * 1024 * 1024,
		RequestTimeout:  time.Duration(v.GetInt("REQUEST_TIMEOUT_SEC")) * time.Second,
		Debug:           v.GetBool("DEBUG"),
	}

	if cfg.AppPort == "" {
		return nil, fmt.Errorf("APP_PORT must be set")
	}
	if !supportedDrivers[cfg.DBDriver] {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.UploadDir == "" {
		return nil, fmt.Errorf("UPLOAD_DIR must be set")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}
