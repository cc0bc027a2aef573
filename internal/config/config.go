// Package config loads application configuration from a file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds all server settings.
type Config struct {
	App struct {
		Env  string `mapstructure:"env"`
		Name string `mapstructure:"name"`
	} `mapstructure:"app"`

	HTTP struct {
		Addr            string        `mapstructure:"addr"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN      string `mapstructure:"dsn"`
		MaxConns int32  `mapstructure:"max_conns"`
		MinConns int32  `mapstructure:"min_conns"`
	} `mapstructure:"postgres"`

	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	GCS struct {
		Enabled bool   `mapstructure:"enabled"`
		Bucket  string `mapstructure:"bucket"`
	} `mapstructure:"gcs"`

	Staging struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"staging"`

	Idempotency struct {
		Enabled bool          `mapstructure:"enabled"`
		TTL     time.Duration `mapstructure:"ttl"`
	} `mapstructure:"idempotency"`

	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Addr    string `mapstructure:"addr"`
	} `mapstructure:"metrics"`

	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`
}

// Load reads configuration from the given file. A missing file is not an
// error: every setting can come from TENDERDESK_* environment variables
// (dots replaced with underscores, e.g. TENDERDESK_POSTGRES_DSN).
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.name", "tenderdesk")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("staging.ttl", 4*time.Hour)
	v.SetDefault("idempotency.enabled", true)
	v.SetDefault("idempotency.ttl", 10*time.Minute)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("TENDERDESK")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.Postgres.DSN == "" {
		return Config{}, fmt.Errorf("postgres.dsn is required")
	}

	return c, nil
}
