package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultSecretKey signs cookies when nothing else is configured. Fine for
// local use, never for a shared deployment.
const DefaultSecretKey = "change-me-in-production"

// Config is everything the server and the CLI need to start
type Config struct {
	DBPath        string
	Addr          string
	SecretKey     string
	SessionTTL    time.Duration
	SecureCookies bool
	Debug         bool

	Redis  RedisConfig
	Server ServerConfig
}

// RedisConfig selects the Redis session store when Addr is set
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ServerConfig holds the HTTP server timeouts
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// BindFlags registers the configuration flags on flags and binds them to v.
// Environment variables use the TASKPANEL_ prefix; SECRET_KEY is also read
// without it.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	flags.String("db", "taskpanel.db", "path to the SQLite database file")
	flags.String("addr", ":8080", "address the web server listens on")
	flags.String("secret-key", DefaultSecretKey, "key used to sign session and flash cookies")
	flags.Duration("session-ttl", 24*time.Hour, "how long a login stays valid")
	flags.Bool("secure-cookies", false, "mark cookies Secure (serve over HTTPS)")
	flags.Bool("debug", false, "verbose gin and SQL logging")
	flags.String("redis-addr", "", "keep sessions in Redis at this address instead of SQLite")
	flags.String("redis-password", "", "Redis password")
	flags.Int("redis-db", 0, "Redis database number")

	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	v.SetEnvPrefix("TASKPANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("secret-key", "TASKPANEL_SECRET_KEY", "SECRET_KEY"); err != nil {
		return fmt.Errorf("failed to bind secret key env: %w", err)
	}

	v.SetDefault("server.read-timeout", 10*time.Second)
	v.SetDefault("server.write-timeout", 10*time.Second)
	v.SetDefault("server.idle-timeout", 60*time.Second)
	v.SetDefault("server.shutdown-timeout", 30*time.Second)
	return nil
}

// Load reads the bound values out of v
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBPath:        v.GetString("db"),
		Addr:          v.GetString("addr"),
		SecretKey:     v.GetString("secret-key"),
		SessionTTL:    v.GetDuration("session-ttl"),
		SecureCookies: v.GetBool("secure-cookies"),
		Debug:         v.GetBool("debug"),
		Redis: RedisConfig{
			Addr:     v.GetString("redis-addr"),
			Password: v.GetString("redis-password"),
			DB:       v.GetInt("redis-db"),
		},
		Server: ServerConfig{
			ReadTimeout:     v.GetDuration("server.read-timeout"),
			WriteTimeout:    v.GetDuration("server.write-timeout"),
			IdleTimeout:     v.GetDuration("server.idle-timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown-timeout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("database path must not be empty")
	}
	if c.SecretKey == "" {
		return errors.New("secret key must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// UsesDefaultSecret reports whether the built-in development key is in use
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}
