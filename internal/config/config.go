package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Probe
		Admin
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // sqlite file path
		URL    string // postgres DSN
	}
	Auth struct {
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // set to false for local dev without HTTPS
	}
	Probe struct {
		Enabled  bool
		Interval time.Duration
	}
	Admin struct {
		// Bootstrap administrator, seeded once when no admin exists.
		Username string
		Password string
		Email    string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	// Best effort: a missing .env file is fine, system env still applies.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_url", "")

	v.SetDefault("auth_session_lifetime", "168h") // 7 days
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)

	v.SetDefault("probe_enabled", true)
	v.SetDefault("probe_interval", "30s")

	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password", "")
	v.SetDefault("admin_email", "admin@localhost")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Driver: DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			URL:    v.GetString("DATABASE_URL"),
		},
		Auth: Auth{
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Probe: Probe{
			Enabled:  v.GetBool("PROBE_ENABLED"),
			Interval: v.GetDuration("PROBE_INTERVAL"),
		},
		Admin: Admin{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
			Email:    v.GetString("ADMIN_EMAIL"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
