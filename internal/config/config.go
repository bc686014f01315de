package config

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/db"
)

type ServiceConfig struct {
	config.Config
}

// Load reads .env when present, then the process environment, and exits on
// missing required values.
func Load() ServiceConfig {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not loaded (%v), using process environment", err)
	}

	cfg := config.Load()

	config.MustOneOf(cfg.DBDriver, "DB_DRIVER", db.DriverPostgres, db.DriverSQLite)
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	return ServiceConfig{Config: cfg}
}

// MailConfigured reports whether SMTP credentials are present. Without them
// notifications fail with notify.ErrEmailNotConfigured and checkout still succeeds.
func (c ServiceConfig) MailConfigured() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}
