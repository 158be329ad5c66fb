// Package config loads the application configuration from environment
// variables into a typed struct that is passed down to every component,
// so nothing reads the environment mid-request.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the scheduling backend.
type Config struct {
	Port        string `env:"PORT" envDefault:"7777"`
	DatabaseDSN string `env:"DATABASE_DSN,required"`

	// Secret signs session tokens. SessionTTL bounds how long a session
	// cookie stays valid; ResetWindow bounds a password-reset link.
	Secret      string        `env:"SECRET,required"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	ResetWindow time.Duration `env:"RESET_WINDOW" envDefault:"10m"`

	// FrontendURL is the base for the links embedded in outbound emails.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	SiteName    string `env:"SITE_NAME" envDefault:"Office Manager"`

	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser  string `env:"SMTP_USER"`
	SMTPPass  string `env:"SMTP_PASS"`
	FromEmail string `env:"FROM_EMAIL"`

	CookieDomain   string   `env:"DOMAIN"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
