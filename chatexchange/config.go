package chatexchange

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Site selects which chat network a session logs in to.
type Site string

const (
	SiteStackExchange     Site = "SE"
	SiteStackOverflow     Site = "SO"
	SiteMetaStackExchange Site = "MSE"

	// siteMetaStackOverflow is a deprecated alias for MSE, kept so old
	// callers keep working.
	siteMetaStackOverflow Site = "MSO"
)

// normalize validates a site identifier and resolves deprecated
// aliases. The second result reports whether an alias was resolved.
func (s Site) normalize() (Site, bool, error) {
	switch s {
	case SiteStackExchange, SiteStackOverflow, SiteMetaStackExchange:
		return s, false, nil
	case siteMetaStackOverflow:
		return SiteMetaStackExchange, true, nil
	default:
		return "", false, WrapError(ErrorUnknownSite, fmt.Sprintf("unable to login to site %q", string(s)), nil)
	}
}

// Credentials authenticate a session against the chat network.
type Credentials struct {
	Email    string `env:"CHATEXCHANGE_EMAIL"`
	Password string `env:"CHATEXCHANGE_PASSWORD"`
}

// CredentialsFromEnv reads credentials from the environment.
func CredentialsFromEnv() (Credentials, error) {
	var creds Credentials
	if err := env.Parse(&creds); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials from env: %w", err)
	}
	return creds, nil
}

// Config controls a session.
// Use DefaultConfig() as a starting point and modify as needed.
type Config struct {
	// Site is the chat network to log in to.
	Site Site `env:"CHATEXCHANGE_SITE" envDefault:"SE"`

	// Logger receives the session's structured log output. Defaults to
	// a no-op logger; sub-components derive contextual loggers from it.
	Logger zerolog.Logger `env:"-"`

	// sleep is the worker's wait primitive, replaceable in tests.
	sleep func(time.Duration)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Site:   SiteStackExchange,
		Logger: zerolog.Nop(),
		sleep:  time.Sleep,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling
// back to the defaults for anything unset.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config from env: %w", err)
	}
	return cfg, nil
}
