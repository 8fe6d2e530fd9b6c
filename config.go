package websession

import (
	"errors"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds session configuration. It is read-only once a Manager is
// constructed from it.
type Config struct {
	// CookieName is the name of the session cookie (default: "sessionid").
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sessionid"`

	// CookiePath is the path attribute of the session cookie.
	CookiePath string `env:"SESSION_COOKIE_PATH" envDefault:"/"`

	// CookieTTL is how long the client keeps the cookie (default: ~3 months).
	CookieTTL time.Duration `env:"SESSION_COOKIE_TTL" envDefault:"2160h"`

	// SecureCookies enables the Secure flag on session cookies
	// (recommended for production).
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`

	// Secrets is a comma-separated list of cookie signing secrets; the
	// first entry signs, all entries verify (key rotation).
	Secrets string `env:"SESSION_SECRETS" envDefault:""`

	// SignCookies makes the cookie transport write HMAC-signed values.
	// Requires Secrets.
	SignCookies bool `env:"SESSION_SIGN_COOKIES" envDefault:"false"`

	// TTL is the lifetime of the server-side session record.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"2160h"`

	// CleanupInterval for expired sessions (0 to disable).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	// Store selects the backend by registered name.
	Store string `env:"SESSION_STORE" envDefault:"file"`

	// StorePath is the data directory for the file backend.
	StorePath string `env:"SESSION_STORE_PATH" envDefault:"/tmp/sessions"`

	// LockPath is the lock-file directory for the file backend.
	LockPath string `env:"SESSION_LOCK_PATH" envDefault:"/tmp/sessionlock"`

	// StoreDSN is the connection string for server-backed stores
	// (redis, postgres, mongo).
	StoreDSN string `env:"SESSION_STORE_DSN" envDefault:""`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		CookieName:      "sessionid",
		CookiePath:      "/",
		CookieTTL:       90 * 24 * time.Hour,
		SecureCookies:   false,
		TTL:             90 * 24 * time.Hour,
		CleanupInterval: 5 * time.Minute,
		Store:           "file",
		StorePath:       "/tmp/sessions",
		LockPath:        "/tmp/sessionlock",
	}
}

// StoreArgs translates the configuration into registry factory arguments.
func (c Config) StoreArgs() map[string]string {
	args := map[string]string{
		ArgPath:     c.StorePath,
		ArgLockPath: c.LockPath,
	}
	if c.StoreDSN != "" {
		args[ArgDSN] = c.StoreDSN
	}
	if c.CleanupInterval > 0 {
		args[ArgCleanupInterval] = c.CleanupInterval.String()
	}
	return args
}

var dotenvOnce sync.Once

// LoadConfig populates a Config from environment variables, loading a .env
// file first if one exists. Twelve-factor deployments configure everything
// this way; defaults match DefaultConfig.
func LoadConfig() (Config, error) {
	dotenvOnce.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(errors.New("websession: failed to parse environment"), err)
	}
	return cfg, nil
}

// NewFromConfig creates a Manager from the provided Config, resolving the
// configured backend through the registry. Options are applied after the
// config and may override any of it, including the store itself.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	store, err := OpenStore(cfg.Store, cfg.StoreArgs())
	if err != nil {
		return nil, err
	}

	configOpts := append([]Option{WithConfig(cfg), WithStore(store)}, opts...)
	return New(configOpts...)
}
