package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrStorageDriverRequired = errors.New("storefront config: storage driver is required")
var ErrStorageDriverUnknown = errors.New("storefront config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("storefront config: storage dsn is required")

// ErrFeaturedLimitInvalid reports a non-positive home listing limit.
var ErrFeaturedLimitInvalid = errors.New("storefront config: featured limit must be positive")
var ErrCartTTLInvalid = errors.New("storefront config: cart ttl must be positive when cart is enabled")
var ErrCartCapacityInvalid = errors.New("storefront config: cart capacity must be positive when cart is enabled")
var ErrSessionSecretRequired = errors.New("storefront config: session secret is required")
var ErrSessionNameRequired = errors.New("storefront config: session cookie name is required")
var ErrServerAddrRequired = errors.New("storefront config: server address is required")
var ErrCacheTTLInvalid = errors.New("storefront config: cache ttl must be positive when cache is enabled")
var ErrLoggingProviderRequired = errors.New("storefront config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("storefront config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("storefront config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("storefront config: logging format is invalid")

// Config aggregates storage, presentation and runtime settings for the storefront.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Cache      CacheConfig      `yaml:"cache"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Cart       CartConfig       `yaml:"cart"`
	Session    SessionConfig    `yaml:"session"`
	Server     ServerConfig     `yaml:"server"`
	Navigation NavigationConfig `yaml:"navigation"`
	Features   Features         `yaml:"features"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// StorageConfig selects the DataStore driver.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Debug  bool   `yaml:"debug"`
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// CatalogConfig controls the listing pages.
type CatalogConfig struct {
	FeaturedLimit int    `yaml:"featured_limit"`
	Placeholder   string `yaml:"placeholder"`
}

// CartConfig sizes the page-instance cart registry.
type CartConfig struct {
	TTL      time.Duration `yaml:"ttl"`
	Capacity int           `yaml:"capacity"`
}

// SessionConfig configures the signed session cookie shared with the auth service.
type SessionConfig struct {
	Name   string `yaml:"name"`
	Secret string `yaml:"secret"`
	MaxAge int    `yaml:"max_age"`
	Secure bool   `yaml:"secure"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// NavigationConfig captures routing configuration for link building.
// RouteConfig is only settable from code.
type NavigationConfig struct {
	RouteConfig *urlkit.Config `yaml:"-"`
	Group       string         `yaml:"group"`
}

// Features toggles module functionality.
type Features struct {
	Logger bool `yaml:"logger"`
	Cart   bool `yaml:"cart"`
	API    bool `yaml:"api"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns defaults suitable for local development against SQLite.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver: "sqlite3",
			DSN:    "file:storefront.db?cache=shared&_fk=1",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Catalog: CatalogConfig{
			FeaturedLimit: 6,
			Placeholder:   "/placeholder.svg",
		},
		Cart: CartConfig{
			TTL:      30 * time.Minute,
			Capacity: 10000,
		},
		Session: SessionConfig{
			Name:   "storefront_session",
			Secret: "development-session-secret",
			MaxAge: 86400 * 7,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Navigation: NavigationConfig{
			Group: "frontend",
		},
		Features: Features{
			Cart: true,
			API:  true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	driver := NormalizeDriver(cfg.Storage.Driver)
	if driver == "" {
		return ErrStorageDriverRequired
	}
	if driver != "sqlite3" && driver != "postgres" {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Catalog.FeaturedLimit <= 0 {
		return ErrFeaturedLimitInvalid
	}
	if cfg.Features.Cart {
		if cfg.Cart.TTL <= 0 {
			return ErrCartTTLInvalid
		}
		if cfg.Cart.Capacity <= 0 {
			return ErrCartCapacityInvalid
		}
	}
	if strings.TrimSpace(cfg.Session.Name) == "" {
		return ErrSessionNameRequired
	}
	if strings.TrimSpace(cfg.Session.Secret) == "" {
		return ErrSessionSecretRequired
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// NormalizeDriver maps driver aliases onto the registered database/sql driver names.
func NormalizeDriver(driver string) string {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "sqlite", "sqlite3":
		return "sqlite3"
	case "postgres", "postgresql", "pg":
		return "postgres"
	default:
		return d
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
