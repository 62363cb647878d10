package storefront

import "github.com/goliatone/go-storefront/internal/runtimeconfig"

var (
	ErrStorageDriverRequired   = runtimeconfig.ErrStorageDriverRequired
	ErrStorageDriverUnknown    = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrFeaturedLimitInvalid    = runtimeconfig.ErrFeaturedLimitInvalid
	ErrCartTTLInvalid          = runtimeconfig.ErrCartTTLInvalid
	ErrCartCapacityInvalid     = runtimeconfig.ErrCartCapacityInvalid
	ErrSessionSecretRequired   = runtimeconfig.ErrSessionSecretRequired
	ErrSessionNameRequired     = runtimeconfig.ErrSessionNameRequired
	ErrServerAddrRequired      = runtimeconfig.ErrServerAddrRequired
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	CatalogConfig    = runtimeconfig.CatalogConfig
	CartConfig       = runtimeconfig.CartConfig
	SessionConfig    = runtimeconfig.SessionConfig
	ServerConfig     = runtimeconfig.ServerConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	Features         = runtimeconfig.Features
	LoggingConfig    = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the development defaults: local SQLite, cart and
// JSON API on, repository cache off.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads the YAML file at path over the defaults and applies the
// STOREFRONT_DSN and STOREFRONT_SESSION_SECRET overrides. An empty path
// yields the defaults.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
