package editor

import "github.com/goliatone/go-cms-editor/internal/runtimeconfig"

var (
	ErrLocaleRequired             = runtimeconfig.ErrLocaleRequired
	ErrPublishLockIntervalInvalid = runtimeconfig.ErrPublishLockIntervalInvalid
	ErrMaxRecentInvalid           = runtimeconfig.ErrMaxRecentInvalid
	ErrStorageProviderUnknown     = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDialectUnknown      = runtimeconfig.ErrStorageDialectUnknown
	ErrCacheTTLInvalid            = runtimeconfig.ErrCacheTTLInvalid
	ErrTransportBaseURLRequired   = runtimeconfig.ErrTransportBaseURLRequired
	ErrTransportUnknown           = runtimeconfig.ErrTransportUnknown
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
	ErrImageDndRequiresContainer  = runtimeconfig.ErrImageDndRequiresContainerpg
)

type (
	Config            = runtimeconfig.Config
	Features          = runtimeconfig.Features
	PublishLockConfig = runtimeconfig.PublishLockConfig
	FavoritesConfig   = runtimeconfig.FavoritesConfig
	StorageConfig     = runtimeconfig.StorageConfig
	CacheConfig       = runtimeconfig.CacheConfig
	TransportConfig   = runtimeconfig.TransportConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
