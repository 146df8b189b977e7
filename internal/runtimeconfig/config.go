package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrLocaleRequired              = errors.New("editor config: locale is required")
	ErrPublishLockIntervalInvalid  = errors.New("editor config: publish lock interval must be positive")
	ErrMaxRecentInvalid            = errors.New("editor config: recent list size must be zero or positive")
	ErrStorageProviderUnknown      = errors.New("editor config: storage provider is invalid")
	ErrStorageDialectUnknown       = errors.New("editor config: storage dialect is invalid")
	ErrTransportBaseURLRequired    = errors.New("editor config: transport base url is required for the http transport")
	ErrTransportUnknown            = errors.New("editor config: transport is invalid")
	ErrLoggingProviderRequired     = errors.New("editor config: logging provider is required when logging is enabled")
	ErrLoggingProviderUnknown      = errors.New("editor config: logging provider is invalid")
	ErrLoggingLevelInvalid         = errors.New("editor config: logging level is invalid")
	ErrLoggingFormatInvalid        = errors.New("editor config: logging format is invalid")
	ErrCacheTTLInvalid             = errors.New("editor config: cache ttl must be zero or positive")
	ErrImageDndRequiresContainerpg = errors.New("editor config: image drag and drop requires container page editing")
)

// Config aggregates the options of one editor session.
type Config struct {
	Locale      string
	Features    Features
	PublishLock PublishLockConfig
	Favorites   FavoritesConfig
	Storage     StorageConfig
	Cache       CacheConfig
	Transport   TransportConfig
	Logging     LoggingConfig
}

// Features toggles optional editor behaviour.
type Features struct {
	ContainerPage   bool
	GroupContainers bool
	Favorites       bool
	Recent          bool
	ImageDnd        bool
	Logger          bool
}

// PublishLockConfig controls the publish-lock poller.
type PublishLockConfig struct {
	Interval time.Duration
}

// FavoritesConfig controls the favorites and recent lists.
type FavoritesConfig struct {
	MaxRecent int
}

// StorageConfig selects the storage behind the in-process backend.
type StorageConfig struct {
	Provider string
	Dialect  string
	DSN      string
}

// CacheConfig wraps bun repositories with go-repository-cache.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// TransportConfig selects how RPC calls reach the server.
type TransportConfig struct {
	Kind    string
	BaseURL string
	Timeout time.Duration
}

// LoggingConfig captures provider options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the settings used by the stock editor.
func DefaultConfig() Config {
	return Config{
		Locale: "en",
		Features: Features{
			ContainerPage:   true,
			GroupContainers: true,
			Favorites:       true,
			Recent:          true,
			ImageDnd:        true,
		},
		PublishLock: PublishLockConfig{
			Interval: 500 * time.Millisecond,
		},
		Favorites: FavoritesConfig{
			MaxRecent: 10,
		},
		Storage: StorageConfig{
			Provider: "memory",
			Dialect:  "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Transport: TransportConfig{
			Kind:    "inprocess",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate checks the configuration for inconsistent combinations.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Locale) == "" {
		return ErrLocaleRequired
	}
	if cfg.PublishLock.Interval <= 0 {
		return ErrPublishLockIntervalInvalid
	}
	if cfg.Favorites.MaxRecent < 0 {
		return ErrMaxRecentInvalid
	}
	if cfg.Features.ImageDnd && !cfg.Features.ContainerPage {
		return ErrImageDndRequiresContainerpg
	}

	switch normalize(cfg.Storage.Provider) {
	case "memory":
	case "bun":
		switch normalize(cfg.Storage.Dialect) {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, cfg.Storage.Dialect)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}

	switch normalize(cfg.Transport.Kind) {
	case "", "inprocess":
	case "http":
		if strings.TrimSpace(cfg.Transport.BaseURL) == "" {
			return ErrTransportBaseURLRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrTransportUnknown, cfg.Transport.Kind)
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "console" && provider != "gologger" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := normalize(cfg.Logging.Format); format != "" && format != "json" && format != "console" && format != "pretty" {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}
