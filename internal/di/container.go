package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-cms-editor/internal/backend"
	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/logging/console"
	"github.com/goliatone/go-cms-editor/internal/logging/gologger"
	"github.com/goliatone/go-cms-editor/internal/runtimeconfig"
	"github.com/goliatone/go-cms-editor/internal/transport/httprpc"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
)

const defaultSQLiteDSN = "file:editor?mode=memory&cache=shared"

// ErrDatabaseRequired is returned when the bun provider is selected for a
// dialect the container cannot open on its own.
var ErrDatabaseRequired = errors.New("di: postgres storage requires WithBunDB or WithSQLDB")

// Container wires the editor services described by a runtime config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	sqlDB         *sql.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	repos   *backend.Repositories
	types   *backend.TypeRegistry
	user    string
	backend *backend.Backend

	service interfaces.ContainerpageService
	core    interfaces.CoreService
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCache overrides the default cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithBunDB supplies the database used by the bun storage provider.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithSQLDB supplies a raw connection that is wrapped with the configured
// bun dialect.
func WithSQLDB(db *sql.DB) Option {
	return func(c *Container) {
		c.sqlDB = db
	}
}

// WithRepositories replaces the storage selected from the config.
func WithRepositories(repos backend.Repositories) Option {
	return func(c *Container) {
		c.repos = &repos
	}
}

// WithTypes registers the resource types the backend can create.
func WithTypes(types *backend.TypeRegistry) Option {
	return func(c *Container) {
		c.types = types
	}
}

// WithUser sets the user that owns locks and lists.
func WithUser(user string) Option {
	return func(c *Container) {
		c.user = user
	}
}

// WithServices bypasses the in-process backend and the HTTP client.
func WithServices(service interfaces.ContainerpageService, core interfaces.CoreService) Option {
	return func(c *Container) {
		c.service = service
		c.core = core
	}
}

// NewContainer validates cfg and builds the services it selects.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid editor config").
			WithTextCode("CONFIG_INVALID")
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "editor.di")

	if err := c.configureServices(); err != nil {
		c.Close()
		return nil, err
	}

	c.logger.Info("container.configured",
		"storage", c.storageName(),
		"transport", c.transportName(),
		"cache", c.cacheService != nil,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "configure go-logger provider").
				WithTextCode("LOGGER_INVALID")
		}
		c.loggerProvider = provider
	default:
		level := console.ParseLevel(logCfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) configureServices() error {
	if c.service != nil && c.core != nil {
		return nil
	}

	if strings.EqualFold(c.Config.Transport.Kind, "http") {
		client := httprpc.NewClient(c.Config.Transport.BaseURL,
			httprpc.WithTimeout(c.Config.Transport.Timeout),
			httprpc.WithClientLoggerProvider(c.loggerProvider),
		)
		c.service, c.core = client, client
		return nil
	}

	if c.repos == nil {
		repos, err := c.configureRepositories()
		if err != nil {
			return err
		}
		c.repos = &repos
	}

	opts := []backend.Option{
		backend.WithLoggerProvider(c.loggerProvider),
		backend.WithMaxRecent(c.Config.Favorites.MaxRecent),
	}
	if c.types != nil {
		opts = append(opts, backend.WithTypes(c.types))
	}
	if c.user != "" {
		opts = append(opts, backend.WithUser(c.user))
	}
	c.backend = backend.New(*c.repos, opts...)
	c.service, c.core = c.backend, c.backend
	return nil
}

func (c *Container) configureRepositories() (backend.Repositories, error) {
	if !strings.EqualFold(c.Config.Storage.Provider, "bun") {
		return backend.NewMemoryRepositories(), nil
	}

	db, err := c.openDB()
	if err != nil {
		return backend.Repositories{}, err
	}
	if err := backend.CreateSchema(context.Background(), db); err != nil {
		return backend.Repositories{}, goerrors.Wrap(err, goerrors.CategoryInternal, "create editor schema").
			WithTextCode("STORAGE_SCHEMA")
	}

	c.configureCacheDefaults()
	return backend.NewBunRepositories(db, c.cacheService, c.keySerializer), nil
}

func (c *Container) openDB() (*bun.DB, error) {
	if c.bunDB != nil {
		return c.bunDB, nil
	}

	postgres := strings.EqualFold(c.Config.Storage.Dialect, "postgres")
	if c.sqlDB == nil {
		if postgres {
			return nil, ErrDatabaseRequired
		}
		dsn := strings.TrimSpace(c.Config.Storage.DSN)
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "open sqlite database").
				WithTextCode("STORAGE_OPEN")
		}
		c.sqlDB = sqlDB
		c.ownsDB = true
	}

	if postgres {
		c.bunDB = bun.NewDB(c.sqlDB, pgdialect.New())
	} else {
		c.bunDB = bun.NewDB(c.sqlDB, sqlitedialect.New())
		c.bunDB.SetMaxOpenConns(1)
	}
	return c.bunDB, nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("cache.disabled", "error", err)
			return
		}
		c.cacheService = service
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) storageName() string {
	switch {
	case c.backend == nil:
		return "remote"
	case c.bunDB != nil:
		return fmt.Sprintf("bun/%s", c.bunDB.Dialect().Name())
	default:
		return "memory"
	}
}

func (c *Container) transportName() string {
	if _, ok := c.service.(*httprpc.Client); ok {
		return "http"
	}
	return "inprocess"
}

// LoggerProvider returns the provider shared by every editor module. It is
// nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// ContainerpageService returns the container-page RPC boundary.
func (c *Container) ContainerpageService() interfaces.ContainerpageService { return c.service }

// CoreService returns the locking and UI-state RPC boundary.
func (c *Container) CoreService() interfaces.CoreService { return c.core }

// Backend returns the in-process backend, or nil when services are remote or
// supplied by the caller.
func (c *Container) Backend() *backend.Backend { return c.backend }

// BunDB returns the database behind the bun storage provider.
func (c *Container) BunDB() *bun.DB { return c.bunDB }

// RPCTimeout is the per-call timeout applied by the controller.
func (c *Container) RPCTimeout() time.Duration { return c.Config.Transport.Timeout }

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if !c.ownsDB || c.sqlDB == nil {
		return nil
	}
	c.ownsDB = false
	return c.sqlDB.Close()
}
