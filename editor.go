package editor

import (
	"database/sql"
	"net/http"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-editor/internal/backend"
	"github.com/goliatone/go-cms-editor/internal/di"
	"github.com/goliatone/go-cms-editor/internal/pageadapter"
	"github.com/goliatone/go-cms-editor/internal/pagedata"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"github.com/goliatone/go-cms-editor/internal/transport/httprpc"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
)

// PageData exports the page description parsed from the page-data blob.
type PageData = pagedata.PageData

// MarkupIssue exports a problem found while scanning the page markup.
type MarkupIssue = pageadapter.MarkupIssue

// ClientID exports the client-side element id.
type ClientID = shared.ClientID

// ElementData exports the cached element description.
type ElementData = shared.ElementData

// Backend exports the in-process service implementation.
type Backend = backend.Backend

// TypeRegistry exports the registry of creatable resource types.
type TypeRegistry = backend.TypeRegistry

// TypeDefinition exports a single creatable resource type.
type TypeDefinition = backend.TypeDefinition

// ElementRecord exports a stored element.
type ElementRecord = backend.ElementRecord

// ContainerpageService exports the container-page RPC contract.
type ContainerpageService = interfaces.ContainerpageService

// CoreService exports the locking and UI-state RPC contract.
type CoreService = interfaces.CoreService

// LoggerProvider exports the logging contract.
type LoggerProvider = interfaces.LoggerProvider

// Option configures a Module.
type Option = di.Option

// ParsePageData validates and decodes a page-data blob.
func ParsePageData(raw []byte) (*PageData, error) {
	return pagedata.Parse(raw)
}

// NewTypeRegistry builds a registry from defs.
func NewTypeRegistry(defs ...TypeDefinition) *TypeRegistry {
	return backend.NewTypeRegistry(defs...)
}

// WithLoggerProvider overrides the provider selected from the logging config.
func WithLoggerProvider(provider LoggerProvider) Option { return di.WithLoggerProvider(provider) }

// WithCache overrides the repository cache used by bun storage.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return di.WithCache(service, serializer)
}

// WithBunDB supplies the database used by bun storage.
func WithBunDB(db *bun.DB) Option { return di.WithBunDB(db) }

// WithSQLDB supplies a raw connection wrapped with the configured dialect.
func WithSQLDB(db *sql.DB) Option { return di.WithSQLDB(db) }

// WithTypes registers the resource types the backend can create.
func WithTypes(types *TypeRegistry) Option { return di.WithTypes(types) }

// WithUser sets the user owning locks and lists.
func WithUser(user string) Option { return di.WithUser(user) }

// WithServices replaces the backend and the HTTP client with caller services.
func WithServices(service ContainerpageService, core CoreService) Option {
	return di.WithServices(service, core)
}

// Module is the top level editor runtime façade.
type Module struct {
	container *di.Container
}

// New constructs an editor module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config { return m.container.Config }

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container { return m.container }

// Backend returns the in-process backend, or nil when services are remote.
func (m *Module) Backend() *Backend { return m.container.Backend() }

// Services returns the RPC boundaries sessions talk to.
func (m *Module) Services() (ContainerpageService, CoreService) {
	return m.container.ContainerpageService(), m.container.CoreService()
}

// Handler serves the module services over HTTP.
func (m *Module) Handler() http.Handler {
	service, core := m.Services()
	return httprpc.NewServer(service, core,
		httprpc.WithServerLoggerProvider(m.container.LoggerProvider()),
	).Handler()
}

// Close releases storage opened by the module.
func (m *Module) Close() error {
	return m.container.Close()
}
