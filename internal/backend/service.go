package backend

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-cms-editor/internal/commands"
	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	DefaultUser      = "editor"
	DefaultMaxRecent = 10
)

// Option configures a Backend.
type Option func(*Backend)

// WithLoggerProvider sets the provider for backend and command loggers.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(b *Backend) {
		b.provider = provider
	}
}

// WithUser sets the user that owns locks and lists of this backend.
func WithUser(user string) Option {
	return func(b *Backend) {
		if user != "" {
			b.user = user
		}
	}
}

// WithMaxRecent caps the stored recent list.
func WithMaxRecent(n int) Option {
	return func(b *Backend) {
		if n > 0 {
			b.maxRecent = n
		}
	}
}

// WithTypes sets the resource type registry.
func WithTypes(types *TypeRegistry) Option {
	return func(b *Backend) {
		if types != nil {
			b.types = types
		}
	}
}

// WithClock overrides the time source used for modification stamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		if now != nil {
			b.now = now
		}
	}
}

// Backend implements the container-page and core services on top of the
// element, page and list repositories. Write operations run as commands.
type Backend struct {
	repos     Repositories
	types     *TypeRegistry
	user      string
	maxRecent int
	now       func() time.Time

	provider      interfaces.LoggerProvider
	logger        interfaces.Logger
	commandLogger interfaces.Logger
	commands      commandSet

	seq            atomic.Uint64
	toolbarVisible atomic.Bool
}

var (
	_ interfaces.ContainerpageService = (*Backend)(nil)
	_ interfaces.CoreService          = (*Backend)(nil)
)

// New constructs a backend over repos.
func New(repos Repositories, opts ...Option) *Backend {
	b := &Backend{
		repos:     repos,
		types:     NewTypeRegistry(),
		user:      DefaultUser,
		maxRecent: DefaultMaxRecent,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.WithFields(logging.BackendLogger(b.provider), map[string]any{"user": b.user})
	b.commandLogger = commands.CommandLogger(b.provider, "backend")
	b.registerCommands()
	b.toolbarVisible.Store(true)
	return b
}

// Types exposes the resource type registry.
func (b *Backend) Types() *TypeRegistry {
	return b.types
}

// User returns the user this backend acts for.
func (b *Backend) User() string {
	return b.user
}

// SeedElement stores record as is.
func (b *Backend) SeedElement(ctx context.Context, record *ElementRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = b.now()
		record.UpdatedAt = record.CreatedAt
	}
	if _, err := b.repos.Elements.Create(ctx, record); err != nil {
		return storageError(err, "seed element")
	}
	return nil
}

// Element returns the stored record behind id.
func (b *Backend) Element(ctx context.Context, id shared.ClientID) (*ElementRecord, error) {
	return b.element(ctx, id)
}

// Page returns the stored layout of pageID.
func (b *Backend) Page(ctx context.Context, pageID string) (*PageRecord, error) {
	page, err := b.repos.Pages.GetByID(ctx, PageRecordID(pageID))
	if err != nil {
		return nil, storageError(err, "load page")
	}
	return page, nil
}

// SetPublishLocked flags or releases the publish lock of an element.
func (b *Backend) SetPublishLocked(ctx context.Context, id shared.ClientID, locked bool) error {
	record, err := b.element(ctx, id)
	if err != nil {
		return err
	}
	record.PublishLocked = locked
	record.UpdatedAt = b.now()
	if _, err := b.repos.Elements.Update(ctx, record); err != nil {
		return storageError(err, "update publish lock")
	}
	b.logger.WithContext(ctx).Debug("backend.publish_lock.updated", "client_id", id.String(), "locked", locked)
	return nil
}

// ToolbarVisible reports the last stored toolbar visibility.
func (b *Backend) ToolbarVisible() bool {
	return b.toolbarVisible.Load()
}

func (b *Backend) GetElementsData(ctx context.Context, req shared.ElementsRequest) (map[shared.ClientID]*shared.ElementData, error) {
	out := make(map[shared.ClientID]*shared.ElementData, len(req.ClientIDs))
	for _, id := range req.ClientIDs {
		if err := b.collect(ctx, id, req.Containers, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// collect adds the data of id, and of its sub-items for group containers.
// Unknown ids are skipped.
func (b *Backend) collect(ctx context.Context, id shared.ClientID, containers []shared.ContainerDefinition, out map[shared.ClientID]*shared.ElementData) error {
	if _, done := out[id]; done {
		return nil
	}
	if !id.IsStructureID() {
		def, ok := b.types.Lookup(id.ServerID())
		if !ok {
			b.logger.Debug("backend.element.unknown_type", "client_id", id.String())
			return nil
		}
		out[id] = b.newElementData(def, containers)
		return nil
	}

	record, err := b.element(ctx, id)
	if IsNotFound(err) {
		b.logger.Debug("backend.element.missing", "client_id", id.String())
		return nil
	}
	if err != nil {
		return err
	}
	out[id] = b.elementData(record, id, containers)
	for _, sub := range record.SubItems {
		if err := b.collect(ctx, shared.ClientID(sub), containers, out); err != nil {
			return err
		}
	}
	return nil
}

func (b *Backend) GetNewElementData(_ context.Context, req shared.NewElementRequest) (*shared.ElementData, error) {
	def, ok := b.types.Lookup(req.ResourceType)
	if !ok {
		return nil, notFound("resource type", req.ResourceType)
	}
	return b.newElementData(def, req.Containers), nil
}

func (b *Backend) CopyElement(ctx context.Context, req shared.CopyElementRequest) (shared.ClientID, error) {
	source, err := b.element(ctx, req.ClientID)
	if err != nil {
		return "", err
	}
	copied := cloneElement(source)
	copied.ID = copiedElementID(source.ID, b.seq.Add(1))
	copied.SitePath = sitePath(copied.ResourceType, copied.ID)
	copied.PublishLocked = false
	copied.CreatedAt = b.now()
	copied.UpdatedAt = copied.CreatedAt
	if _, err := b.repos.Elements.Create(ctx, copied); err != nil {
		return "", storageError(err, "copy element")
	}
	b.logger.WithContext(ctx).Info("backend.element.copied", "source", source.ID.String(), "copy", copied.ID.String())
	return shared.NewClientID(copied.ID.String(), req.ClientID.SettingsHash()), nil
}

// CheckCreateNewElement creates the element right away unless the type
// offers a choice between several model resources.
func (b *Backend) CheckCreateNewElement(ctx context.Context, req shared.CreateElementRequest) (*shared.CreateElementData, error) {
	def, ok := b.types.Lookup(req.ResourceType)
	if !ok {
		return nil, notFound("resource type", req.ResourceType)
	}
	if len(def.ModelResources) > 1 {
		return &shared.CreateElementData{ModelResources: slices.Clone(def.ModelResources)}, nil
	}
	if len(def.ModelResources) == 1 && req.ModelResource == "" {
		req.ModelResource = def.ModelResources[0].StructureID
	}
	created, err := b.CreateNewElement(ctx, req)
	if err != nil {
		return nil, err
	}
	return &shared.CreateElementData{Created: created}, nil
}

func (b *Backend) CreateNewElement(ctx context.Context, req shared.CreateElementRequest) (*shared.ContainerElement, error) {
	def, ok := b.types.Lookup(req.ResourceType)
	if !ok {
		return nil, notFound("resource type", req.ResourceType)
	}
	record := &ElementRecord{
		ID:             createdElementID(req.PageID, def.Name, b.seq.Add(1)),
		ResourceType:   def.Name,
		Title:          def.Title,
		Contents:       def.Contents,
		GroupContainer: def.GroupContainer,
		CreatedAt:      b.now(),
	}
	record.UpdatedAt = record.CreatedAt
	if req.ModelResource != "" {
		model, err := b.element(ctx, shared.ClientID(req.ModelResource))
		if err != nil {
			return nil, err
		}
		record.Title = model.Title
		record.Contents = model.Contents
		record.FieldValues = model.FieldValues
	}
	record = cloneElement(record)
	record.SitePath = sitePath(def.Name, record.ID)
	if _, err := b.repos.Elements.Create(ctx, record); err != nil {
		return nil, storageError(err, "create element")
	}
	b.logger.WithContext(ctx).Info("backend.element.created", "resource_type", def.Name, "id", record.ID.String())
	return &shared.ContainerElement{
		ClientID: shared.NewClientID(record.ID.String(), req.ClientID.SettingsHash()),
		SitePath: record.SitePath,
	}, nil
}

// SaveContainerpage stores the layout and returns the new modification stamp.
func (b *Backend) SaveContainerpage(ctx context.Context, req shared.SavePageRequest) (int64, error) {
	err := b.commands.savePage.Execute(ctx, SavePageCommand{
		PageID:     req.PageID,
		Locale:     req.Locale,
		Containers: req.Containers,
	})
	if err != nil {
		return 0, err
	}
	page, err := b.loadPage(ctx, req.PageID)
	if err != nil {
		return 0, err
	}
	return page.LastModified, nil
}

func (b *Backend) SaveGroupContainer(ctx context.Context, req shared.SaveGroupContainerRequest) (map[shared.ClientID]*shared.ElementData, error) {
	err := b.commands.saveGroup.Execute(ctx, SaveGroupContainerCommand{
		PageID:   req.PageID,
		GroupID:  req.GroupContainer.ClientID,
		Title:    req.GroupContainer.Title,
		Elements: req.GroupContainer.Elements,
	})
	if err != nil {
		return nil, err
	}
	out := map[shared.ClientID]*shared.ElementData{}
	if err := b.collect(ctx, req.GroupContainer.ClientID, req.Containers, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Backend) GetFavoriteList(ctx context.Context, req shared.ListRequest) ([]*shared.ElementData, error) {
	return b.renderList(ctx, ListFavorites, req.Containers)
}

func (b *Backend) GetRecentList(ctx context.Context, req shared.ListRequest) ([]*shared.ElementData, error) {
	return b.renderList(ctx, ListRecent, req.Containers)
}

func (b *Backend) SaveFavoriteList(ctx context.Context, ids []shared.ClientID) error {
	return b.commands.saveList.Execute(ctx, SaveListCommand{Owner: b.user, Kind: ListFavorites, IDs: ids})
}

func (b *Backend) AddToFavoriteList(ctx context.Context, id shared.ClientID) error {
	return b.commands.addToList.Execute(ctx, AddToListCommand{Owner: b.user, Kind: ListFavorites, ID: id})
}

func (b *Backend) AddToRecentList(ctx context.Context, id shared.ClientID) error {
	return b.commands.addToList.Execute(ctx, AddToListCommand{Owner: b.user, Kind: ListRecent, ID: id, Limit: b.maxRecent})
}

// GetElementsLockedForPublishing returns the ids, in request order, whose
// element is still publish locked.
func (b *Backend) GetElementsLockedForPublishing(ctx context.Context, ids []shared.ClientID) ([]shared.ClientID, error) {
	var lookup []uuid.UUID
	for _, id := range ids {
		if parsed, err := uuid.Parse(id.ServerID()); err == nil {
			lookup = append(lookup, parsed)
		}
	}
	records, err := b.repos.Elements.ListPublishLocked(ctx, lookup)
	if err != nil {
		return nil, storageError(err, "list publish locked")
	}
	locked := make(map[string]struct{}, len(records))
	for _, record := range records {
		locked[record.ID.String()] = struct{}{}
	}
	var out []shared.ClientID
	for _, id := range ids {
		if _, ok := locked[id.ServerID()]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (b *Backend) SaveImageValue(ctx context.Context, req shared.SaveValueRequest) error {
	return b.commands.saveValue.Execute(ctx, SaveValueCommand{
		ContentID:   req.ContentID,
		ContentPath: req.ContentPath,
		Locale:      req.Locale,
		Value:       req.Value,
	})
}

func (b *Backend) renderList(ctx context.Context, kind ListKind, containers []shared.ContainerDefinition) ([]*shared.ElementData, error) {
	items, err := b.listItems(ctx, b.user, kind)
	if err != nil {
		return nil, err
	}
	out := make([]*shared.ElementData, 0, len(items))
	for _, item := range items {
		id := shared.ClientID(item)
		record, err := b.element(ctx, id)
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b.elementData(record, id, containers))
	}
	return out, nil
}

func (b *Backend) listItems(ctx context.Context, owner string, kind ListKind) ([]string, error) {
	record, err := b.repos.Lists.Get(ctx, owner, kind)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError(err, "load "+string(kind)+" list")
	}
	return record.Items, nil
}

func (b *Backend) loadPage(ctx context.Context, pageID string) (*PageRecord, error) {
	page, err := b.repos.Pages.GetByID(ctx, PageRecordID(pageID))
	if IsNotFound(err) {
		return &PageRecord{ID: PageRecordID(pageID), Key: pageID, CreatedAt: b.now()}, nil
	}
	if err != nil {
		return nil, storageError(err, "load page")
	}
	return page, nil
}

func (b *Backend) element(ctx context.Context, id shared.ClientID) (*ElementRecord, error) {
	parsed, err := uuid.Parse(id.ServerID())
	if err != nil {
		return nil, invalidID(id.String())
	}
	record, err := b.repos.Elements.GetByID(ctx, parsed)
	if err != nil {
		return nil, storageError(err, "load element")
	}
	return record, nil
}

func (b *Backend) elementData(record *ElementRecord, id shared.ClientID, containers []shared.ContainerDefinition) *shared.ElementData {
	data := &shared.ElementData{
		ClientID:              id,
		ResourceType:          record.ResourceType,
		SitePath:              record.SitePath,
		Title:                 record.Title,
		Contents:              contentsFor(record.Contents, containers),
		GroupContainer:        record.GroupContainer,
		SubItems:              shared.ClientIDs(record.SubItems...),
		Settings:              record.Settings,
		HasViewPermission:     true,
		HasWritePermission:    record.NoEditReason == "",
		ReleasedAndNotExpired: true,
		NoEditReason:          record.NoEditReason,
		PublishLocked:         record.PublishLocked,
	}
	return data.Clone()
}

func (b *Backend) newElementData(def TypeDefinition, containers []shared.ContainerDefinition) *shared.ElementData {
	return &shared.ElementData{
		ClientID:              shared.ClientID(def.Name),
		ResourceType:          def.Name,
		Title:                 def.Title,
		Contents:              contentsFor(def.Contents, containers),
		New:                   true,
		GroupContainer:        def.GroupContainer,
		HasViewPermission:     true,
		HasWritePermission:    true,
		ReleasedAndNotExpired: true,
	}
}

func sitePath(resourceType string, id uuid.UUID) string {
	return "/.content/" + resourceType + "/" + id.String() + ".html"
}
