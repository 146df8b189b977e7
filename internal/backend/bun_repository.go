package backend

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	elementNamespace = "editor_element"
	pageNamespace    = "editor_page"
	listNamespace    = "editor_list"
)

// NewBunRepositories returns bun-backed repositories. cacheService and
// serializer are optional; both must be set to enable caching.
func NewBunRepositories(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) Repositories {
	return Repositories{
		Elements: NewBunElementRepository(db, cacheService, serializer),
		Pages:    NewBunPageRepository(db, cacheService, serializer),
		Lists:    NewBunListRepository(db, cacheService, serializer),
	}
}

// CreateSchema creates the editor tables when they do not exist yet.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*ElementRecord)(nil),
		(*PageRecord)(nil),
		(*ListRecord)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

func newElementRecordRepository(db *bun.DB) repository.Repository[*ElementRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ElementRecord]{
		NewRecord: func() *ElementRecord { return &ElementRecord{} },
		GetID: func(r *ElementRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *ElementRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *ElementRecord) string {
			return r.ID.String()
		},
	})
}

func newPageRecordRepository(db *bun.DB) repository.Repository[*PageRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*PageRecord]{
		NewRecord: func() *PageRecord { return &PageRecord{} },
		GetID: func(r *PageRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *PageRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(r *PageRecord) string {
			return r.Key
		},
	})
}

func newListRecordRepository(db *bun.DB) repository.Repository[*ListRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ListRecord]{
		NewRecord: func() *ListRecord { return &ListRecord{} },
		GetID: func(r *ListRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *ListRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *ListRecord) string {
			return r.ID.String()
		},
	})
}

// BunElementRepository implements ElementRepository with optional caching.
type BunElementRepository struct {
	repo         repository.Repository[*ElementRecord]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunElementRepository creates an element repository.
func NewBunElementRepository(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunElementRepository {
	base, svc := wrapWithCache(newElementRecordRepository(db), cacheService, serializer)
	return &BunElementRepository{repo: base, cacheService: svc, cachePrefix: prefixFor(svc, elementNamespace)}
}

func (r *BunElementRepository) Create(ctx context.Context, record *ElementRecord) (*ElementRecord, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunElementRepository) GetByID(ctx context.Context, id uuid.UUID) (*ElementRecord, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "element", id.String())
	}
	return record, nil
}

func (r *BunElementRepository) Update(ctx context.Context, record *ElementRecord) (*ElementRecord, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "element", record.ID.String())
	}
	if err := r.InvalidateCache(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunElementRepository) ListPublishLocked(ctx context.Context, ids []uuid.UUID) ([]*ElementRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id IN (?)", bun.In(keys)).
				Where("?TableAlias.publish_locked = ?", true)
		}),
	)
	return records, err
}

// InvalidateCache drops cached element lookups.
func (r *BunElementRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunPageRepository implements PageRepository with optional caching.
type BunPageRepository struct {
	repo         repository.Repository[*PageRecord]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunPageRepository creates a page repository.
func NewBunPageRepository(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunPageRepository {
	base, svc := wrapWithCache(newPageRecordRepository(db), cacheService, serializer)
	return &BunPageRepository{repo: base, cacheService: svc, cachePrefix: prefixFor(svc, pageNamespace)}
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*PageRecord, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return record, nil
}

// Save inserts the record or replaces the stored one.
func (r *BunPageRepository) Save(ctx context.Context, record *PageRecord) (*PageRecord, error) {
	var (
		saved *PageRecord
		err   error
	)
	if _, getErr := r.GetByID(ctx, record.ID); getErr == nil {
		saved, err = r.repo.Update(ctx, record)
	} else if IsNotFound(getErr) {
		saved, err = r.repo.Create(ctx, record)
	} else {
		return nil, getErr
	}
	if err != nil {
		return nil, mapRepositoryError(err, "page", record.ID.String())
	}
	if err := r.InvalidateCache(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

// InvalidateCache drops cached page lookups.
func (r *BunPageRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunListRepository implements ListRepository with optional caching.
type BunListRepository struct {
	repo         repository.Repository[*ListRecord]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunListRepository creates a list repository.
func NewBunListRepository(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunListRepository {
	base, svc := wrapWithCache(newListRecordRepository(db), cacheService, serializer)
	return &BunListRepository{repo: base, cacheService: svc, cachePrefix: prefixFor(svc, listNamespace)}
}

func (r *BunListRepository) Get(ctx context.Context, owner string, kind ListKind) (*ListRecord, error) {
	id := listID(owner, kind)
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "list", owner+":"+string(kind))
	}
	return record, nil
}

// Save inserts the list or replaces the stored one.
func (r *BunListRepository) Save(ctx context.Context, record *ListRecord) (*ListRecord, error) {
	record.ID = listID(record.Owner, record.Kind)
	var (
		saved *ListRecord
		err   error
	)
	if _, getErr := r.Get(ctx, record.Owner, record.Kind); getErr == nil {
		saved, err = r.repo.Update(ctx, record)
	} else if IsNotFound(getErr) {
		saved, err = r.repo.Create(ctx, record)
	} else {
		return nil, getErr
	}
	if err != nil {
		return nil, mapRepositoryError(err, "list", record.Owner+":"+string(record.Kind))
	}
	if err := r.InvalidateCache(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

// InvalidateCache drops cached list lookups.
func (r *BunListRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, serializer cache.KeySerializer) (repository.Repository[T], cache.CacheService) {
	if cacheService == nil || serializer == nil {
		return base, nil
	}
	return repositorycache.New(base, cacheService, serializer), cacheService
}

func prefixFor(svc cache.CacheService, namespace string) string {
	if svc == nil || namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
