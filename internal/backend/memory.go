package backend

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryRepositories returns map-backed repositories for tests and demos.
func NewMemoryRepositories() Repositories {
	return Repositories{
		Elements: NewMemoryElementRepository(),
		Pages:    NewMemoryPageRepository(),
		Lists:    NewMemoryListRepository(),
	}
}

type memoryElementRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*ElementRecord
}

// NewMemoryElementRepository constructs an in-memory element repository.
func NewMemoryElementRepository() ElementRepository {
	return &memoryElementRepository{byID: make(map[uuid.UUID]*ElementRecord)}
}

func (m *memoryElementRepository) Create(_ context.Context, record *ElementRecord) (*ElementRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneElement(record)
	m.byID[cloned.ID] = cloned
	return cloneElement(cloned), nil
}

func (m *memoryElementRepository) GetByID(_ context.Context, id uuid.UUID) (*ElementRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "element", Key: id.String()}
	}
	return cloneElement(record), nil
}

func (m *memoryElementRepository) Update(_ context.Context, record *ElementRecord) (*ElementRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "element", Key: record.ID.String()}
	}
	cloned := cloneElement(record)
	m.byID[cloned.ID] = cloned
	return cloneElement(cloned), nil
}

func (m *memoryElementRepository) ListPublishLocked(_ context.Context, ids []uuid.UUID) ([]*ElementRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*ElementRecord
	for _, id := range ids {
		if record, ok := m.byID[id]; ok && record.PublishLocked {
			records = append(records, cloneElement(record))
		}
	}
	return records, nil
}

type memoryPageRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*PageRecord
}

// NewMemoryPageRepository constructs an in-memory page repository.
func NewMemoryPageRepository() PageRepository {
	return &memoryPageRepository{byID: make(map[uuid.UUID]*PageRecord)}
}

func (m *memoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*PageRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: id.String()}
	}
	return clonePage(record), nil
}

func (m *memoryPageRepository) Save(_ context.Context, record *PageRecord) (*PageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := clonePage(record)
	m.byID[cloned.ID] = cloned
	return clonePage(cloned), nil
}

type memoryListRepository struct {
	mu    sync.RWMutex
	lists map[uuid.UUID]*ListRecord
}

// NewMemoryListRepository constructs an in-memory list repository.
func NewMemoryListRepository() ListRepository {
	return &memoryListRepository{lists: make(map[uuid.UUID]*ListRecord)}
}

func (m *memoryListRepository) Get(_ context.Context, owner string, kind ListKind) (*ListRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.lists[listID(owner, kind)]
	if !ok {
		return nil, &NotFoundError{Resource: "list", Key: owner + ":" + string(kind)}
	}
	return cloneList(record), nil
}

func (m *memoryListRepository) Save(_ context.Context, record *ListRecord) (*ListRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneList(record)
	cloned.ID = listID(record.Owner, record.Kind)
	m.lists[cloned.ID] = cloned
	return cloneList(cloned), nil
}
