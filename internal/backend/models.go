package backend

import (
	"maps"
	"slices"
	"time"

	"github.com/goliatone/go-cms-editor/internal/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ElementRecord is a stored container element. Contents are keyed by
// container type; the "*" key matches any type.
type ElementRecord struct {
	bun.BaseModel `bun:"table:editor_elements,alias:ee"`

	ID             uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	ResourceType   string            `bun:"resource_type,notnull" json:"resource_type"`
	Title          string            `bun:"title" json:"title"`
	SitePath       string            `bun:"site_path" json:"site_path"`
	Contents       map[string]string `bun:"contents,type:jsonb" json:"contents,omitempty"`
	FieldValues    map[string]string `bun:"field_values,type:jsonb" json:"field_values,omitempty"`
	Settings       map[string]string `bun:"settings,type:jsonb" json:"settings,omitempty"`
	GroupContainer bool              `bun:"group_container,notnull,default:false" json:"group_container"`
	SubItems       []string          `bun:"sub_items,type:jsonb" json:"sub_items,omitempty"`
	NoEditReason   string            `bun:"no_edit_reason" json:"no_edit_reason,omitempty"`
	PublishLocked  bool              `bun:"publish_locked,notnull,default:false" json:"publish_locked"`
	CreatedAt      time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// PageRecord stores the container layout and lock of a container page.
type PageRecord struct {
	bun.BaseModel `bun:"table:editor_pages,alias:ep"`

	ID           uuid.UUID          `bun:",pk,type:uuid" json:"id"`
	Key          string             `bun:"key,notnull" json:"key"`
	Locale       string             `bun:"locale" json:"locale"`
	Containers   []shared.Container `bun:"containers,type:jsonb" json:"containers,omitempty"`
	LockOwner    string             `bun:"lock_owner" json:"lock_owner,omitempty"`
	LastModified int64              `bun:"last_modified,notnull,default:0" json:"last_modified"`
	CreatedAt    time.Time          `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time          `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// ListKind names a per-user element list.
type ListKind string

const (
	ListFavorites ListKind = "favorites"
	ListRecent    ListKind = "recent"
)

// ListRecord stores the favorites or recent list of one user.
type ListRecord struct {
	bun.BaseModel `bun:"table:editor_lists,alias:el"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Owner     string    `bun:"owner,notnull" json:"owner"`
	Kind      ListKind  `bun:"kind,notnull" json:"kind"`
	Items     []string  `bun:"items,type:jsonb" json:"items"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func cloneElement(record *ElementRecord) *ElementRecord {
	if record == nil {
		return nil
	}
	cloned := *record
	cloned.Contents = maps.Clone(record.Contents)
	cloned.FieldValues = maps.Clone(record.FieldValues)
	cloned.Settings = maps.Clone(record.Settings)
	cloned.SubItems = slices.Clone(record.SubItems)
	return &cloned
}

func clonePage(record *PageRecord) *PageRecord {
	if record == nil {
		return nil
	}
	cloned := *record
	cloned.Containers = make([]shared.Container, len(record.Containers))
	for i, container := range record.Containers {
		container.Elements = slices.Clone(container.Elements)
		cloned.Containers[i] = container
	}
	return &cloned
}

func cloneList(record *ListRecord) *ListRecord {
	if record == nil {
		return nil
	}
	cloned := *record
	cloned.Items = slices.Clone(record.Items)
	return &cloned
}

// ContentFor picks the markup rendered into a container of containerType.
func (r *ElementRecord) ContentFor(containerType string) (string, bool) {
	if content, ok := r.Contents[containerType]; ok {
		return content, true
	}
	content, ok := r.Contents["*"]
	return content, ok
}
