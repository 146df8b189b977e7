package backend

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ElementRepository persists element records.
type ElementRepository interface {
	Create(ctx context.Context, record *ElementRecord) (*ElementRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ElementRecord, error)
	Update(ctx context.Context, record *ElementRecord) (*ElementRecord, error)
	// ListPublishLocked returns the records among ids that are still publish locked.
	ListPublishLocked(ctx context.Context, ids []uuid.UUID) ([]*ElementRecord, error)
}

// PageRepository persists container page layouts and locks.
type PageRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*PageRecord, error)
	Save(ctx context.Context, record *PageRecord) (*PageRecord, error)
}

// ListRepository persists favorites and recent lists.
type ListRepository interface {
	Get(ctx context.Context, owner string, kind ListKind) (*ListRecord, error)
	Save(ctx context.Context, record *ListRecord) (*ListRecord, error)
}

// Repositories groups the storage the backend needs.
type Repositories struct {
	Elements ElementRepository
	Pages    PageRepository
	Lists    ListRepository
}

// NotFoundError is returned when a stored record cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err is a NotFoundError or carries the not found category.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var target *NotFoundError
	if errors.As(err, &target) {
		return true
	}
	return goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

func notFound(resource, key string) error {
	return goerrors.Wrap(&NotFoundError{Resource: resource, Key: key}, goerrors.CategoryNotFound, resource+" not found").
		WithTextCode(TextCodeNotFound)
}
