package interfaces

import (
	"context"

	"github.com/goliatone/go-cms-editor/internal/shared"
)

// ContainerpageService is the container-page RPC boundary. Calls are plain
// request/response; callers run them off the editor loop.
type ContainerpageService interface {
	GetElementsData(ctx context.Context, req shared.ElementsRequest) (map[shared.ClientID]*shared.ElementData, error)
	GetNewElementData(ctx context.Context, req shared.NewElementRequest) (*shared.ElementData, error)
	CopyElement(ctx context.Context, req shared.CopyElementRequest) (shared.ClientID, error)
	CheckCreateNewElement(ctx context.Context, req shared.CreateElementRequest) (*shared.CreateElementData, error)
	CreateNewElement(ctx context.Context, req shared.CreateElementRequest) (*shared.ContainerElement, error)
	SaveContainerpage(ctx context.Context, req shared.SavePageRequest) (int64, error)
	SaveGroupContainer(ctx context.Context, req shared.SaveGroupContainerRequest) (map[shared.ClientID]*shared.ElementData, error)
	GetFavoriteList(ctx context.Context, req shared.ListRequest) ([]*shared.ElementData, error)
	GetRecentList(ctx context.Context, req shared.ListRequest) ([]*shared.ElementData, error)
	SaveFavoriteList(ctx context.Context, ids []shared.ClientID) error
	AddToFavoriteList(ctx context.Context, id shared.ClientID) error
	AddToRecentList(ctx context.Context, id shared.ClientID) error
	GetElementsLockedForPublishing(ctx context.Context, ids []shared.ClientID) ([]shared.ClientID, error)
	SaveImageValue(ctx context.Context, req shared.SaveValueRequest) error
}

// CoreService covers locking and session-scoped UI state.
type CoreService interface {
	LockAndCheckModification(ctx context.Context, structureID string, lastModified int64) (shared.LockInfo, error)
	Unlock(ctx context.Context, structureID string) error
	ContextMenuEntries(ctx context.Context, structureID string) ([]shared.ContextMenuEntry, error)
	SetToolbarVisible(ctx context.Context, visible bool) error
}
