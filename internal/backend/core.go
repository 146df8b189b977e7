package backend

import (
	"context"

	"github.com/goliatone/go-cms-editor/internal/shared"
)

// LockAndCheckModification locks the page for the backend user. The lock
// fails when another user holds it or when the page changed after
// lastModified.
func (b *Backend) LockAndCheckModification(ctx context.Context, structureID string, lastModified int64) (shared.LockInfo, error) {
	page, err := b.loadPage(ctx, structureID)
	if err != nil {
		return shared.LockInfo{State: shared.LockError, Message: err.Error()}, nil
	}
	if page.LockOwner != "" && page.LockOwner != b.user {
		return shared.LockInfo{State: shared.LockLockedByOther, Owner: page.LockOwner}, nil
	}
	if page.LastModified > lastModified {
		return shared.LockInfo{State: shared.LockChangedSinceOpened, Owner: page.LockOwner}, nil
	}
	page.LockOwner = b.user
	page.UpdatedAt = b.now()
	if _, err := b.repos.Pages.Save(ctx, page); err != nil {
		return shared.LockInfo{}, storageError(err, "lock page")
	}
	b.logger.WithContext(ctx).Debug("backend.page.locked", "page_id", structureID)
	return shared.LockInfo{State: shared.LockSuccess, Owner: b.user}, nil
}

// Unlock releases the lock when it belongs to the backend user.
func (b *Backend) Unlock(ctx context.Context, structureID string) error {
	page, err := b.repos.Pages.GetByID(ctx, PageRecordID(structureID))
	if IsNotFound(err) {
		return nil
	}
	if err != nil {
		return storageError(err, "load page")
	}
	if page.LockOwner != b.user {
		return nil
	}
	page.LockOwner = ""
	page.UpdatedAt = b.now()
	if _, err := b.repos.Pages.Save(ctx, page); err != nil {
		return storageError(err, "unlock page")
	}
	b.logger.WithContext(ctx).Debug("backend.page.unlocked", "page_id", structureID)
	return nil
}

// ContextMenuEntries lists the actions available for an element.
func (b *Backend) ContextMenuEntries(ctx context.Context, structureID string) ([]shared.ContextMenuEntry, error) {
	record, err := b.element(ctx, shared.ClientID(structureID))
	if err != nil {
		return nil, err
	}
	editable := record.NoEditReason == ""
	return []shared.ContextMenuEntry{
		{ID: "edit", Label: "Edit", Active: editable, Visible: true},
		{ID: "properties", Label: "Properties", Active: editable, Visible: true},
		{ID: "favorite", Label: "Add to favorites", Active: true, Visible: true},
		{ID: "publish", Label: "Publish", Active: editable && !record.PublishLocked, Visible: !record.GroupContainer},
		{ID: "remove", Label: "Remove", Active: editable, Visible: true},
	}, nil
}

// SetToolbarVisible stores the toolbar visibility preference.
func (b *Backend) SetToolbarVisible(_ context.Context, visible bool) error {
	b.toolbarVisible.Store(visible)
	return nil
}
