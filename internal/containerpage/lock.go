package containerpage

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
)

// Notification codes raised by lock and save operations.
const (
	CodeLockedByOther   = "editor.lock.locked_by_other"
	CodeChangedOnServer = "editor.lock.changed_since_opened"
	CodeLockError       = "editor.lock.error"
	CodeSaveFailed      = "editor.save.failed"
)

// LockContainerpage obtains the page lock once per session. Success and
// failure are both sticky: later calls report the recorded result, and calls
// made while a lock request is in flight wait for it.
func (c *Controller) LockContainerpage(callback func(locked bool)) {
	switch c.lockStatus {
	case shared.LockStatusLocked, shared.LockStatusFailed:
		locked := c.lockStatus == shared.LockStatusLocked
		c.loop.Defer(func() {
			if callback != nil {
				callback(locked)
			}
		})
		return
	}

	if callback != nil {
		c.lockWaiters = append(c.lockWaiters, callback)
	}
	if c.locking {
		return
	}
	c.locking = true

	structureID := c.pageID()
	var lastModified int64
	if c.page != nil {
		lastModified = c.page.LastModified
	}
	call(c, func(ctx context.Context) (shared.LockInfo, error) {
		return c.core.LockAndCheckModification(ctx, structureID, lastModified)
	}, func(info shared.LockInfo, err error) {
		c.locking = false
		if err != nil {
			c.logger.Error("controller.lock.failed", "error", err)
			info = shared.LockInfo{State: shared.LockError, Message: err.Error()}
		}
		c.recordLock(info)

		waiters := c.lockWaiters
		c.lockWaiters = nil
		locked := c.lockStatus == shared.LockStatusLocked
		for _, waiter := range waiters {
			waiter(locked)
		}
	})
}

func (c *Controller) recordLock(info shared.LockInfo) {
	if info.Success() {
		c.lockStatus = shared.LockStatusLocked
		c.logger.Debug("controller.lock.acquired")
		return
	}

	c.lockStatus = shared.LockStatusFailed
	c.logger.Warn("controller.lock.denied", "state", info.State.String(), "owner", info.Owner)
	switch info.State {
	case shared.LockLockedByOther:
		c.notify(interfaces.NotificationError, CodeLockedByOther,
			fmt.Sprintf("The page is locked by %s and cannot be edited.", info.Owner))
	case shared.LockChangedSinceOpened:
		c.notify(interfaces.NotificationError, CodeChangedOnServer,
			"The page was changed by another user since it was opened. Reload the page to edit it.")
	default:
		message := "The page could not be locked for editing."
		if info.Message != "" {
			message = message + " " + info.Message
		}
		c.notify(interfaces.NotificationError, CodeLockError, message)
	}
}

// SetPageChanged records whether there are unsaved edits. Marking the page
// changed locks it on first use; save and reset are enabled only when the
// lock is held. Clearing the flag disables them and optionally releases the
// lock.
func (c *Controller) SetPageChanged(changed, unlockIfFalse bool) {
	if changed {
		c.pageChanged = true
		if c.saveEnabled {
			return
		}
		c.LockContainerpage(func(locked bool) {
			if locked && c.pageChanged {
				c.setSaveEnabled(true)
			}
		})
		return
	}

	c.pageChanged = false
	c.setSaveEnabled(false)
	if unlockIfFalse && c.lockStatus == shared.LockStatusLocked {
		c.unlock()
	}
}

func (c *Controller) setSaveEnabled(enabled bool) {
	c.saveEnabled = enabled
	c.toolbar.SetSaveEnabled(enabled)
}

func (c *Controller) unlock() {
	structureID := c.pageID()
	c.lockStatus = shared.LockStatusUnknown
	call(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.core.Unlock(ctx, structureID)
	}, func(_ struct{}, err error) {
		if err != nil {
			c.logger.Error("controller.unlock.failed", "error", err)
		}
	})
}

// SaveContainerpage stores the container layout. Success records the new
// modification stamp, clears the changed flag and releases the lock, so the
// next edit can lock the page again.
func (c *Controller) SaveContainerpage(callback func(error)) {
	done := func(err error) {
		if callback != nil {
			callback(err)
		}
	}
	if c.page == nil {
		c.loop.Defer(func() { done(ErrNotInitialized) })
		return
	}
	if c.lockStatus != shared.LockStatusLocked {
		c.loop.Defer(func() { done(ErrNotLocked) })
		return
	}

	req := shared.SavePageRequest{PageID: c.page.PageID, Locale: c.page.Locale}
	for _, container := range c.Containers() {
		req.Containers = append(req.Containers, container.Snapshot())
	}
	call(c, func(ctx context.Context) (int64, error) {
		return c.service.SaveContainerpage(ctx, req)
	}, func(stamp int64, err error) {
		if err != nil {
			c.logger.Error("controller.save.failed", "error", err)
			c.notify(interfaces.NotificationError, CodeSaveFailed, "The page could not be saved.")
			done(err)
			return
		}
		if stamp > c.page.LastModified {
			c.page.LastModified = stamp
		}
		c.logger.Info("controller.save.completed", "containers", len(req.Containers), "last_modified", stamp)
		c.SetPageChanged(false, true)
		done(nil)
	})
}

// ResetChanges restores the page markup as it was first adapted, rebuilds
// the panels, and discards the changed state.
func (c *Controller) ResetChanges() {
	if c.page == nil || c.root == nil || c.original == nil {
		return
	}
	c.cancelGroupEdit()
	for child := c.root.FirstChild; child != nil; child = c.root.FirstChild {
		c.root.RemoveChild(child)
	}
	restored := dom.Clone(c.original)
	for child := restored.FirstChild; child != nil; child = restored.FirstChild {
		restored.RemoveChild(child)
		c.root.AppendChild(child)
	}
	c.adapt()
	c.SetPageChanged(false, true)
}
