package containerpage

import (
	"context"

	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/panels"
	"github.com/goliatone/go-cms-editor/internal/shared"
)

type groupEdit struct {
	panel    *panels.ElementPanel
	snapshot []*panels.ElementPanel
}

// StartEditingGroupContainer enters group edit mode for panel. Only one group
// container can be edited at a time.
func (c *Controller) StartEditingGroupContainer(panel *panels.ElementPanel) error {
	if c.groupEditDisabled {
		return ErrGroupEditDisabled
	}
	if panel == nil || !panel.IsGroupContainer() {
		return ErrNotGroupContainer
	}
	if c.editingGroup != nil {
		if c.editingGroup.panel == panel {
			return nil
		}
		return ErrGroupEditActive
	}
	c.editingGroup = &groupEdit{panel: panel, snapshot: panel.Group().Elements()}
	dom.AddClass(panel.Node(), panels.ClassEditing)
	logging.WithElementContext(c.logger, panel.ClientID().String(), "").Debug("controller.group.edit_started")
	return nil
}

// EditingGroupContainer returns the group container in edit mode, or nil.
func (c *Controller) EditingGroupContainer() *panels.ElementPanel {
	if c.editingGroup == nil {
		return nil
	}
	return c.editingGroup.panel
}

// SaveGroupContainer stores the sub-elements of the group being edited and
// refreshes its panel from the returned data. The container page itself is
// not marked changed.
func (c *Controller) SaveGroupContainer(callback func(error)) {
	done := func(err error) {
		if callback != nil {
			callback(err)
		}
	}
	if c.editingGroup == nil {
		c.loop.Defer(func() { done(ErrNoGroupEdit) })
		return
	}
	panel := c.editingGroup.panel
	group := panel.Group()
	snapshot := group.Snapshot()
	data := c.CachedElement(panel.ClientID())

	req := shared.SaveGroupContainerRequest{
		PageID: c.pageID(),
		GroupContainer: shared.GroupContainer{
			ClientID: panel.ClientID(),
			Elements: snapshot.Elements,
		},
		Containers: c.ContainerDefinitions(),
		Locale:     c.locale(),
	}
	if data != nil {
		req.GroupContainer.Title = data.Title
	}
	logger := logging.WithElementContext(c.logger, panel.ClientID().String(), "")

	call(c, func(ctx context.Context) (map[shared.ClientID]*shared.ElementData, error) {
		return c.service.SaveGroupContainer(ctx, req)
	}, func(result map[shared.ClientID]*shared.ElementData, err error) {
		if err != nil {
			logger.Error("controller.group.save_failed", "error", err)
			done(err)
			return
		}
		c.AddElements(result)
		c.endGroupEdit()
		if fresh, ok := result[panel.ClientID()]; ok {
			c.replacePanel(panel, fresh)
		}
		logger.Info("controller.group.saved", "elements", len(req.GroupContainer.Elements))
		done(nil)
	})
}

// CancelGroupContainer leaves group edit mode and restores the sub-elements
// as they were when editing started.
func (c *Controller) CancelGroupContainer() error {
	if c.editingGroup == nil {
		return ErrNoGroupEdit
	}
	c.cancelGroupEdit()
	return nil
}

func (c *Controller) cancelGroupEdit() {
	if c.editingGroup == nil {
		return
	}
	group := c.editingGroup.panel.Group()
	group.Clear()
	for i, p := range c.editingGroup.snapshot {
		group.Insert(p, i)
		if p.OptionBar() == nil {
			p.AddOptionBar()
		}
	}
	c.endGroupEdit()
}

func (c *Controller) endGroupEdit() {
	if c.editingGroup == nil {
		return
	}
	dom.RemoveClass(c.editingGroup.panel.Node(), panels.ClassEditing)
	c.editingGroup = nil
}
