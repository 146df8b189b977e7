package containerpage

import (
	"context"

	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/panels"
	"github.com/goliatone/go-cms-editor/internal/shared"
)

// CreateNewElement creates the resource behind a new element panel. When the
// server offers model resources the first one is used. Once created, the
// placeholder id is replaced by the server id, the panel content is refreshed
// and the page is marked changed.
func (c *Controller) CreateNewElement(panel *panels.ElementPanel, callback func(*panels.ElementPanel, error)) {
	done := func(p *panels.ElementPanel, err error) {
		if callback != nil {
			callback(p, err)
		}
	}
	if panel == nil || !panel.IsNew() {
		c.loop.Defer(func() { done(panel, ErrElementNotNew) })
		return
	}

	req := shared.CreateElementRequest{
		PageID:       c.pageID(),
		ClientID:     panel.ClientID(),
		ResourceType: panel.NewType(),
		Locale:       c.locale(),
	}
	logger := logging.WithElementContext(c.logger, req.ClientID.String(), "")

	finish := func(created *shared.ContainerElement) {
		placeholder := panel.ClientID()
		panel.SetClientID(created.ClientID)
		panel.SetNewType("")
		logger.Info("controller.element.created", "created_id", created.ClientID.String(), "placeholder", placeholder.String())
		c.GetElement(created.ClientID, func(data *shared.ElementData) {
			if panel.Parent() != nil {
				c.replacePanel(panel, data)
			}
		})
		c.SetPageChanged(true, false)
		done(panel, nil)
	}

	create := func(modelResource string) {
		createReq := req
		createReq.ModelResource = modelResource
		call(c, func(ctx context.Context) (*shared.ContainerElement, error) {
			return c.service.CreateNewElement(ctx, createReq)
		}, func(created *shared.ContainerElement, err error) {
			if err == nil && created == nil {
				err = ErrCreateNotAllowed
			}
			if err != nil {
				logger.Error("controller.element.create_failed", "error", err)
				done(panel, err)
				return
			}
			finish(created)
		})
	}

	call(c, func(ctx context.Context) (*shared.CreateElementData, error) {
		return c.service.CheckCreateNewElement(ctx, req)
	}, func(check *shared.CreateElementData, err error) {
		if err != nil {
			logger.Error("controller.element.create_check_failed", "error", err)
			done(panel, err)
			return
		}
		switch {
		case check != nil && check.Created != nil:
			finish(check.Created)
		case check != nil && len(check.ModelResources) > 0:
			create(check.ModelResources[0].StructureID)
		default:
			create("")
		}
	})
}

// RemoveElement takes panel off the page. Removing from the group container
// being edited does not mark the page changed.
func (c *Controller) RemoveElement(panel *panels.ElementPanel) error {
	parent := panel.Parent()
	if parent == nil {
		return ErrElementNotOnPage
	}
	parent.Remove(panel)
	logging.WithElementContext(c.logger, panel.ClientID().String(), parent.Name()).Debug("controller.element.removed")
	if c.isEditingGroup(parent) {
		return nil
	}
	c.SetPageChanged(true, false)
	return nil
}

func (c *Controller) isEditingGroup(container *panels.ContainerPanel) bool {
	return c.editingGroup != nil && container != nil && container.IsGroup() && container.Owner() == c.editingGroup.panel
}

// SaveImageValue writes an image reference into a content value.
func (c *Controller) SaveImageValue(req shared.SaveValueRequest, callback func(error)) {
	call(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.service.SaveImageValue(ctx, req)
	}, func(_ struct{}, err error) {
		if err != nil {
			logging.WithElementContext(c.logger, req.ContentID, "").Error("controller.image.save_failed", "error", err, "path", req.ContentPath)
		}
		if callback != nil {
			callback(err)
		}
	})
}

// IsEditingGroup reports whether container is the inside of the group
// container being edited.
func (c *Controller) IsEditingGroup(container *panels.ContainerPanel) bool {
	return c.isEditingGroup(container)
}
