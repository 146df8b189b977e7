package containerpage

import (
	"context"
	"slices"

	"github.com/goliatone/go-cms-editor/internal/shared"
)

// Favorites returns the favorite ids in list order.
func (c *Controller) Favorites() []shared.ClientID { return slices.Clone(c.favorites) }

// Recent returns the recent ids, most recent first.
func (c *Controller) Recent() []shared.ClientID { return slices.Clone(c.recent) }

// LoadFavorites fetches the favorite list rendered for the page containers.
func (c *Controller) LoadFavorites(callback func([]*shared.ElementData)) {
	c.loadList(false, callback)
}

// LoadRecent fetches the recent list rendered for the page containers.
func (c *Controller) LoadRecent(callback func([]*shared.ElementData)) {
	c.loadList(true, callback)
}

func (c *Controller) loadList(recent bool, callback func([]*shared.ElementData)) {
	req := shared.ListRequest{PageID: c.pageID(), Containers: c.ContainerDefinitions(), Locale: c.locale()}
	if c.page != nil {
		req.DetailID = c.page.DetailID
	}
	call(c, func(ctx context.Context) ([]*shared.ElementData, error) {
		if recent {
			return c.service.GetRecentList(ctx, req)
		}
		return c.service.GetFavoriteList(ctx, req)
	}, func(list []*shared.ElementData, err error) {
		if err != nil {
			c.logger.Error("controller.list.fetch_failed", "error", err, "recent", recent)
			return
		}
		merged := make(map[shared.ClientID]*shared.ElementData, len(list))
		ids := make([]shared.ClientID, 0, len(list))
		for _, data := range list {
			if data == nil {
				continue
			}
			merged[data.ClientID] = data
			ids = append(ids, data.ClientID)
		}
		c.AddElements(merged)
		if recent {
			c.recent = ids
		} else {
			c.favorites = ids
		}
		if callback != nil {
			callback(list)
		}
	})
}

// SaveFavoriteList replaces the favorite list.
func (c *Controller) SaveFavoriteList(ids []shared.ClientID, callback func(error)) {
	c.favorites = slices.Clone(ids)
	saved := slices.Clone(ids)
	call(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.service.SaveFavoriteList(ctx, saved)
	}, func(_ struct{}, err error) {
		if err != nil {
			c.logger.Error("controller.favorites.save_failed", "error", err)
		}
		if callback != nil {
			callback(err)
		}
	})
}

// AddToFavoriteList puts id at the top of the favorites.
func (c *Controller) AddToFavoriteList(id shared.ClientID, callback func(error)) {
	c.favorites = prependUnique(c.favorites, id, 0)
	call(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.service.AddToFavoriteList(ctx, id)
	}, func(_ struct{}, err error) {
		if err != nil {
			c.logger.Error("controller.favorites.add_failed", "error", err, "client_id", id.String())
		}
		if callback != nil {
			callback(err)
		}
	})
}

// AddToRecentList records id as most recently used. The list holds each id
// once and at most the configured number of entries.
func (c *Controller) AddToRecentList(id shared.ClientID) {
	if c.recentDisabled || id == "" || !id.IsStructureID() {
		return
	}
	c.recent = prependUnique(c.recent, id, c.maxRecent)
	call(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.service.AddToRecentList(ctx, id)
	}, func(_ struct{}, err error) {
		if err != nil {
			c.logger.Error("controller.recent.add_failed", "error", err, "client_id", id.String())
		}
	})
}

// SetToolbarVisible persists the toolbar visibility for the session.
func (c *Controller) SetToolbarVisible(visible bool) {
	if c.page != nil {
		c.page.ToolbarVisible = visible
	}
	call(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.core.SetToolbarVisible(ctx, visible)
	}, func(_ struct{}, err error) {
		if err != nil {
			c.logger.Error("controller.toolbar.visibility_failed", "error", err)
		}
	})
}

// ContextMenuEntries fetches the context menu of a resource.
func (c *Controller) ContextMenuEntries(structureID string, callback func([]shared.ContextMenuEntry)) {
	call(c, func(ctx context.Context) ([]shared.ContextMenuEntry, error) {
		return c.core.ContextMenuEntries(ctx, structureID)
	}, func(entries []shared.ContextMenuEntry, err error) {
		if err != nil {
			c.logger.Error("controller.context_menu.fetch_failed", "error", err, "structure_id", structureID)
			return
		}
		if callback != nil {
			callback(entries)
		}
	})
}

func prependUnique(list []shared.ClientID, id shared.ClientID, limit int) []shared.ClientID {
	out := make([]shared.ClientID, 0, len(list)+1)
	out = append(out, id)
	for _, existing := range list {
		if existing != id {
			out = append(out, existing)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
