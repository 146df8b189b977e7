package containerpage

import (
	"context"
	"slices"

	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/panels"
	"github.com/goliatone/go-cms-editor/internal/shared"
)

// CachedElement returns the cached data for id without side effects.
func (c *Controller) CachedElement(id shared.ClientID) *shared.ElementData {
	return c.elements[id]
}

// IsFullyCached reports whether id is cached and, for a group container,
// every sub-item is cached too.
func (c *Controller) IsFullyCached(id shared.ClientID) bool {
	data, ok := c.elements[id]
	if !ok {
		return false
	}
	if !data.GroupContainer {
		return true
	}
	for _, sub := range data.SubItems {
		if _, ok := c.elements[sub]; !ok {
			return false
		}
	}
	return true
}

// AddElements merges data into the cache. Later values replace earlier ones.
// Publish-locked elements are handed to the publish-lock poller.
func (c *Controller) AddElements(data map[shared.ClientID]*shared.ElementData) {
	var locked []shared.ClientID
	for id, element := range data {
		if element == nil {
			continue
		}
		if element.ClientID == "" {
			element.ClientID = id
		}
		c.elements[id] = element
		if element.PublishLocked {
			locked = append(locked, id)
		}
	}
	if len(locked) > 0 {
		slices.Sort(locked)
		c.checker.Add(locked...)
	}
}

// GetElement delivers the data of id, fetching it when not fully cached.
func (c *Controller) GetElement(id shared.ClientID, callback func(*shared.ElementData)) {
	c.GetElements([]shared.ClientID{id}, func(found map[shared.ClientID]*shared.ElementData) {
		if callback == nil {
			return
		}
		if data, ok := found[id]; ok {
			callback(data)
		}
	})
}

// GetElements delivers the data of ids. Cache hits are delivered on a
// deferred task; otherwise one request fetches exactly the ids not fully
// cached at call time. Fetch failures are logged and the callback is not
// invoked.
func (c *Controller) GetElements(ids []shared.ClientID, callback func(map[shared.ClientID]*shared.ElementData)) {
	var missing []shared.ClientID
	for _, id := range ids {
		if !c.IsFullyCached(id) && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		c.loop.Defer(func() {
			if callback != nil {
				callback(c.collect(ids))
			}
		})
		return
	}

	req := c.elementsRequest(missing)
	call(c, func(ctx context.Context) (map[shared.ClientID]*shared.ElementData, error) {
		return c.service.GetElementsData(ctx, req)
	}, func(fetched map[shared.ClientID]*shared.ElementData, err error) {
		if err != nil {
			c.logger.Error("controller.elements.fetch_failed", "error", err, "ids", len(missing))
			return
		}
		c.AddElements(fetched)
		if callback != nil {
			callback(c.collect(ids))
		}
	})
}

// GetNewElement fetches the placeholder data of a resource type. The result
// is cached under the resource type name.
func (c *Controller) GetNewElement(resourceType string, callback func(*shared.ElementData)) {
	if data := c.CachedElement(shared.ClientID(resourceType)); data != nil && data.New {
		c.loop.Defer(func() {
			if callback != nil {
				callback(data)
			}
		})
		return
	}

	req := shared.NewElementRequest{
		PageID:       c.pageID(),
		ResourceType: resourceType,
		Containers:   c.ContainerDefinitions(),
		Locale:       c.locale(),
	}
	call(c, func(ctx context.Context) (*shared.ElementData, error) {
		return c.service.GetNewElementData(ctx, req)
	}, func(data *shared.ElementData, err error) {
		if err != nil {
			c.logger.Error("controller.new_element.fetch_failed", "error", err, "resource_type", resourceType)
			return
		}
		if data == nil {
			return
		}
		c.AddElements(map[shared.ClientID]*shared.ElementData{data.ClientID: data})
		if callback != nil {
			callback(data)
		}
	})
}

// CopyElement asks the server to copy a model resource and delivers the id
// of the copy.
func (c *Controller) CopyElement(id shared.ClientID, callback func(shared.ClientID)) {
	req := shared.CopyElementRequest{PageID: c.pageID(), ClientID: id, Locale: c.locale()}
	call(c, func(ctx context.Context) (shared.ClientID, error) {
		return c.service.CopyElement(ctx, req)
	}, func(copied shared.ClientID, err error) {
		if err != nil {
			logging.WithElementContext(c.logger, id.String(), "").Error("controller.element.copy_failed", "error", err)
			return
		}
		if callback != nil {
			callback(copied)
		}
	})
}

// ReloadElements refetches ids together with every cached entry and on-page
// element sharing a server id with one of them, then swaps the content of
// matching panels in place.
func (c *Controller) ReloadElements(ids []shared.ClientID) {
	c.reloadElements(ids, nil)
}

func (c *Controller) reloadElements(ids []shared.ClientID, done func()) {
	related := func(candidate shared.ClientID) bool {
		for _, id := range ids {
			if candidate.HasSameServerID(id) {
				return true
			}
		}
		return false
	}

	reload := slices.Clone(ids)
	for id := range c.elements {
		if related(id) && !slices.Contains(reload, id) {
			reload = append(reload, id)
		}
	}
	for _, p := range c.ElementPanels() {
		if related(p.ClientID()) && !slices.Contains(reload, p.ClientID()) {
			reload = append(reload, p.ClientID())
		}
	}
	slices.Sort(reload)

	req := c.elementsRequest(reload)
	call(c, func(ctx context.Context) (map[shared.ClientID]*shared.ElementData, error) {
		return c.service.GetElementsData(ctx, req)
	}, func(fetched map[shared.ClientID]*shared.ElementData, err error) {
		if err != nil {
			c.logger.Error("controller.elements.reload_failed", "error", err, "ids", len(reload))
			return
		}
		c.AddElements(fetched)
		for _, p := range c.ElementPanels() {
			data, ok := fetched[p.ClientID()]
			if !ok {
				continue
			}
			c.replacePanel(p, data)
		}
		if done != nil {
			done()
		}
	})
}

func (c *Controller) replacePanel(p *panels.ElementPanel, data *shared.ElementData) bool {
	parent := p.Parent()
	if parent == nil {
		return false
	}
	fresh, err := c.adapter.CreateElement(data, parent)
	if err != nil {
		logging.WithElementContext(c.logger, p.ClientID().String(), parent.Name()).
			Error("controller.element.replace_failed", "error", err)
		return false
	}
	p.Adopt(fresh)
	return true
}

func (c *Controller) collect(ids []shared.ClientID) map[shared.ClientID]*shared.ElementData {
	out := make(map[shared.ClientID]*shared.ElementData, len(ids))
	for _, id := range ids {
		if data, ok := c.elements[id]; ok {
			out[id] = data
		}
	}
	return out
}

func (c *Controller) elementsRequest(ids []shared.ClientID) shared.ElementsRequest {
	req := shared.ElementsRequest{
		ClientIDs:  ids,
		Containers: c.ContainerDefinitions(),
		Locale:     c.locale(),
	}
	if c.page != nil {
		req.PageID = c.page.PageID
		req.DetailID = c.page.DetailID
		req.RequestParams = c.page.RequestParams
	}
	return req
}
