package dnd

import (
	"github.com/goliatone/go-cms-editor/internal/containerpage"
	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/panels"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
	"golang.org/x/net/html"
)

type containerpageKey struct{}

// dragInfo holds the helper and placeholder built for one target.
type dragInfo struct {
	helper      *panels.ElementPanel
	placeholder *html.Node
}

// containerDrag is the per-gesture state of the container-page controller.
type containerDrag struct {
	id        shared.ClientID
	data      *shared.ElementData
	panel     *panels.ElementPanel
	origin    *panels.ContainerPanel
	originIdx int
	copyModel bool

	overlay     *html.Node
	hidden      dom.SavedStyle
	infos       map[*panels.ContainerPanel]*dragInfo
	minHeights  map[*panels.ContainerPanel]dom.SavedStyle
	heightOrder []*panels.ContainerPanel
	touched     []*panels.ContainerPanel
	logger      interfaces.Logger
}

// ContainerpageOption configures a ContainerpageController.
type ContainerpageOption func(*ContainerpageController)

// WithMeasurer supplies container heights used for min-height preservation.
func WithMeasurer(measurer dom.Measurer) ContainerpageOption {
	return func(c *ContainerpageController) {
		if measurer != nil {
			c.measurer = measurer
		}
	}
}

// WithZIndexManager replaces the default z-index manager.
func WithZIndexManager(manager *ZIndexManager) ContainerpageOption {
	return func(c *ContainerpageController) {
		if manager != nil {
			c.zindex = manager
		}
	}
}

// ContainerpageController moves elements between the containers of the page.
type ContainerpageController struct {
	page     *containerpage.Controller
	measurer dom.Measurer
	zindex   *ZIndexManager
	logger   interfaces.Logger
}

// NewContainerpageController binds the controller to the page model.
func NewContainerpageController(page *containerpage.Controller, opts ...ContainerpageOption) *ContainerpageController {
	c := &ContainerpageController{
		page:     page,
		measurer: dom.MeasureFunc(func(*html.Node) int { return 0 }),
		zindex:   NewZIndexManager(DefaultZIndexBase),
		logger:   logging.DNDLogger(page.LoggerProvider()),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// ZIndexManager returns the manager used while dragging.
func (c *ContainerpageController) ZIndexManager() *ZIndexManager {
	return c.zindex
}

func (c *ContainerpageController) drag(g *Gesture) *containerDrag {
	d, _ := g.Value(containerpageKey{}).(*containerDrag)
	return d
}

func (c *ContainerpageController) OnDragStart(g *Gesture) bool {
	d := &containerDrag{
		originIdx:  -1,
		infos:      map[*panels.ContainerPanel]*dragInfo{},
		minHeights: map[*panels.ContainerPanel]dom.SavedStyle{},
		logger:     logging.WithGesture(c.logger, g.ID),
	}

	switch item := g.Draggable.(type) {
	case *panels.ElementPanel:
		d.panel = item
		d.id = item.ClientID()
		d.origin = item.Parent()
		d.originIdx = item.Index()
	case *ListItem:
		if item.Kind != ItemElement {
			return false
		}
		if list, ok := g.Origin.(*List); ok && list.Sortable() {
			return false
		}
		d.id = item.ID
		d.copyModel = item.CopyModel
	default:
		return false
	}

	groupInternal := d.origin != nil && c.page.IsEditingGroup(d.origin)
	if d.origin != nil && d.origin.IsGroup() && !groupInternal {
		d.logger.Debug("dnd.containerpage.rejected", "client_id", d.id.String(), "reason", "group not in edit mode")
		return false
	}
	if !c.page.IsContainerpageEditable() && !groupInternal {
		d.logger.Debug("dnd.containerpage.rejected", "client_id", d.id.String())
		return false
	}
	if c.page.EditingGroupContainer() != nil && !groupInternal && d.panel != nil {
		return false
	}
	g.SetValue(containerpageKey{}, d)

	d.overlay = dom.NewElement("div", panels.ClassOverlay)
	if root := c.page.Root(); root != nil {
		dom.Body(root).AppendChild(d.overlay)
	}
	c.syncZIndex()
	for _, container := range c.buttonContainers() {
		container.SetButtonsEnabled(false)
	}
	if d.origin != nil {
		c.preserveHeight(d, d.origin)
		d.hidden = dom.SaveStyle(d.panel.Node(), "display")
		dom.SetStyle(d.panel.Node(), "display", "none")
		d.touch(d.origin)
	}

	resolved := func(data *shared.ElementData) {
		if !g.Active() || data == nil {
			return
		}
		d.data = data
		c.registerTargets(g, d)
	}
	switch {
	case !d.id.IsStructureID():
		c.page.GetNewElement(d.id.String(), resolved)
	case d.copyModel:
		c.page.CopyElement(d.id, func(copied shared.ClientID) {
			if !g.Active() {
				return
			}
			d.id = copied
			c.page.GetElement(copied, resolved)
		})
	default:
		c.page.GetElement(d.id, resolved)
	}
	return true
}

// registerTargets marks every container that can show the element.
func (c *ContainerpageController) registerTargets(g *Gesture, d *containerDrag) {
	if editing := c.page.EditingGroupContainer(); editing != nil {
		group := editing.Group()
		if !d.data.GroupContainer && hasContent(d.data, group) {
			g.AddTarget(group)
		}
		return
	}
	for _, container := range c.page.Containers() {
		same := container == d.origin
		if !hasContent(d.data, container) {
			continue
		}
		def := container.Definition()
		if def.DetailView && !same {
			continue
		}
		if !same && !def.Accepts(container.Len()) {
			continue
		}
		g.AddTarget(container)
	}
	d.logger.Debug("dnd.containerpage.targets", "count", len(g.targets))
}

func hasContent(data *shared.ElementData, container *panels.ContainerPanel) bool {
	_, ok := data.ContentFor(container.ContentKey())
	return ok
}

// prepareHelper builds the helper and placeholder for container on first use.
func (c *ContainerpageController) prepareHelper(d *containerDrag, container *panels.ContainerPanel) *dragInfo {
	if info, ok := d.infos[container]; ok {
		return info
	}
	if d.data == nil {
		return nil
	}
	helper, err := c.page.Adapter().CreateElement(d.data, container)
	if err != nil {
		d.logger.Debug("dnd.containerpage.helper_failed", "container", container.Name(), "error", err)
		d.infos[container] = nil
		return nil
	}
	helper.RemoveOptionBar()
	dom.AddClass(helper.Node(), panels.ClassDragHelper)
	placeholder := dom.Clone(helper.Node())
	dom.RemoveClass(placeholder, panels.ClassDragHelper)
	dom.AddClass(placeholder, panels.ClassPlaceholder)
	info := &dragInfo{helper: helper, placeholder: placeholder}
	d.infos[container] = info
	return info
}

func (c *ContainerpageController) OnTargetEnter(g *Gesture, target DropTarget) {
	d := c.drag(g)
	container, ok := target.(*panels.ContainerPanel)
	if d == nil || !ok {
		return
	}
	c.prepareHelper(d, container)
	c.zindex.Promote(container.Name())
	container.Highlight(true)
	d.touch(container)
}

func (c *ContainerpageController) OnTargetLeave(g *Gesture, target DropTarget) {
	d := c.drag(g)
	container, ok := target.(*panels.ContainerPanel)
	if d == nil || !ok {
		return
	}
	c.preserveHeight(d, container)
	if info := d.infos[container]; info != nil {
		dom.Detach(info.placeholder)
	}
	container.Highlight(false)
	c.zindex.Demote(container.Name())
}

func (c *ContainerpageController) OnPositionedPlaceholder(g *Gesture, target DropTarget, index int) {
	d := c.drag(g)
	container, ok := target.(*panels.ContainerPanel)
	if d == nil || !ok {
		return
	}
	info := c.prepareHelper(d, container)
	if info == nil {
		return
	}
	var ref *html.Node
	if next := container.ElementAt(index); next != nil {
		ref = next.Node()
	}
	dom.InsertBefore(container.Node(), info.placeholder, ref)
}

func (c *ContainerpageController) OnBeforeDrop(g *Gesture) bool {
	d := c.drag(g)
	if d == nil || d.data == nil {
		return false
	}
	container, ok := g.Target().(*panels.ContainerPanel)
	return ok && c.prepareHelper(d, container) != nil
}

func (c *ContainerpageController) OnAnimationStart(g *Gesture) {
	if d := c.drag(g); d != nil {
		d.logger.Trace("dnd.containerpage.animation")
	}
}

func (c *ContainerpageController) OnDrop(g *Gesture, target DropTarget, index int) {
	d := c.drag(g)
	container, ok := target.(*panels.ContainerPanel)
	if d == nil || !ok {
		return
	}
	defer c.stop(d)

	for _, info := range d.infos {
		if info != nil {
			dom.Detach(info.placeholder)
		}
	}

	groupEdit := c.page.IsEditingGroup(container)
	if container != d.origin {
		info := d.infos[container]
		panel := info.helper
		dom.RemoveClass(panel.Node(), panels.ClassDragHelper)
		if d.panel != nil {
			d.origin.Remove(d.panel)
		}
		container.Insert(panel, index)
		panel.AddOptionBar()
		d.touch(container)
		c.page.AddToRecentList(panel.ClientID())
		if !groupEdit {
			c.page.SetPageChanged(true, false)
		}
		d.logger.Info("dnd.containerpage.dropped", "client_id", panel.ClientID().String(), "container", container.Name(), "index", index)
		return
	}

	c.unhide(d)
	if positionChanged(true, d.originIdx, index) {
		if index > d.originIdx {
			index--
		}
		container.Insert(d.panel, index)
		if !c.page.IsEditingGroup(container) {
			c.page.SetPageChanged(true, false)
		}
		d.logger.Info("dnd.containerpage.moved", "client_id", d.id.String(), "container", container.Name(), "index", index)
		return
	}

	d.panel.RemoveOptionBar()
	d.panel.AddOptionBar()
}

func (c *ContainerpageController) OnDragCancel(g *Gesture) {
	d := c.drag(g)
	if d == nil {
		return
	}
	for _, info := range d.infos {
		if info != nil {
			dom.Detach(info.placeholder)
		}
	}
	c.unhide(d)
	c.stop(d)
	d.logger.Debug("dnd.containerpage.cancelled")
}

// stop is shared by drop and cancel. Buttons and highlighting are refreshed
// on the next loop turn, once the document has settled.
func (c *ContainerpageController) stop(d *containerDrag) {
	dom.Detach(d.overlay)
	for _, container := range d.heightOrder {
		dom.RestoreStyle(container.Node(), d.minHeights[container])
	}
	c.zindex.Clear()
	touched := d.touched
	c.page.Loop().Defer(func() {
		for _, container := range c.buttonContainers() {
			container.SetButtonsEnabled(true)
		}
		for _, container := range touched {
			container.Highlight(false)
		}
	})
}

func (c *ContainerpageController) unhide(d *containerDrag) {
	if d.panel != nil {
		dom.RestoreStyle(d.panel.Node(), d.hidden)
	}
}

// preserveHeight pins the current height of container so it does not
// collapse while the placeholder is elsewhere. The first saved value wins.
func (c *ContainerpageController) preserveHeight(d *containerDrag, container *panels.ContainerPanel) {
	if _, saved := d.minHeights[container]; !saved {
		d.minHeights[container] = dom.SaveStyle(container.Node(), "min-height")
		d.heightOrder = append(d.heightOrder, container)
	}
	if height := c.measurer.OffsetHeight(container.Node()); height > 0 {
		dom.SetStyle(container.Node(), "min-height", dom.Px(height))
	}
}

func (c *ContainerpageController) syncZIndex() {
	page := c.page.Page()
	if page == nil {
		return
	}
	for _, def := range page.Containers {
		if container := c.page.Container(def.Name); container != nil {
			c.zindex.AddContainer(def.Name, container.Node(), def.ParentName)
		}
	}
	if editing := c.page.EditingGroupContainer(); editing != nil {
		group := editing.Group()
		parent := ""
		if owner := editing.Parent(); owner != nil {
			parent = owner.Name()
		}
		c.zindex.AddContainer(group.Name(), group.Node(), parent)
	}
}

func (c *ContainerpageController) buttonContainers() []*panels.ContainerPanel {
	containers := c.page.Containers()
	if editing := c.page.EditingGroupContainer(); editing != nil {
		containers = append(containers, editing.Group())
	}
	return containers
}

func (d *containerDrag) touch(container *panels.ContainerPanel) {
	for _, existing := range d.touched {
		if existing == container {
			return
		}
	}
	d.touched = append(d.touched, container)
}

// positionChanged reports whether a drop moves the element. Dropping into the
// gap the element came from, just before or just after itself, is no move.
func positionChanged(sameTarget bool, originalIndex, index int) bool {
	if !sameTarget {
		return true
	}
	return index != originalIndex && index != originalIndex+1
}
