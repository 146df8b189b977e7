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

// ImageTarget is a content node flagged as an image drop zone.
type ImageTarget struct {
	node  *html.Node
	Zone  shared.ImageDropZone
	Panel *panels.ElementPanel
}

func (t *ImageTarget) Node() *html.Node { return t.node }

type imageKey struct{}

// ImageController drops images from a result list into image drop zones.
type ImageController struct {
	page   *containerpage.Controller
	logger interfaces.Logger
}

// NewImageController binds the controller to the page model.
func NewImageController(page *containerpage.Controller) *ImageController {
	return &ImageController{page: page, logger: logging.DNDLogger(page.LoggerProvider())}
}

func (c *ImageController) OnDragStart(g *Gesture) bool {
	item, ok := g.Draggable.(*ListItem)
	if !ok || item.Kind != ItemImage || c.page.Root() == nil {
		return false
	}
	logger := logging.WithGesture(c.logger, g.ID)

	var targets []*ImageTarget
	for _, node := range dom.Query(c.page.Root(), "["+panels.AttrImageDnd+"]") {
		zone, err := shared.ParseImageDropZone(dom.Attr(node, panels.AttrImageDnd))
		if err != nil {
			logger.Debug("dnd.image.zone_invalid", "value", dom.Attr(node, panels.AttrImageDnd))
			continue
		}
		panel := c.page.FindElementPanel(node)
		if panel == nil || !panel.Editable() {
			continue
		}
		target := &ImageTarget{node: node, Zone: zone, Panel: panel}
		targets = append(targets, target)
		g.AddTarget(target)
	}
	if len(targets) == 0 {
		return false
	}
	g.SetValue(imageKey{}, targets)
	return true
}

func (c *ImageController) OnTargetEnter(_ *Gesture, target DropTarget) {
	if t, ok := target.(*ImageTarget); ok {
		dom.AddClass(t.node, panels.ClassHighlighting)
	}
}

func (c *ImageController) OnTargetLeave(_ *Gesture, target DropTarget) {
	if t, ok := target.(*ImageTarget); ok {
		dom.RemoveClass(t.node, panels.ClassHighlighting)
	}
}

func (c *ImageController) OnPositionedPlaceholder(*Gesture, DropTarget, int) {}

func (c *ImageController) OnBeforeDrop(*Gesture) bool { return true }

func (c *ImageController) OnAnimationStart(*Gesture) {}

// OnDrop saves the image into the zone. An element that is still new is
// created first, since only created elements can hold values.
func (c *ImageController) OnDrop(g *Gesture, target DropTarget, _ int) {
	c.clear(g)
	t, ok := target.(*ImageTarget)
	item, isItem := g.Draggable.(*ListItem)
	if !ok || !isItem {
		return
	}
	logger := logging.WithGesture(c.logger, g.ID)

	save := func(panel *panels.ElementPanel, zone shared.ImageDropZone) {
		req := shared.SaveValueRequest{
			ContentID:   zone.ContentID,
			ContentPath: zone.ContentPath,
			Locale:      zone.Locale,
			Value:       item.Value,
		}
		c.page.SaveImageValue(req, func(err error) {
			if err != nil {
				return
			}
			logger.Info("dnd.image.saved", "content_id", zone.ContentID, "path", zone.ContentPath)
			c.page.ReloadElements([]shared.ClientID{panel.ClientID()})
		})
	}

	if !t.Panel.IsNew() {
		save(t.Panel, t.Zone)
		return
	}
	c.page.CreateNewElement(t.Panel, func(panel *panels.ElementPanel, err error) {
		if err != nil {
			logger.Error("dnd.image.create_failed", "error", err)
			return
		}
		zone := t.Zone
		zone.ContentID = panel.ClientID().ServerID()
		save(panel, zone)
	})
}

func (c *ImageController) OnDragCancel(g *Gesture) {
	c.clear(g)
}

func (c *ImageController) clear(g *Gesture) {
	targets, _ := g.Value(imageKey{}).([]*ImageTarget)
	for _, t := range targets {
		dom.RemoveClass(t.node, panels.ClassHighlighting)
	}
}
