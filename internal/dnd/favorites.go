package dnd

import (
	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
	"golang.org/x/net/html"
)

// FavoritesSaver persists a reordered favorite list.
type FavoritesSaver interface {
	SaveFavoriteList(ids []shared.ClientID, callback func(error))
}

type favoritesKey struct{}

type favoritesDrag struct {
	item        *ListItem
	originIndex int
	placeholder *html.Node
}

// FavoritesController reorders a sortable list vertically.
type FavoritesController struct {
	list   *List
	saver  FavoritesSaver
	logger interfaces.Logger
}

// NewFavoritesController handles drags within list and saves the new order.
func NewFavoritesController(list *List, saver FavoritesSaver, logger interfaces.Logger) *FavoritesController {
	return &FavoritesController{list: list, saver: saver, logger: logging.OrNoOp(logger)}
}

func (c *FavoritesController) drag(g *Gesture) *favoritesDrag {
	d, _ := g.Value(favoritesKey{}).(*favoritesDrag)
	return d
}

func (c *FavoritesController) OnDragStart(g *Gesture) bool {
	item, ok := g.Draggable.(*ListItem)
	if !ok || g.Origin != DropTarget(c.list) || !c.list.Sortable() {
		return false
	}
	index := c.list.IndexOf(item)
	if index < 0 {
		return false
	}
	d := &favoritesDrag{
		item:        item,
		originIndex: index,
		placeholder: dom.NewElement("li", ClassPlaceholder),
	}
	g.SetValue(favoritesKey{}, d)
	g.VerticalOnly = true
	g.AddTarget(c.list)

	c.list.Remove(item)
	c.list.placeAt(d.placeholder, index)
	return true
}

func (c *FavoritesController) OnTargetEnter(*Gesture, DropTarget) {}

func (c *FavoritesController) OnTargetLeave(g *Gesture, _ DropTarget) {
	if d := c.drag(g); d != nil {
		dom.Detach(d.placeholder)
	}
}

func (c *FavoritesController) OnPositionedPlaceholder(g *Gesture, _ DropTarget, index int) {
	if d := c.drag(g); d != nil {
		c.list.placeAt(d.placeholder, index)
	}
}

func (c *FavoritesController) OnBeforeDrop(*Gesture) bool { return true }

func (c *FavoritesController) OnAnimationStart(*Gesture) {}

func (c *FavoritesController) OnDrop(g *Gesture, _ DropTarget, index int) {
	d := c.drag(g)
	if d == nil {
		return
	}
	dom.Detach(d.placeholder)
	c.list.Insert(d.item, index)
	ids := c.list.IDs()
	logging.WithGesture(c.logger, g.ID).Debug("dnd.favorites.reordered", "from", d.originIndex, "to", index)
	if c.saver != nil {
		c.saver.SaveFavoriteList(ids, nil)
	}
}

func (c *FavoritesController) OnDragCancel(g *Gesture) {
	d := c.drag(g)
	if d == nil {
		return
	}
	dom.Detach(d.placeholder)
	c.list.Insert(d.item, d.originIndex)
}
