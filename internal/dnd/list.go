package dnd

import (
	"slices"

	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"golang.org/x/net/html"
)

// ItemKind tells which controller handles a list item.
type ItemKind int

const (
	ItemElement ItemKind = iota
	ItemImage
)

// List item classes.
const (
	ClassList        = "cms_list"
	ClassListItem    = "cms_list_item"
	ClassPlaceholder = "cms_list_placeholder"
)

// ListItem is an entry of a gallery result, favorites, recent or new-element
// list. Element items carry a client id or, for the new-element menu, a
// resource type name.
type ListItem struct {
	node *html.Node

	ID   shared.ClientID
	Kind ItemKind
	// CopyModel marks a model resource result that is copied on the server
	// before it is placed.
	CopyModel bool
	// Value is what an image drop writes into the content.
	Value string
}

// NewListItem returns an item with its own node.
func NewListItem(id shared.ClientID, kind ItemKind) *ListItem {
	node := dom.NewElement("li", ClassListItem)
	dom.SetAttr(node, "data-id", id.String())
	return &ListItem{node: node, ID: id, Kind: kind}
}

func (i *ListItem) Node() *html.Node { return i.node }

// List is an ordered list of items rendered as a ul node.
type List struct {
	node     *html.Node
	items    []*ListItem
	sortable bool
}

// NewList returns a list holding items. Sortable lists can be reordered by
// dragging.
func NewList(sortable bool, items ...*ListItem) *List {
	l := &List{node: dom.NewElement("ul", ClassList), sortable: sortable}
	for _, item := range items {
		l.Insert(item, len(l.items))
	}
	return l
}

func (l *List) Node() *html.Node { return l.node }

// Sortable reports whether items can be reordered.
func (l *List) Sortable() bool { return l.sortable }

// Items returns the items in order.
func (l *List) Items() []*ListItem { return slices.Clone(l.items) }

// Len returns the item count.
func (l *List) Len() int { return len(l.items) }

// IndexOf returns the position of item, or -1.
func (l *List) IndexOf(item *ListItem) int { return slices.Index(l.items, item) }

// Insert puts item at index.
func (l *List) Insert(item *ListItem, index int) {
	l.Remove(item)
	if index < 0 || index > len(l.items) {
		index = len(l.items)
	}
	var ref *html.Node
	if index < len(l.items) {
		ref = l.items[index].node
	}
	dom.InsertBefore(l.node, item.node, ref)
	l.items = slices.Insert(l.items, index, item)
}

// Remove takes item out of the list.
func (l *List) Remove(item *ListItem) bool {
	index := l.IndexOf(item)
	if index < 0 {
		return false
	}
	l.items = slices.Delete(l.items, index, index+1)
	dom.Detach(item.node)
	return true
}

// IDs returns the item ids in order.
func (l *List) IDs() []shared.ClientID {
	ids := make([]shared.ClientID, 0, len(l.items))
	for _, item := range l.items {
		ids = append(ids, item.ID)
	}
	return ids
}

// placeAt positions n before the item at index, or at the end.
func (l *List) placeAt(n *html.Node, index int) {
	var ref *html.Node
	if index >= 0 && index < len(l.items) {
		ref = l.items[index].node
	}
	dom.InsertBefore(l.node, n, ref)
}
