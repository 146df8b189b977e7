package panels

import (
	"slices"

	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"golang.org/x/net/html"
)

// ContainerPanel is a drop zone on the page. Its element list is kept in
// document order.
type ContainerPanel struct {
	node       *html.Node
	def        shared.ContainerDefinition
	contentKey string
	elements   []*ElementPanel
	owner      *ElementPanel
}

// NewContainerPanel wraps the node rendered for def.
func NewContainerPanel(node *html.Node, def shared.ContainerDefinition) *ContainerPanel {
	return &ContainerPanel{node: node, def: def, contentKey: def.Name}
}

func (c *ContainerPanel) Node() *html.Node                       { return c.node }
func (c *ContainerPanel) Name() string                           { return c.def.Name }
func (c *ContainerPanel) Definition() shared.ContainerDefinition { return c.def }

// ContentKey names the container whose rendered content the elements use.
// Group containers show sub-elements the way their parent container does.
func (c *ContainerPanel) ContentKey() string {
	return c.contentKey
}

// IsGroup reports whether the panel is the inside of a group container.
func (c *ContainerPanel) IsGroup() bool {
	return c.owner != nil
}

// Owner returns the group-container element owning this panel.
func (c *ContainerPanel) Owner() *ElementPanel {
	return c.owner
}

// Elements returns a copy of the element list.
func (c *ContainerPanel) Elements() []*ElementPanel {
	return slices.Clone(c.elements)
}

// Len returns the number of elements.
func (c *ContainerPanel) Len() int {
	return len(c.elements)
}

// IndexOf returns the position of p, or -1.
func (c *ContainerPanel) IndexOf(p *ElementPanel) int {
	return slices.Index(c.elements, p)
}

// ElementAt returns the element at index or nil.
func (c *ContainerPanel) ElementAt(index int) *ElementPanel {
	if index < 0 || index >= len(c.elements) {
		return nil
	}
	return c.elements[index]
}

// ElementByClientID returns the first element with id.
func (c *ContainerPanel) ElementByClientID(id shared.ClientID) *ElementPanel {
	for _, p := range c.elements {
		if p.meta.ClientID == id {
			return p
		}
	}
	return nil
}

// ElementByNode returns the element whose node is n.
func (c *ContainerPanel) ElementByNode(n *html.Node) *ElementPanel {
	for _, p := range c.elements {
		if p.node == n {
			return p
		}
	}
	return nil
}

// Append adds p at the end of the container, used while adapting markup that
// is already in place.
func (c *ContainerPanel) Append(p *ElementPanel) {
	p.parent = c
	c.elements = append(c.elements, p)
}

// Insert moves p into the container at index, updating the document.
func (c *ContainerPanel) Insert(p *ElementPanel, index int) {
	if p.parent != nil {
		p.parent.Remove(p)
	}
	if index < 0 || index > len(c.elements) {
		index = len(c.elements)
	}
	var ref *html.Node
	if index < len(c.elements) {
		ref = c.elements[index].node
	}
	dom.InsertBefore(c.node, p.node, ref)
	c.elements = slices.Insert(c.elements, index, p)
	p.parent = c
	c.CheckEmpty()
}

// Remove detaches p from the container and the document.
func (c *ContainerPanel) Remove(p *ElementPanel) bool {
	index := c.IndexOf(p)
	if index < 0 {
		return false
	}
	c.elements = slices.Delete(c.elements, index, index+1)
	dom.Detach(p.node)
	p.parent = nil
	c.CheckEmpty()
	return true
}

// Clear removes every element.
func (c *ContainerPanel) Clear() {
	for len(c.elements) > 0 {
		c.Remove(c.elements[0])
	}
}

// CheckEmpty toggles the empty marker class.
func (c *ContainerPanel) CheckEmpty() {
	dom.ToggleClass(c.node, ClassEmpty, len(c.elements) == 0)
}

// Highlight outlines every element of the container.
func (c *ContainerPanel) Highlight(on bool) {
	for _, p := range c.elements {
		p.Highlight(on)
	}
}

// SetButtonsEnabled toggles every option bar of the container.
func (c *ContainerPanel) SetButtonsEnabled(enabled bool) {
	for _, p := range c.elements {
		p.SetButtonsEnabled(enabled)
	}
}

// Snapshot returns the save-time view of the container.
func (c *ContainerPanel) Snapshot() shared.Container {
	out := shared.Container{
		Name:        c.def.Name,
		Type:        c.def.Type,
		Width:       c.def.Width,
		MaxElements: c.def.MaxElements,
		DetailView:  c.def.DetailView,
		Elements:    make([]shared.ContainerElement, 0, len(c.elements)),
	}
	for _, p := range c.elements {
		out.Elements = append(out.Elements, shared.ContainerElement{
			ClientID: p.meta.ClientID,
			NewType:  p.meta.NewType,
			SitePath: p.meta.SitePath,
		})
	}
	return out
}

// ClientIDs lists the element ids in document order.
func (c *ContainerPanel) ClientIDs() []shared.ClientID {
	ids := make([]shared.ClientID, 0, len(c.elements))
	for _, p := range c.elements {
		ids = append(ids, p.meta.ClientID)
	}
	return ids
}
