package panels

import (
	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"golang.org/x/net/html"
)

// Option bar actions.
const (
	ActionMove       = "move"
	ActionEdit       = "edit"
	ActionProperties = "properties"
	ActionFavorite   = "favorite"
	ActionRemove     = "remove"
)

// ElementPanel is one draggable element on the page.
type ElementPanel struct {
	node      *html.Node
	meta      Meta
	parent    *ContainerPanel
	optionBar *html.Node
	group     *ContainerPanel
}

// NewElementPanel wraps node with meta and marks it as an element.
func NewElementPanel(node *html.Node, meta Meta) *ElementPanel {
	p := &ElementPanel{node: node, meta: meta}
	dom.AddClass(node, ClassElement)
	dom.ToggleClass(node, ClassNewElement, meta.NewType != "")
	dom.ToggleClass(node, ClassExpired, !meta.ReleasedAndNotExpired)
	return p
}

func (p *ElementPanel) Node() *html.Node          { return p.node }
func (p *ElementPanel) Meta() Meta                { return p.meta }
func (p *ElementPanel) ClientID() shared.ClientID { return p.meta.ClientID }
func (p *ElementPanel) NewType() string           { return p.meta.NewType }
func (p *ElementPanel) Parent() *ContainerPanel   { return p.parent }

// IsNew reports whether the element still waits for server-side creation.
func (p *ElementPanel) IsNew() bool {
	return p.meta.NewType != ""
}

// Editable reports whether edit actions apply.
func (p *ElementPanel) Editable() bool {
	return p.meta.NoEditReason == ""
}

// SetClientID replaces the id, used once a new element was created.
func (p *ElementPanel) SetClientID(id shared.ClientID) {
	p.meta.ClientID = id
}

// SetNewType updates the pending resource type. An empty value means created.
func (p *ElementPanel) SetNewType(newType string) {
	p.meta.NewType = newType
	dom.ToggleClass(p.node, ClassNewElement, newType != "")
}

// UpdateMeta replaces all metadata, keeping the panel identity.
func (p *ElementPanel) UpdateMeta(meta Meta) {
	p.meta = meta
	dom.ToggleClass(p.node, ClassNewElement, meta.NewType != "")
	dom.ToggleClass(p.node, ClassExpired, !meta.ReleasedAndNotExpired)
}

// Index returns the position of the panel in its parent, or -1.
func (p *ElementPanel) Index() int {
	if p.parent == nil {
		return -1
	}
	return p.parent.IndexOf(p)
}

// Group returns the nested container when the element is a group container.
func (p *ElementPanel) Group() *ContainerPanel {
	return p.group
}

// IsGroupContainer reports whether the element holds sub-elements.
func (p *ElementPanel) IsGroupContainer() bool {
	return p.group != nil
}

// MakeGroup turns the element into a group container whose sub-elements use
// the content rendered for contentKey.
func (p *ElementPanel) MakeGroup(contentKey string) *ContainerPanel {
	if p.group != nil {
		return p.group
	}
	dom.AddClass(p.node, ClassGroupContainer)
	p.group = &ContainerPanel{
		node:       p.node,
		def:        shared.ContainerDefinition{Name: string(p.meta.ClientID), Type: "groupcontainer"},
		contentKey: contentKey,
		owner:      p,
	}
	return p.group
}

// OptionBar returns the attached option bar, if any.
func (p *ElementPanel) OptionBar() *html.Node {
	return p.optionBar
}

// AddOptionBar attaches a fresh option bar as the first child.
func (p *ElementPanel) AddOptionBar() {
	p.RemoveOptionBar()
	bar := dom.NewElement("div", ClassOptionBar)
	actions := []string{ActionMove}
	if p.Editable() {
		actions = append(actions, ActionEdit)
		if p.meta.HasProperties {
			actions = append(actions, ActionProperties)
		}
		actions = append(actions, ActionRemove)
	}
	if !p.IsNew() {
		actions = append(actions, ActionFavorite)
	}
	for _, action := range actions {
		button := dom.NewElement("button")
		dom.SetAttr(button, "data-action", action)
		bar.AppendChild(button)
	}
	dom.Prepend(p.node, bar)
	p.optionBar = bar
}

// RemoveOptionBar detaches the option bar.
func (p *ElementPanel) RemoveOptionBar() {
	if p.optionBar == nil {
		return
	}
	dom.Detach(p.optionBar)
	p.optionBar = nil
}

// SetButtonsEnabled toggles the disabled state of all option bar buttons.
func (p *ElementPanel) SetButtonsEnabled(enabled bool) {
	if p.optionBar == nil {
		return
	}
	for _, button := range dom.ElementChildren(p.optionBar) {
		if enabled {
			dom.RemoveAttr(button, "disabled")
		} else {
			dom.SetAttr(button, "disabled", "disabled")
		}
	}
}

// ButtonsEnabled reports whether the option bar is present and enabled.
func (p *ElementPanel) ButtonsEnabled() bool {
	if p.optionBar == nil {
		return false
	}
	for _, button := range dom.ElementChildren(p.optionBar) {
		if _, disabled := dom.LookupAttr(button, "disabled"); disabled {
			return false
		}
	}
	return true
}

// Highlight marks the element outline.
func (p *ElementPanel) Highlight(on bool) {
	dom.ToggleClass(p.node, ClassHighlighting, on)
}

// Adopt takes over the node, metadata and group of other, which was built
// from fresh element data, while keeping p's place in its container.
func (p *ElementPanel) Adopt(other *ElementPanel) {
	hadBar := p.optionBar != nil
	p.RemoveOptionBar()
	other.RemoveOptionBar()
	dom.Replace(p.node, other.node)
	p.node = other.node
	p.meta = other.meta
	p.group = other.group
	if p.group != nil {
		p.group.owner = p
	}
	if hadBar {
		p.AddOptionBar()
	}
}
