// Package pageadapter turns the marker-delimited markup rendered by the
// server into container and element panels, and builds new element panels
// from fetched element data.
package pageadapter

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/panels"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"golang.org/x/net/html"
)

var (
	// ErrNoContent is returned when an element has no markup for a container.
	ErrNoContent = errors.New("pageadapter: element has no content for container")
	// ErrNilElement is returned for a nil element data argument.
	ErrNilElement = errors.New("pageadapter: element data is nil")
)

// ElementCache is the read side of the element cache.
type ElementCache interface {
	CachedElement(id shared.ClientID) *shared.ElementData
}

// IssueKind classifies markup problems found while scanning.
type IssueKind string

const (
	IssueMissingContainer  IssueKind = "missing_container"
	IssueInterrupted       IssueKind = "interrupted_element"
	IssueEmptyElement      IssueKind = "empty_element"
	IssueMissingEndMarker  IssueKind = "missing_end_marker"
	IssueNestedStartMarker IssueKind = "nested_start_marker"
	IssueStrayEndMarker    IssueKind = "stray_end_marker"
	IssueStrayMarkup       IssueKind = "stray_markup"
)

// MarkupIssue is one repaired problem. Scanning never fails; it discards the
// broken fragment and reports it here.
type MarkupIssue struct {
	Kind      IssueKind
	ClientID  shared.ClientID
	Container string
}

func (i MarkupIssue) String() string {
	if i.ClientID == "" {
		return fmt.Sprintf("%s in %q", i.Kind, i.Container)
	}
	return fmt.Sprintf("%s for %q in %q", i.Kind, i.ClientID, i.Container)
}

// Adapter converts between page markup and panels.
type Adapter struct {
	cache ElementCache
}

// New returns an adapter reading group sub-items from cache.
func New(cache ElementCache) *Adapter {
	return &Adapter{cache: cache}
}

// ConsumeContainers locates every defined container by its id attribute and
// scans its elements. Containers missing from the document are reported and
// skipped.
func (a *Adapter) ConsumeContainers(root *html.Node, defs []shared.ContainerDefinition) (map[string]*panels.ContainerPanel, []MarkupIssue) {
	containers := make(map[string]*panels.ContainerPanel, len(defs))
	var issues []MarkupIssue
	for _, def := range defs {
		node := dom.ByID(root, def.Name)
		if node == nil {
			issues = append(issues, MarkupIssue{Kind: IssueMissingContainer, Container: def.Name})
			continue
		}
		container := panels.NewContainerPanel(node, def)
		issues = append(issues, a.ConsumeContainerElements(container)...)
		containers[def.Name] = container
	}
	return containers, issues
}

// ConsumeContainerElements rebuilds the element panels of container from the
// marker-delimited children of its node.
func (a *Adapter) ConsumeContainerElements(container *panels.ContainerPanel) []MarkupIssue {
	var issues []MarkupIssue
	report := func(kind IssueKind, id shared.ClientID) {
		issues = append(issues, MarkupIssue{Kind: kind, ClientID: id, Container: container.Name()})
	}

	node := container.Node()
	child := node.FirstChild
	for child != nil {
		if !panels.IsStartMarker(child) {
			next := child.NextSibling
			switch {
			case panels.IsEndMarker(child):
				report(IssueStrayEndMarker, "")
				node.RemoveChild(child)
			case dom.IsElement(child) && container.ElementByNode(child) == nil && child != optionBarOf(container):
				report(IssueStrayMarkup, "")
				node.RemoveChild(child)
			case child.Type == html.TextNode && !dom.IsBlankText(child):
				node.RemoveChild(child)
			case child.Type == html.CommentNode:
				node.RemoveChild(child)
			}
			child = next
			continue
		}

		marker := child
		meta := panels.ReadMeta(marker)

		root := marker.NextSibling
		for root != nil && root.Type != html.ElementNode {
			next := root.NextSibling
			node.RemoveChild(root)
			root = next
		}

		if root == nil {
			report(IssueMissingEndMarker, meta.ClientID)
			node.RemoveChild(marker)
			break
		}
		if panels.IsStartMarker(root) {
			report(IssueInterrupted, meta.ClientID)
			node.RemoveChild(marker)
			child = root
			continue
		}
		if panels.IsEndMarker(root) {
			report(IssueEmptyElement, meta.ClientID)
			next := root.NextSibling
			node.RemoveChild(root)
			node.RemoveChild(marker)
			child = next
			continue
		}

		run := []*html.Node{root}
		sibling := root.NextSibling
		for sibling != nil && !panels.IsStartMarker(sibling) && !panels.IsEndMarker(sibling) {
			run = append(run, sibling)
			sibling = sibling.NextSibling
		}

		if sibling == nil {
			report(IssueMissingEndMarker, meta.ClientID)
			removeAll(node, run)
			node.RemoveChild(marker)
			break
		}
		if panels.IsStartMarker(sibling) {
			report(IssueNestedStartMarker, meta.ClientID)
			removeAll(node, run)
			node.RemoveChild(marker)
			child = sibling
			continue
		}

		next := sibling.NextSibling
		node.RemoveChild(sibling)
		node.RemoveChild(marker)
		root = elementRoot(node, run)
		dom.RemoveScripts(root)

		panel := panels.NewElementPanel(root, meta)
		container.Append(panel)
		if groupMarker := groupMarkerOf(root); groupMarker != nil {
			root.RemoveChild(groupMarker)
			group := panel.MakeGroup(container.ContentKey())
			issues = append(issues, a.ConsumeContainerElements(group)...)
			group.CheckEmpty()
		}
		panel.AddOptionBar()
		child = next
	}

	container.CheckEmpty()
	return issues
}

// elementRoot returns the node that represents the element content in run.
// A single non-void element is used as is. Several roots, loose text or a
// void element are wrapped in a div placed where the run started.
func elementRoot(parent *html.Node, run []*html.Node) *html.Node {
	elements, loose := 0, false
	for _, n := range run {
		switch {
		case n.Type == html.ElementNode:
			elements++
		case n.Type == html.CommentNode, dom.IsBlankText(n):
		default:
			loose = true
		}
	}
	if elements == 1 && !loose && !dom.IsVoid(run[0]) {
		removeAll(parent, run[1:])
		return run[0]
	}

	wrapper := dom.NewElement("div")
	parent.InsertBefore(wrapper, run[0])
	for _, n := range run {
		parent.RemoveChild(n)
		wrapper.AppendChild(n)
	}
	return wrapper
}

func removeAll(parent *html.Node, nodes []*html.Node) {
	for _, n := range nodes {
		parent.RemoveChild(n)
	}
}

// CreateElement builds a detached panel for data as rendered for target.
// Group containers get panels for those cached sub-items that have content
// for the same container.
func (a *Adapter) CreateElement(data *shared.ElementData, target *panels.ContainerPanel) (*panels.ElementPanel, error) {
	if data == nil {
		return nil, ErrNilElement
	}
	content, ok := data.ContentFor(target.ContentKey())
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoContent, data.ClientID, target.ContentKey())
	}
	node, err := dom.ParseElement(content)
	if err != nil {
		return nil, fmt.Errorf("pageadapter: parse content of %s: %w", data.ClientID, err)
	}
	dom.RemoveScripts(node)

	panel := panels.NewElementPanel(node, panels.MetaFromData(data))
	if data.GroupContainer {
		for c := node.FirstChild; c != nil; c = node.FirstChild {
			node.RemoveChild(c)
		}
		group := panel.MakeGroup(target.ContentKey())
		for _, subID := range data.SubItems {
			sub := a.cachedElement(subID)
			if sub == nil {
				continue
			}
			if _, ok := sub.ContentFor(target.ContentKey()); !ok {
				continue
			}
			subPanel, err := a.CreateElement(sub, group)
			if err != nil {
				continue
			}
			group.Insert(subPanel, group.Len())
		}
		group.CheckEmpty()
	}
	panel.AddOptionBar()
	return panel, nil
}

func (a *Adapter) cachedElement(id shared.ClientID) *shared.ElementData {
	if a.cache == nil {
		return nil
	}
	return a.cache.CachedElement(id)
}

func groupMarkerOf(root *html.Node) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if panels.IsGroupMarker(c) {
			return c
		}
	}
	return nil
}

func optionBarOf(container *panels.ContainerPanel) *html.Node {
	if owner := container.Owner(); owner != nil {
		return owner.OptionBar()
	}
	return nil
}
