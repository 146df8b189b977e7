package dnd

import (
	"strconv"

	"github.com/goliatone/go-cms-editor/internal/dom"
	"golang.org/x/net/html"
)

// DefaultZIndexBase is the z-index given to the outermost promoted container.
const DefaultZIndexBase = 1000

type zEntry struct {
	node     *html.Node
	parent   string
	saved    dom.SavedStyle
	promoted bool
}

// ZIndexManager raises a hovered container together with its ancestors above
// sibling containers, and puts the original stacking back afterwards.
type ZIndexManager struct {
	base    int
	entries map[string]*zEntry
}

// NewZIndexManager returns an empty manager.
func NewZIndexManager(base int) *ZIndexManager {
	if base <= 0 {
		base = DefaultZIndexBase
	}
	return &ZIndexManager{base: base, entries: map[string]*zEntry{}}
}

// AddContainer registers a container and its parent container name.
func (m *ZIndexManager) AddContainer(name string, node *html.Node, parent string) {
	if existing, ok := m.entries[name]; ok {
		if existing.promoted {
			m.restore(existing)
		}
	}
	m.entries[name] = &zEntry{node: node, parent: parent}
}

// Promote raises name and every ancestor.
func (m *ZIndexManager) Promote(name string) {
	chain := m.chain(name)
	for depth := len(chain) - 1; depth >= 0; depth-- {
		entry := chain[depth]
		if !entry.promoted {
			entry.saved = dom.SaveStyle(entry.node, "z-index")
			entry.promoted = true
		}
		dom.SetStyle(entry.node, "z-index", strconv.Itoa(m.base+len(chain)-1-depth))
	}
}

// Demote restores name and those ancestors not needed by another promoted
// container.
func (m *ZIndexManager) Demote(name string) {
	entry, ok := m.entries[name]
	if !ok || !entry.promoted {
		return
	}
	m.restore(entry)
	for _, ancestor := range m.chain(entry.parent) {
		if ancestor.promoted && !m.hasPromotedChild(ancestor) {
			m.restore(ancestor)
		}
	}
}

// Clear restores every promoted container.
func (m *ZIndexManager) Clear() {
	for _, entry := range m.entries {
		if entry.promoted {
			m.restore(entry)
		}
	}
}

// IsPromoted reports whether name is currently raised.
func (m *ZIndexManager) IsPromoted(name string) bool {
	entry, ok := m.entries[name]
	return ok && entry.promoted
}

func (m *ZIndexManager) chain(name string) []*zEntry {
	var chain []*zEntry
	seen := map[string]bool{}
	for name != "" && !seen[name] {
		seen[name] = true
		entry, ok := m.entries[name]
		if !ok {
			break
		}
		chain = append(chain, entry)
		name = entry.parent
	}
	return chain
}

func (m *ZIndexManager) hasPromotedChild(parent *zEntry) bool {
	for _, entry := range m.entries {
		if entry.promoted && entry != parent && m.entries[entry.parent] == parent {
			return true
		}
	}
	return false
}

func (m *ZIndexManager) restore(entry *zEntry) {
	dom.RestoreStyle(entry.node, entry.saved)
	entry.promoted = false
	entry.saved = dom.SavedStyle{}
}
