package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Style returns an inline style property value.
func Style(n *html.Node, property string) string {
	for _, decl := range declarations(n) {
		if decl[0] == property {
			return decl[1]
		}
	}
	return ""
}

// SetStyle sets or replaces an inline style property.
func SetStyle(n *html.Node, property, value string) {
	if n == nil {
		return
	}
	decls := declarations(n)
	replaced := false
	for i := range decls {
		if decls[i][0] == property {
			decls[i][1] = value
			replaced = true
		}
	}
	if !replaced {
		decls = append(decls, [2]string{property, value})
	}
	writeDeclarations(n, decls)
}

// RemoveStyle drops an inline style property.
func RemoveStyle(n *html.Node, property string) {
	if n == nil {
		return
	}
	decls := declarations(n)
	kept := decls[:0]
	for _, decl := range decls {
		if decl[0] != property {
			kept = append(kept, decl)
		}
	}
	writeDeclarations(n, kept)
}

// SavedStyle remembers an inline property so it can be put back exactly.
type SavedStyle struct {
	Property string
	Value    string
	Present  bool
}

// SaveStyle captures the current state of property on n.
func SaveStyle(n *html.Node, property string) SavedStyle {
	saved := SavedStyle{Property: property}
	for _, decl := range declarations(n) {
		if decl[0] == property {
			saved.Value = decl[1]
			saved.Present = true
		}
	}
	return saved
}

// RestoreStyle reapplies a SavedStyle.
func RestoreStyle(n *html.Node, saved SavedStyle) {
	if saved.Present {
		SetStyle(n, saved.Property, saved.Value)
		return
	}
	RemoveStyle(n, saved.Property)
}

// Px formats a pixel length.
func Px(value int) string {
	return strconv.Itoa(value) + "px"
}

// Measurer reports layout geometry the document model cannot compute itself.
type Measurer interface {
	OffsetHeight(n *html.Node) int
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(*html.Node) int

func (f MeasureFunc) OffsetHeight(n *html.Node) int { return f(n) }

func declarations(n *html.Node) [][2]string {
	raw := Attr(n, "style")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out [][2]string
	for _, part := range strings.Split(raw, ";") {
		property, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		property = strings.ToLower(strings.TrimSpace(property))
		if property == "" {
			continue
		}
		out = append(out, [2]string{property, strings.TrimSpace(value)})
	}
	return out
}

func writeDeclarations(n *html.Node, decls [][2]string) {
	if len(decls) == 0 {
		RemoveAttr(n, "style")
		return
	}
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		parts = append(parts, decl[0]+": "+decl[1])
	}
	SetAttr(n, "style", strings.Join(parts, "; "))
}
