// Package dom holds small typed accessors over golang.org/x/net/html nodes,
// which serve as the editor's document model.
package dom

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr returns the value of the attribute key. Lookup ignores case since the
// HTML parser lower-cases attribute names.
func Attr(n *html.Node, key string) string {
	value, _ := LookupAttr(n, key)
	return value
}

// LookupAttr returns the attribute value and whether it is present.
func LookupAttr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

// BoolAttr parses a boolean-as-string attribute ("true" ignoring case).
func BoolAttr(n *html.Node, key string) bool {
	return strings.EqualFold(strings.TrimSpace(Attr(n, key)), "true")
}

// SetAttr creates or replaces an attribute.
func SetAttr(n *html.Node, key, value string) {
	if n == nil {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && strings.EqualFold(n.Attr[i].Key, key) {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: strings.ToLower(key), Val: value})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	n.Attr = slices.DeleteFunc(n.Attr, func(attr html.Attribute) bool {
		return attr.Namespace == "" && strings.EqualFold(attr.Key, key)
	})
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	return strings.Fields(Attr(n, "class"))
}

// HasClass reports whether n is an element carrying class.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return slices.Contains(Classes(n), class)
}

// AddClass appends class unless already present.
func AddClass(n *html.Node, class string) {
	if n == nil || HasClass(n, class) {
		return
	}
	SetAttr(n, "class", strings.TrimSpace(Attr(n, "class")+" "+class))
}

// RemoveClass drops every occurrence of class.
func RemoveClass(n *html.Node, class string) {
	if n == nil {
		return
	}
	classes := slices.DeleteFunc(Classes(n), func(c string) bool { return c == class })
	if len(classes) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(classes, " "))
}

// ToggleClass adds or removes class.
func ToggleClass(n *html.Node, class string, on bool) {
	if on {
		AddClass(n, class)
	} else {
		RemoveClass(n, class)
	}
}

// NewElement returns a detached element node.
func NewElement(tag string, classes ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if len(classes) > 0 {
		SetAttr(n, "class", strings.Join(classes, " "))
	}
	return n
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// IsBlankText reports whether n is a text node holding only whitespace.
func IsBlankText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

// ElementChildren returns the element children of n in document order.
func ElementChildren(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// NextElementSibling skips non-element siblings.
func NextElementSibling(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Replace puts replacement where old is and detaches old.
func Replace(old, replacement *html.Node) {
	if old == nil || replacement == nil || old.Parent == nil {
		return
	}
	Detach(replacement)
	old.Parent.InsertBefore(replacement, old)
	old.Parent.RemoveChild(old)
}

// InsertBefore attaches child to parent before ref, or at the end when ref is nil.
func InsertBefore(parent, child, ref *html.Node) {
	if parent == nil || child == nil {
		return
	}
	Detach(child)
	if ref == nil || ref.Parent != parent {
		parent.AppendChild(child)
		return
	}
	parent.InsertBefore(child, ref)
}

// Prepend attaches child as the first child of parent.
func Prepend(parent, child *html.Node) {
	InsertBefore(parent, child, parent.FirstChild)
}

// Closest walks up from n (inclusive) and returns the first node matching.
func Closest(n *html.Node, match func(*html.Node) bool) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if match(cur) {
			return cur
		}
	}
	return nil
}

// IsAncestor reports whether ancestor contains n.
func IsAncestor(ancestor, n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// RemoveAll detaches every descendant matching.
func RemoveAll(root *html.Node, match func(*html.Node) bool) int {
	removed := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if match(c) {
				n.RemoveChild(c)
				removed++
			} else {
				walk(c)
			}
			c = next
		}
	}
	if root != nil {
		walk(root)
	}
	return removed
}

// RemoveScripts strips script elements below root.
func RemoveScripts(root *html.Node) int {
	return RemoveAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Script
	})
}

// Clone deep-copies n, detached.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	cloned := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      slices.Clone(n.Attr),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cloned.AppendChild(Clone(c))
	}
	return cloned
}

// Render serializes n including itself. A tree html.Render cannot write,
// such as a void element with children, is an error rather than a
// truncated string.
func Render(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("dom: render <%s>: %w", n.Data, err)
	}
	return buf.String(), nil
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("dom: render children of <%s>: %w", n.Data, err)
		}
	}
	return buf.String(), nil
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// IsVoid reports whether n is an element that cannot have children.
func IsVoid(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && voidElements[n.Data]
}
