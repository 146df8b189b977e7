package dom

import (
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var selectors sync.Map // string -> cascadia.Selector

func compile(selector string) cascadia.Selector {
	if cached, ok := selectors.Load(selector); ok {
		return cached.(cascadia.Selector)
	}
	compiled := cascadia.MustCompile(selector)
	selectors.Store(selector, compiled)
	return compiled
}

// Query returns all descendants of root matching the CSS selector.
func Query(root *html.Node, selector string) []*html.Node {
	if root == nil {
		return nil
	}
	return compile(selector).MatchAll(root)
}

// QueryFirst returns the first match or nil.
func QueryFirst(root *html.Node, selector string) *html.Node {
	if root == nil {
		return nil
	}
	return compile(selector).MatchFirst(root)
}

// Matches reports whether n itself matches the selector.
func Matches(n *html.Node, selector string) bool {
	return n != nil && compile(selector).Match(n)
}

// ByID returns the element whose id attribute equals id.
func ByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && Attr(n, "id") == id {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if root != nil && id != "" {
		walk(root)
	}
	return found
}
