package dom

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrEmptyFragment is returned when markup holds no element.
var ErrEmptyFragment = errors.New("dom: fragment contains no element")

// ParseDocument parses a full page.
func ParseDocument(markup string) (*html.Node, error) {
	return html.Parse(strings.NewReader(markup))
}

// ParseFragment parses markup in a div context.
func ParseFragment(markup string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	return html.ParseFragment(strings.NewReader(markup), context)
}

// ParseElement parses markup into a single detached element. Markup with
// several top-level nodes, or a lone void element, is wrapped in a div; blank
// text around a single element is dropped.
func ParseElement(markup string) (*html.Node, error) {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}

	var significant []*html.Node
	for _, n := range nodes {
		if IsBlankText(n) || n.Type == html.CommentNode {
			continue
		}
		significant = append(significant, n)
	}

	switch {
	case len(significant) == 0:
		return nil, ErrEmptyFragment
	case len(significant) == 1 && significant[0].Type == html.ElementNode && !IsVoid(significant[0]):
		return significant[0], nil
	}

	wrapper := NewElement("div")
	for _, n := range nodes {
		wrapper.AppendChild(n)
	}
	return wrapper, nil
}

// Body returns the body element of a parsed document, or doc itself.
func Body(doc *html.Node) *html.Node {
	if body := QueryFirst(doc, "body"); body != nil {
		return body
	}
	return doc
}
