package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestAttrIsCaseInsensitive(t *testing.T) {
	n, err := ParseElement(`<div clientId="abc" class="a b"></div>`)
	require.NoError(t, err)

	assert.Equal(t, "abc", Attr(n, "clientId"))
	SetAttr(n, "ClientID", "def")
	assert.Equal(t, "def", Attr(n, "clientid"))
	assert.Len(t, n.Attr, 2)

	RemoveAttr(n, "CLIENTID")
	_, ok := LookupAttr(n, "clientId")
	assert.False(t, ok)
}

func TestClasses(t *testing.T) {
	n := NewElement("div", "a")
	AddClass(n, "b")
	AddClass(n, "a")
	assert.Equal(t, []string{"a", "b"}, Classes(n))

	RemoveClass(n, "a")
	assert.Equal(t, "b", Attr(n, "class"))
	RemoveClass(n, "b")
	_, ok := LookupAttr(n, "class")
	assert.False(t, ok)
}

func TestParseElementWrapsSeveralRoots(t *testing.T) {
	n, err := ParseElement(" <p>a</p><p>b</p> ")
	require.NoError(t, err)
	assert.Equal(t, "div", n.Data)
	assert.Len(t, ElementChildren(n), 2)

	single, err := ParseElement("\n<section>x</section>\n")
	require.NoError(t, err)
	assert.Equal(t, "section", single.Data)

	void, err := ParseElement(`<img src="a.png">`)
	require.NoError(t, err)
	assert.Equal(t, "div", void.Data, "void roots cannot hold an option bar")
	assert.True(t, IsVoid(ElementChildren(void)[0]))

	_, err = ParseElement("   ")
	assert.ErrorIs(t, err, ErrEmptyFragment)
}

func TestStyleSaveAndRestore(t *testing.T) {
	n, err := ParseElement(`<div style="color: red; min-height: 40px"></div>`)
	require.NoError(t, err)

	saved := SaveStyle(n, "min-height")
	SetStyle(n, "min-height", Px(120))
	assert.Equal(t, "120px", Style(n, "min-height"))
	RestoreStyle(n, saved)
	assert.Equal(t, "40px", Style(n, "min-height"))

	absent := SaveStyle(n, "z-index")
	SetStyle(n, "z-index", "10")
	RestoreStyle(n, absent)
	assert.Equal(t, "", Style(n, "z-index"))
	assert.Equal(t, "color: red; min-height: 40px", Attr(n, "style"))
}

func TestQueryAndByID(t *testing.T) {
	doc, err := ParseDocument(`<html><body><div id="main"><img data-imagednd="a|b|en"><span class="x"></span></div></body></html>`)
	require.NoError(t, err)

	main := ByID(doc, "main")
	require.NotNil(t, main)
	assert.Len(t, Query(doc, "[data-imagednd]"), 1)
	assert.NotNil(t, QueryFirst(main, "span.x"))
	assert.True(t, Matches(QueryFirst(doc, "span"), ".x"))
	assert.Same(t, main, Closest(QueryFirst(doc, "span"), func(n *html.Node) bool { return Attr(n, "id") == "main" }))
}

func TestRemoveScriptsAndClone(t *testing.T) {
	n, err := ParseElement(`<div><script>alert(1)</script><p>keep</p></div>`)
	require.NoError(t, err)

	clone := Clone(n)
	assert.Equal(t, 1, RemoveScripts(n))
	inner, err := InnerHTML(n)
	require.NoError(t, err)
	assert.Equal(t, "<p>keep</p>", inner)
	rendered, err := Render(clone)
	require.NoError(t, err)
	assert.Contains(t, rendered, "<script>")
}

func TestRenderReportsUnwritableTree(t *testing.T) {
	img := NewElement("img")
	img.AppendChild(NewElement("p"))
	doc := NewElement("div")
	doc.AppendChild(img)

	out, err := Render(doc)
	require.Error(t, err)
	assert.Empty(t, out)

	_, err = InnerHTML(doc)
	require.Error(t, err)
}
