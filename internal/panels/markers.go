// Package panels models the draggable structure the editor builds on top of
// the rendered page: container panels holding element panels, each element
// optionally carrying an option bar of edit actions.
package panels

import (
	"github.com/goliatone/go-cms-editor/internal/dom"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"golang.org/x/net/html"
)

// Marker classes and attributes emitted by the page renderer.
const (
	ClassStartMarker = "cms_ade_element_start_marker"
	ClassEndMarker   = "cms_ade_element_end_marker"
	ClassGroupMarker = "cms_ade_groupcontainer_marker"

	AttrClientID              = "clientId"
	AttrSitePath              = "alt"
	AttrNoEditReason          = "rel"
	AttrNewType               = "newType"
	AttrHasProperties         = "hasprops"
	AttrHasViewPermission     = "hasviewpermission"
	AttrReleasedAndNotExpired = "releasedandnotexpired"
	AttrImageDnd              = "data-imagednd"
)

// Classes the editor puts on page nodes.
const (
	ClassElement        = "cms_ade_element"
	ClassGroupContainer = "cms_ade_groupcontainer"
	ClassEmpty          = "cms_ade_empty"
	ClassOptionBar      = "cms_ade_option_bar"
	ClassHighlighting   = "cms_ade_highlighting"
	ClassExpired        = "cms_ade_expired"
	ClassNewElement     = "cms_ade_new"
	ClassPlaceholder    = "cms_ade_placeholder"
	ClassDragHelper     = "cms_ade_drag_helper"
	ClassOverlay        = "cms_ade_drag_overlay"
	ClassEditing        = "cms_ade_editing"
)

// IsStartMarker reports whether n opens an element.
func IsStartMarker(n *html.Node) bool {
	return dom.HasClass(n, ClassStartMarker)
}

// IsEndMarker reports whether n closes an element.
func IsEndMarker(n *html.Node) bool {
	return dom.HasClass(n, ClassEndMarker)
}

// IsGroupMarker reports whether n marks its parent as a group container.
func IsGroupMarker(n *html.Node) bool {
	return dom.HasClass(n, ClassGroupMarker)
}

// IsMarker reports whether n is any of the renderer markers.
func IsMarker(n *html.Node) bool {
	return IsStartMarker(n) || IsEndMarker(n) || IsGroupMarker(n)
}

// Meta is the element information carried by a start marker.
type Meta struct {
	ClientID              shared.ClientID
	SitePath              string
	NoEditReason          string
	NewType               string
	HasProperties         bool
	HasViewPermission     bool
	ReleasedAndNotExpired bool
}

// ReadMeta decodes the attributes of a start marker.
func ReadMeta(marker *html.Node) Meta {
	return Meta{
		ClientID:              shared.ClientID(dom.Attr(marker, AttrClientID)),
		SitePath:              dom.Attr(marker, AttrSitePath),
		NoEditReason:          dom.Attr(marker, AttrNoEditReason),
		NewType:               dom.Attr(marker, AttrNewType),
		HasProperties:         dom.BoolAttr(marker, AttrHasProperties),
		HasViewPermission:     dom.BoolAttr(marker, AttrHasViewPermission),
		ReleasedAndNotExpired: dom.BoolAttr(marker, AttrReleasedAndNotExpired),
	}
}

// MetaFromData derives panel metadata from fetched element data.
func MetaFromData(data *shared.ElementData) Meta {
	meta := Meta{
		ClientID:              data.ClientID,
		SitePath:              data.SitePath,
		NoEditReason:          data.NoEditReason,
		HasProperties:         data.HasProperties,
		HasViewPermission:     data.HasViewPermission,
		ReleasedAndNotExpired: data.ReleasedAndNotExpired,
	}
	if data.New {
		meta.NewType = data.ResourceType
	}
	return meta
}

// WriteMarker renders meta back into start-marker attributes.
func WriteMarker(marker *html.Node, meta Meta) {
	dom.AddClass(marker, ClassStartMarker)
	dom.SetAttr(marker, AttrClientID, string(meta.ClientID))
	dom.SetAttr(marker, AttrSitePath, meta.SitePath)
	dom.SetAttr(marker, AttrNoEditReason, meta.NoEditReason)
	dom.SetAttr(marker, AttrNewType, meta.NewType)
	dom.SetAttr(marker, AttrHasProperties, boolString(meta.HasProperties))
	dom.SetAttr(marker, AttrHasViewPermission, boolString(meta.HasViewPermission))
	dom.SetAttr(marker, AttrReleasedAndNotExpired, boolString(meta.ReleasedAndNotExpired))
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
