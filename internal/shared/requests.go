package shared

import (
	"errors"
	"strings"
)

// ElementsRequest asks for the data of a set of elements.
type ElementsRequest struct {
	PageID        string                `json:"pageId"`
	DetailID      string                `json:"detailId,omitempty"`
	RequestParams string                `json:"requestParams,omitempty"`
	ClientIDs     []ClientID            `json:"clientIds"`
	Containers    []ContainerDefinition `json:"containers"`
	Locale        string                `json:"locale"`
}

// NewElementRequest asks for the placeholder data of a resource type.
type NewElementRequest struct {
	PageID       string                `json:"pageId"`
	ResourceType string                `json:"resourceType"`
	Containers   []ContainerDefinition `json:"containers"`
	Locale       string                `json:"locale"`
}

// CopyElementRequest asks the server to copy a model resource.
type CopyElementRequest struct {
	PageID   string   `json:"pageId"`
	ClientID ClientID `json:"clientId"`
	Locale   string   `json:"locale"`
}

// CreateElementRequest asks the server to create the resource behind a new element.
type CreateElementRequest struct {
	PageID        string   `json:"pageId"`
	ClientID      ClientID `json:"clientId"`
	ResourceType  string   `json:"resourceType"`
	ModelResource string   `json:"modelResource,omitempty"`
	Locale        string   `json:"locale"`
}

// ModelResource is a template the user may pick when creating an element.
type ModelResource struct {
	StructureID string `json:"structureId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// CreateElementData is the answer of the create check. Either Created is set
// or the caller must choose one of ModelResources.
type CreateElementData struct {
	ModelResources []ModelResource   `json:"modelResources,omitempty"`
	Created        *ContainerElement `json:"created,omitempty"`
}

// SavePageRequest stores the container layout of a page.
type SavePageRequest struct {
	PageID     string      `json:"pageId"`
	Containers []Container `json:"containers"`
	Locale     string      `json:"locale"`
}

// SaveGroupContainerRequest stores the sub-elements of a group container.
type SaveGroupContainerRequest struct {
	PageID         string                `json:"pageId"`
	GroupContainer GroupContainer        `json:"groupContainer"`
	Containers     []ContainerDefinition `json:"containers"`
	Locale         string                `json:"locale"`
}

// ListRequest asks for the favorites or recent list rendered for the page containers.
type ListRequest struct {
	PageID     string                `json:"pageId"`
	DetailID   string                `json:"detailId,omitempty"`
	Containers []ContainerDefinition `json:"containers"`
	Locale     string                `json:"locale"`
}

// SaveValueRequest writes a single content value, used by image drops.
type SaveValueRequest struct {
	ContentID   string `json:"contentId"`
	ContentPath string `json:"contentPath"`
	Locale      string `json:"locale"`
	Value       string `json:"value"`
}

// ContextMenuEntry is one item of an element context menu.
type ContextMenuEntry struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Active  bool   `json:"active"`
	Visible bool   `json:"visible"`
}

// ErrImageDropZoneInvalid is returned for a malformed data-imagednd value.
var ErrImageDropZoneInvalid = errors.New("shared: image drop zone must be contentId|contentPath|locale")

// ImageDropZone is the decoded value of a data-imagednd attribute.
type ImageDropZone struct {
	ContentID   string
	ContentPath string
	Locale      string
}

// ParseImageDropZone decodes "contentId|contentPath|locale".
func ParseImageDropZone(value string) (ImageDropZone, error) {
	parts := strings.Split(value, "|")
	if len(parts) != 3 {
		return ImageDropZone{}, ErrImageDropZoneInvalid
	}
	zone := ImageDropZone{
		ContentID:   strings.TrimSpace(parts[0]),
		ContentPath: strings.TrimSpace(parts[1]),
		Locale:      strings.TrimSpace(parts[2]),
	}
	if zone.ContentID == "" || zone.ContentPath == "" {
		return ImageDropZone{}, ErrImageDropZoneInvalid
	}
	return zone, nil
}

// String encodes the zone back into attribute form.
func (z ImageDropZone) String() string {
	return z.ContentID + "|" + z.ContentPath + "|" + z.Locale
}
