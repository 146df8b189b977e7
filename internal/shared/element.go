package shared

import "maps"

// ElementData is the client view of one container element as delivered by
// the container-page service.
type ElementData struct {
	ClientID              ClientID          `json:"clientId"`
	ResourceType          string            `json:"resourceType"`
	SitePath              string            `json:"sitePath,omitempty"`
	Title                 string            `json:"title,omitempty"`
	Contents              map[string]string `json:"contents,omitempty"`
	New                   bool              `json:"new,omitempty"`
	GroupContainer        bool              `json:"groupContainer,omitempty"`
	SubItems              []ClientID        `json:"subItems,omitempty"`
	Settings              map[string]string `json:"settings,omitempty"`
	HasViewPermission     bool              `json:"hasViewPermission"`
	HasWritePermission    bool              `json:"hasWritePermission"`
	HasProperties         bool              `json:"hasProperties,omitempty"`
	ReleasedAndNotExpired bool              `json:"releasedAndNotExpired"`
	NoEditReason          string            `json:"noEditReason,omitempty"`
	PublishLocked         bool              `json:"publishLocked,omitempty"`
}

// ContentFor returns the rendered HTML for the named container.
func (e *ElementData) ContentFor(container string) (string, bool) {
	if e == nil || e.Contents == nil {
		return "", false
	}
	content, ok := e.Contents[container]
	return content, ok
}

// Editable reports whether UI edit actions are allowed for the element.
func (e *ElementData) Editable() bool {
	return e != nil && e.NoEditReason == "" && e.HasWritePermission
}

// Clone returns a deep copy.
func (e *ElementData) Clone() *ElementData {
	if e == nil {
		return nil
	}
	cloned := *e
	cloned.Contents = maps.Clone(e.Contents)
	cloned.Settings = maps.Clone(e.Settings)
	if e.SubItems != nil {
		cloned.SubItems = append([]ClientID(nil), e.SubItems...)
	}
	return &cloned
}
