package shared

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ContainerDefinition describes a named drop zone as announced by the server.
type ContainerDefinition struct {
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Width       int        `json:"width"`
	MaxElements int        `json:"maxElements"`
	DetailView  bool       `json:"detailView,omitempty"`
	ParentName  string     `json:"parentName,omitempty"`
	Elements    []ClientID `json:"elements,omitempty"`
}

// Validate checks the fields the editor relies on.
func (d ContainerDefinition) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = validation.NewError("editor.container.name_required", "container name is required")
	}
	if strings.TrimSpace(d.Type) == "" {
		errs["type"] = validation.NewError("editor.container.type_required", "container type is required")
	}
	if d.MaxElements < 0 {
		errs["maxElements"] = validation.NewError("editor.container.max_elements_invalid", "maxElements must not be negative")
	}
	if d.Width < -1 {
		errs["width"] = validation.NewError("editor.container.width_invalid", "width must be -1 or positive")
	}
	if d.ParentName != "" && d.ParentName == d.Name {
		errs["parentName"] = validation.NewError("editor.container.parent_self", "container cannot be its own parent")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Accepts reports whether another element may be added given count elements.
// A MaxElements of zero means unlimited.
func (d ContainerDefinition) Accepts(count int) bool {
	return d.MaxElements <= 0 || count < d.MaxElements
}

// ContainerElement is one entry of a container in a save request.
type ContainerElement struct {
	ClientID ClientID          `json:"clientId"`
	NewType  string            `json:"newType,omitempty"`
	SitePath string            `json:"sitePath,omitempty"`
	Settings map[string]string `json:"settings,omitempty"`
}

// New reports whether the element has not been created on the server yet.
func (e ContainerElement) New() bool {
	return e.NewType != ""
}

// Container is the save-time snapshot of one container in DOM order.
type Container struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Width       int                `json:"width"`
	MaxElements int                `json:"maxElements"`
	DetailView  bool               `json:"detailView,omitempty"`
	Elements    []ContainerElement `json:"elements"`
}

// GroupContainer is the save payload of a group container.
type GroupContainer struct {
	ClientID    ClientID           `json:"clientId"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Types       []string           `json:"types,omitempty"`
	Elements    []ContainerElement `json:"elements"`
}
