// Package pagedata decodes the page description the server embeds next to
// the rendered container page.
package pagedata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-editor/internal/shared"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrPageDataInvalid    = errors.New("pagedata: invalid page data")
	ErrDuplicateContainer = errors.New("pagedata: duplicate container name")
	ErrUnknownParent      = errors.New("pagedata: unknown parent container")
)

//go:embed schema.json
var schemaSource []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Issue is a single validation failure.
type Issue struct {
	Location string
	Message  string
}

// ValidationError lists the schema violations of a page data blob.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return ErrPageDataInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrPageDataInvalid
}

// PageData describes the page being edited.
type PageData struct {
	PageID         string                       `json:"pageId"`
	DetailID       string                       `json:"detailId,omitempty"`
	Locale         string                       `json:"locale"`
	RequestParams  string                       `json:"requestParams,omitempty"`
	SitePath       string                       `json:"sitePath,omitempty"`
	NoEditReason   string                       `json:"noEditReason,omitempty"`
	LastModified   int64                        `json:"lastModified"`
	ToolbarVisible bool                         `json:"toolbarVisible"`
	Containers     []shared.ContainerDefinition `json:"containers"`
}

// Parse validates raw against the page data schema and decodes it.
func Parse(raw []byte) (*PageData, error) {
	compiled, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	var generic any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageDataInvalid, err)
	}
	if err := compiled.Validate(generic); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return nil, &ValidationError{Issues: collectIssues(validationErr)}
		}
		return nil, fmt.Errorf("%w: %v", ErrPageDataInvalid, err)
	}

	var page PageData
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageDataInvalid, err)
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return &page, nil
}

// Validate checks cross-container constraints the schema cannot express.
func (p *PageData) Validate() error {
	seen := make(map[string]struct{}, len(p.Containers))
	for _, def := range p.Containers {
		if err := def.Validate(); err != nil {
			return fmt.Errorf("%w: container %q: %v", ErrPageDataInvalid, def.Name, err)
		}
		if _, dup := seen[def.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateContainer, def.Name)
		}
		seen[def.Name] = struct{}{}
	}
	for _, def := range p.Containers {
		if def.ParentName == "" {
			continue
		}
		if _, ok := seen[def.ParentName]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParent, def.ParentName)
		}
	}
	return nil
}

// Container returns the named definition.
func (p *PageData) Container(name string) (shared.ContainerDefinition, bool) {
	for _, def := range p.Containers {
		if def.Name == name {
			return def, true
		}
	}
	return shared.ContainerDefinition{}, false
}

// ContainerMap indexes the definitions by name.
func (p *PageData) ContainerMap() map[string]shared.ContainerDefinition {
	out := make(map[string]shared.ContainerDefinition, len(p.Containers))
	for _, def := range p.Containers {
		out[def.Name] = def
	}
	return out
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if schemaErr = compiler.AddResource("pagedata.json", bytes.NewReader(schemaSource)); schemaErr != nil {
			return
		}
		schema, schemaErr = compiler.Compile("pagedata.json")
	})
	return schema, schemaErr
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
