// Package block classifies annotated methods into editor blocks.
package block

import (
	"go/types"

	"github.com/goccy/go-json"

	"github.com/seitarof/gen-ext/internal/helper"
)

// AccessType tells the editor which property blocks to render.
type AccessType string

const (
	ReadOnly  AccessType = "read-only"
	WriteOnly AccessType = "write-only"
	ReadWrite AccessType = "read-write"
	Invisible AccessType = "invisible"
)

// Parameter is one event or function parameter.
type Parameter struct {
	Name   string
	Type   string
	Helper *helper.Helper

	goType types.Type
}

func (p Parameter) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name   string         `json:"name"`
		Type   string         `json:"type"`
		Helper *helper.Helper `json:"helper,omitempty"`
	}{p.Name, p.Type, p.Helper})
}

// Event is a block fired by the extension.
type Event struct {
	Name        string
	Description string
	Deprecated  bool
	Params      []Parameter
}

func (e *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Deprecated  string      `json:"deprecated"`
		Name        string      `json:"name"`
		Description string      `json:"description"`
		Params      []Parameter `json:"params"`
	}{boolString(e.Deprecated), e.Name, e.Description, nonNil(e.Params)})
}

// Function is a callable block. ReturnType is empty for functions without
// a result.
type Function struct {
	Name         string
	Description  string
	Deprecated   bool
	ReturnType   string
	Params       []Parameter
	Continuation bool
	Helper       *helper.Helper
}

func (f *Function) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Deprecated   string         `json:"deprecated"`
		Name         string         `json:"name"`
		Description  string         `json:"description"`
		ReturnType   string         `json:"returnType,omitempty"`
		Params       []Parameter    `json:"params"`
		Continuation bool           `json:"continuation,omitempty"`
		Helper       *helper.Helper `json:"helper,omitempty"`
	}{boolString(f.Deprecated), f.Name, f.Description, f.ReturnType, nonNil(f.Params), f.Continuation, f.Helper})
}

// Property is one logical property, merged from its getter and setter.
type Property struct {
	Name        string
	Description string
	Deprecated  bool
	Type        string
	Access      AccessType
	Helper      *helper.Helper
}

func (p *Property) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Deprecated  string         `json:"deprecated"`
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Type        string         `json:"type"`
		Access      AccessType     `json:"rw"`
		Helper      *helper.Helper `json:"helper,omitempty"`
	}{boolString(p.Deprecated), p.Name, p.Description, p.Type, p.Access, p.Helper})
}

// DesignerProperty exposes a property setter in the designer panel.
type DesignerProperty struct {
	Name         string
	DefaultValue string
	EditorType   string
	EditorArgs   []string
	AlwaysSend   bool
}

func (d *DesignerProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name         string   `json:"name"`
		DefaultValue string   `json:"defaultValue"`
		EditorType   string   `json:"editorType"`
		EditorArgs   []string `json:"editorArgs"`
		AlwaysSend   string   `json:"alwaysSend"`
	}{d.Name, d.DefaultValue, d.EditorType, nonNil(d.EditorArgs), boolString(d.AlwaysSend)})
}

// Blocks are the classified blocks of one extension, in declaration order.
type Blocks struct {
	Events             []*Event
	Functions          []*Function
	Properties         []*Property
	DesignerProperties []*DesignerProperty
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
