package parser

import (
	"go/token"
	"go/types"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/seitarof/gen-ext/internal/annotation"
)

// ExtensionInfo is one struct type marked with an extension directive.
type ExtensionInfo struct {
	Name    string
	PkgPath string
	PkgName string
	Tag     annotation.Extension
	Doc     string
	Methods []*MethodInfo
	Pos     token.Position
	Type    *types.Named
}

// QualifiedName returns "<import path>.<Name>".
func (e *ExtensionInfo) QualifiedName() string {
	return e.PkgPath + "." + e.Name
}

// MethodInfo is one annotated method, in declaration order.
type MethodInfo struct {
	Name   string
	Params []ParamInfo
	// Result is the first result type, nil for methods without results.
	Result      types.Type
	ResultCount int
	Doc         string
	Deprecated  bool
	Exported    bool
	Pos         token.Position
	// EmbedFrom names the embedded struct that declared a promoted method.
	EmbedFrom string

	Event    *annotation.Event
	Function *annotation.Function
	Property *annotation.Property
	Designer *annotation.DesignerProperty
	Assets   []annotation.Asset
	Options  []OptionsTag
}

// ParamInfo is one method parameter.
type ParamInfo struct {
	Name string
	Type types.Type
}

// OptionsTag is an options directive with its type expression resolved.
type OptionsTag struct {
	annotation.Options
	Type types.Type
}

// IsVoid reports whether the method has no results.
func (m *MethodInfo) IsVoid() bool {
	return m.ResultCount == 0
}

// PropertyName is the block name of a property accessor: the name
// argument when set, "X" for a setter named SetX, else the method name.
func (m *MethodInfo) PropertyName() string {
	if m.Property != nil && m.Property.Name != "" {
		return m.Property.Name
	}
	if m.IsVoid() && len(m.Params) == 1 {
		if rest, ok := strings.CutPrefix(m.Name, "Set"); ok && rest != "" {
			if r, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(r) {
				return rest
			}
		}
	}
	return m.Name
}

// AssetFor returns the asset directive for a parameter, or for the
// value itself when param is empty.
func (m *MethodInfo) AssetFor(param string) *annotation.Asset {
	for i := range m.Assets {
		if m.Assets[i].Param == param {
			return &m.Assets[i]
		}
	}
	return nil
}

// OptionsFor returns the resolved options type for a parameter, or for
// the value itself when param is empty.
func (m *MethodInfo) OptionsFor(param string) types.Type {
	for _, o := range m.Options {
		if o.Param == param {
			return o.Type
		}
	}
	return nil
}
