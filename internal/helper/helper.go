// Package helper resolves editor helpers attached to block values: asset
// pickers and option-list dropdowns.
package helper

import (
	"go/types"

	"github.com/goccy/go-json"
)

// Kind identifies the helper variant.
type Kind string

const (
	Asset      Kind = "ASSET"
	OptionList Kind = "OPTION_LIST"
)

// Helper is an attached helper. Data is AssetData or *OptionListData.
type Helper struct {
	Kind Kind
	Data Data
}

// Data is the payload of a helper.
type Data interface {
	helperData()
}

// AssetData lists allowed file extensions; empty means any.
type AssetData struct {
	Filter []string
}

func (AssetData) helperData() {}

func (d AssetData) MarshalJSON() ([]byte, error) {
	if len(d.Filter) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(struct {
		Filter []string `json:"filter"`
	}{d.Filter})
}

// Option is one dropdown entry.
type Option struct {
	Name        string
	Value       string
	Deprecated  bool
	Description string
}

func (o Option) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string `json:"name"`
		Deprecated  string `json:"deprecated"`
		Value       string `json:"value"`
		Description string `json:"description"`
	}{o.Name, boolString(o.Deprecated), o.Value, o.Description})
}

// OptionListData describes an option-list enum. Instances are shared per
// enum type.
type OptionListData struct {
	ClassName      string
	Key            string
	Tag            string
	UnderlyingType string
	DefaultOpt     string
	Options        []Option
}

func (*OptionListData) helperData() {}

func (d *OptionListData) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ClassName      string   `json:"className"`
		UnderlyingType string   `json:"underlyingType"`
		DefaultOpt     string   `json:"defaultOpt"`
		Options        []Option `json:"options"`
		Key            string   `json:"key"`
		Tag            string   `json:"tag"`
	}{d.ClassName, d.UnderlyingType, d.DefaultOpt, d.Options, d.Key, d.Tag})
}

func (h *Helper) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		Data Data `json:"data"`
	}{h.Kind, h.Data})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Target is a value site that may carry a helper: a parameter, a return
// value or a property.
type Target struct {
	Type types.Type
	// Asset is set when an asset directive names this site.
	Asset *AssetData
	// Options is the option-list type named by an options directive.
	Options types.Type
}

// Classify reports which helper kind applies to target, if any. An asset
// directive wins over an option list. Without an explicit options
// directive, a named type implementing the option-list accessor is used.
func Classify(target Target) (Kind, types.Type, bool) {
	if target.Asset != nil {
		return Asset, nil, true
	}
	if target.Options != nil {
		return OptionList, target.Options, true
	}
	if target.Type != nil && IsOptionList(target.Type) {
		return OptionList, target.Type, true
	}
	return "", nil, false
}

// IsOptionList reports whether t is a named type with a value accessor
// ToUnderlyingValue() returning a single value.
func IsOptionList(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	if _, ok := named.Underlying().(*types.Interface); ok {
		return false
	}
	obj, _, _ := types.LookupFieldOrMethod(named, false, named.Obj().Pkg(), "ToUnderlyingValue")
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}
	sig := fn.Type().(*types.Signature)
	return sig.Params().Len() == 0 && sig.Results().Len() == 1
}
