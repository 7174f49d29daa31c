package yail

import (
	"go/types"
)

// DefaultRules returns built-in rules in priority order. runtimePath is the
// import path of the runtime support package; componentTypes lists extra
// fully-qualified names that always project to "component".
func DefaultRules(runtimePath string, componentTypes ...string) []Rule {
	allow := make(map[string]bool, len(componentTypes))
	for _, name := range componentTypes {
		allow[name] = true
	}
	return []Rule{
		&NumericRule{},
		&BooleanRule{},
		&CharRule{},
		&BoxedRule{},
		&WellKnownRule{RuntimePath: runtimePath},
		&ComponentRule{RuntimePath: runtimePath, Allow: allow},
		&EnumRule{},
	}
}

func basicOf(t types.Type) (*types.Basic, bool) {
	b, ok := t.(*types.Basic)
	if !ok || b.Info()&types.IsUntyped != 0 {
		return nil, false
	}
	return b, true
}

func isRune(b *types.Basic) bool {
	return b.Name() == "rune"
}

// NumericRule: integer and float kinds -> number.
type NumericRule struct{}

func (r *NumericRule) Name() string { return "numeric" }

func (r *NumericRule) Try(t types.Type, _ Request) (string, bool) {
	b, ok := basicOf(t)
	if !ok || isRune(b) {
		return "", false
	}
	if b.Info()&(types.IsInteger|types.IsFloat) != 0 {
		return Number, true
	}
	return "", false
}

// BooleanRule: bool -> boolean.
type BooleanRule struct{}

func (r *BooleanRule) Name() string { return "boolean" }

func (r *BooleanRule) Try(t types.Type, _ Request) (string, bool) {
	if b, ok := basicOf(t); ok && b.Info()&types.IsBoolean != 0 {
		return Boolean, true
	}
	return "", false
}

// CharRule: rune -> char.
type CharRule struct{}

func (r *CharRule) Name() string { return "char" }

func (r *CharRule) Try(t types.Type, _ Request) (string, bool) {
	if b, ok := basicOf(t); ok && isRune(b) {
		return Char, true
	}
	return "", false
}

// BoxedRule: pointer to basic -> boxed primitive name, only when allowed.
type BoxedRule struct{}

func (r *BoxedRule) Name() string { return "boxed" }

func (r *BoxedRule) Try(t types.Type, req Request) (string, bool) {
	if !req.AllowBoxed {
		return "", false
	}
	ptr, ok := t.(*types.Pointer)
	if !ok {
		return "", false
	}
	b, ok := basicOf(types.Unalias(ptr.Elem()))
	if !ok {
		return "", false
	}
	if isRune(b) {
		return Char, true
	}
	switch b.Kind() {
	case types.Bool:
		return Boolean, true
	case types.Int8, types.Uint8:
		return "byte", true
	case types.Int16, types.Uint16:
		return "short", true
	case types.Int, types.Int32, types.Uint, types.Uint32:
		return "int", true
	case types.Int64, types.Uint64:
		return "long", true
	case types.Float32:
		return "float", true
	case types.Float64:
		return "double", true
	}
	return "", false
}

// WellKnownRule maps fixed types: any, string, time.Time, runtime containers
// and unnamed slices/maps.
type WellKnownRule struct {
	RuntimePath string
}

func (r *WellKnownRule) Name() string { return "well-known" }

func (r *WellKnownRule) Try(t types.Type, _ Request) (string, bool) {
	switch v := t.(type) {
	case *types.Interface:
		if v.Empty() {
			return Any, true
		}
	case *types.Basic:
		if v.Info()&types.IsString != 0 && v.Info()&types.IsUntyped == 0 {
			return Text, true
		}
	case *types.Slice, *types.Array:
		return List, true
	case *types.Map:
		return Dictionary, true
	case *types.Named:
		switch QualifiedName(v) {
		case "time.Time":
			return InstantInTime, true
		case r.RuntimePath + ".YailList":
			return List, true
		case r.RuntimePath + ".YailDictionary":
			return Dictionary, true
		case r.RuntimePath + ".YailObject":
			return YailObject, true
		case r.RuntimePath + ".Component":
			return Component, true
		case r.RuntimePath + ".Continuation":
			return Continuation, true
		}
	}
	return "", false
}

// ComponentRule: named types implementing runtime.Component -> component.
type ComponentRule struct {
	RuntimePath string
	Allow       map[string]bool
}

func (r *ComponentRule) Name() string { return "component" }

func (r *ComponentRule) Try(t types.Type, _ Request) (string, bool) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}
	n, ok := t.(*types.Named)
	if !ok {
		return "", false
	}
	if r.Allow[QualifiedName(n)] {
		return Component, true
	}
	iface := lookupInterface(n.Obj().Pkg(), r.RuntimePath, "Component")
	if iface == nil {
		return "", false
	}
	if types.Implements(n, iface) || types.Implements(types.NewPointer(n), iface) {
		return Component, true
	}
	return "", false
}

// EnumRule: any named type with a helper -> "<FQN>Enum".
type EnumRule struct{}

func (r *EnumRule) Name() string { return "enum" }

func (r *EnumRule) Try(t types.Type, req Request) (string, bool) {
	if !req.IsHelper {
		return "", false
	}
	if _, ok := t.(*types.Named); !ok {
		return "", false
	}
	return QualifiedName(t) + "Enum", true
}

// lookupInterface finds path.name among from and its transitive imports.
func lookupInterface(from *types.Package, path, name string) *types.Interface {
	if from == nil {
		return nil
	}
	seen := map[*types.Package]bool{}
	queue := []*types.Package{from}
	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]
		if seen[pkg] {
			continue
		}
		seen[pkg] = true
		if pkg.Path() == path {
			obj := pkg.Scope().Lookup(name)
			if obj == nil {
				return nil
			}
			iface, _ := obj.Type().Underlying().(*types.Interface)
			return iface
		}
		queue = append(queue, pkg.Imports()...)
	}
	return nil
}
