// Package yail projects Go types onto the socket types of the blocks editor.
package yail

import (
	"errors"
	"fmt"
	"go/types"
)

// Socket type tags.
const (
	Number        = "number"
	Boolean       = "boolean"
	Char          = "char"
	Text          = "text"
	Any           = "any"
	InstantInTime = "InstantInTime"
	List          = "list"
	Dictionary    = "dictionary"
	YailObject    = "yailobject"
	Component     = "component"
	Continuation  = "continuation"
)

// ErrUnconvertible is returned when no rule matches a type.
var ErrUnconvertible = errors.New("cannot convert Go type to YAIL type")

// Request carries the projection context of one type.
type Request struct {
	// IsHelper is set when a helper (option list) applies to the value.
	IsHelper bool
	// AllowBoxed enables pointer-to-basic projection, used for
	// continuation payloads.
	AllowBoxed bool
}

// Projector maps Go types to socket type tags.
type Projector interface {
	TypeOf(t types.Type, req Request) (string, error)
}

// Rule tries to project one type.
type Rule interface {
	Name() string
	Try(t types.Type, req Request) (string, bool)
}

type projectorImpl struct {
	rules []Rule
}

// New builds a projector with a rule chain. The first matching rule wins.
func New(rules ...Rule) Projector {
	return &projectorImpl{rules: rules}
}

func (p *projectorImpl) TypeOf(t types.Type, req Request) (string, error) {
	if t == nil {
		return "", fmt.Errorf("%w: missing type", ErrUnconvertible)
	}
	t = types.Unalias(t)
	for _, rule := range p.rules {
		if tag, ok := rule.Try(t, req); ok {
			return tag, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnconvertible, types.TypeString(t, nil))
}

// QualifiedName returns "<import path>.<Name>" for named types (the generic
// origin for instances) and the type string otherwise.
func QualifiedName(t types.Type) string {
	t = types.Unalias(t)
	n, ok := t.(*types.Named)
	if !ok {
		return types.TypeString(t, nil)
	}
	obj := n.Origin().Obj()
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// SimpleName returns the unqualified name of a named type.
func SimpleName(t types.Type) string {
	if n, ok := types.Unalias(t).(*types.Named); ok {
		return n.Origin().Obj().Name()
	}
	return types.TypeString(t, nil)
}

// ContinuationPayload returns T for runtime Continuation[T].
func ContinuationPayload(t types.Type, runtimePath string) (types.Type, bool) {
	n, ok := types.Unalias(t).(*types.Named)
	if !ok || QualifiedName(n) != runtimePath+".Continuation" {
		return nil, false
	}
	args := n.TypeArgs()
	if args == nil || args.Len() != 1 {
		return nil, false
	}
	return args.At(0), true
}

// IsVoidPayload reports whether t is struct{}, the payload of a
// continuation that completes without a value.
func IsVoidPayload(t types.Type) bool {
	st, ok := types.Unalias(t).(*types.Struct)
	return ok && st.NumFields() == 0
}
