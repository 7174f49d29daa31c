// Package introspect reads the constants of option-list enum types.
package introspect

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"strings"
)

var (
	// ErrNotFound is returned when the type does not exist.
	ErrNotFound = errors.New("enum type not found")
	// ErrNotEnum is returned when the type has no exported constants.
	ErrNotEnum = errors.New("type declares no constants")
	// ErrNoAccessor is returned when ToUnderlyingValue is missing or malformed.
	ErrNoAccessor = errors.New("type has no ToUnderlyingValue accessor")
	// ErrComputedAccessor is returned by source-only introspection when
	// ToUnderlyingValue computes its result instead of converting the receiver.
	ErrComputedAccessor = errors.New("ToUnderlyingValue must be run to resolve values")
)

// EnumRef names an enum type by import path and type name.
type EnumRef struct {
	PkgPath string
	Name    string
}

// FQN returns "<import path>.<Name>".
func (r EnumRef) FQN() string {
	return r.PkgPath + "." + r.Name
}

func (r EnumRef) String() string { return r.FQN() }

// ParseRef splits a fully-qualified type name at its last dot.
func ParseRef(fqn string) (EnumRef, error) {
	i := strings.LastIndex(fqn, ".")
	if i <= 0 || i == len(fqn)-1 {
		return EnumRef{}, fmt.Errorf("invalid qualified name %q", fqn)
	}
	return EnumRef{PkgPath: fqn[:i], Name: fqn[i+1:]}, nil
}

// Constant is one enum constant in declaration order.
type Constant struct {
	Name string
	// Value is the textual form of the constant's underlying value.
	Value      string
	Default    bool
	Deprecated bool
	Pos        token.Position
}

// Enum is the introspected shape of an option-list type.
type Enum struct {
	Ref EnumRef
	// UnderlyingType is the result type of ToUnderlyingValue.
	UnderlyingType string
	Constants      []Constant
}

// Introspector loads enum metadata.
type Introspector interface {
	Introspect(ctx context.Context, ref EnumRef) (*Enum, error)
}
