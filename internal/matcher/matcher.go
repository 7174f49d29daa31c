package matcher

import (
	"github.com/seitarof/gen-ext/internal/parser"
)

// Role of a property accessor.
type Role string

const (
	Getter Role = "getter"
	Setter Role = "setter"
)

// RoleOf classifies a property method: methods without results are setters.
func RoleOf(m *parser.MethodInfo) Role {
	if m.IsVoid() {
		return Setter
	}
	return Getter
}

// Accessors holds the getter/setter pair of one property name.
type Accessors struct {
	Name   string
	Getter *parser.MethodInfo
	Setter *parser.MethodInfo
	// Declared lists the paired methods in declaration order.
	Declared []*parser.MethodInfo
}

// Duplicate is a second getter or second setter for one property name.
type Duplicate struct {
	Name   string
	Role   Role
	First  *parser.MethodInfo
	Second *parser.MethodInfo
}

// AccessorMatcher pairs property getters with setters.
type AccessorMatcher interface {
	MatchAccessors(methods []*parser.MethodInfo) ([]*Accessors, []Duplicate)
}

type accessorMatcherImpl struct{}

// New returns default accessor matcher.
func New() AccessorMatcher {
	return &accessorMatcherImpl{}
}

// MatchAccessors folds property methods into one slot per name, ordered by
// first appearance. Methods without a property directive are ignored.
func (m *accessorMatcherImpl) MatchAccessors(methods []*parser.MethodInfo) ([]*Accessors, []Duplicate) {
	slots := map[string]*Accessors{}
	var ordered []*Accessors
	var dups []Duplicate

	for _, method := range methods {
		if method.Property == nil {
			continue
		}
		name := method.PropertyName()
		slot, ok := slots[name]
		if !ok {
			slot = &Accessors{Name: name}
			slots[name] = slot
			ordered = append(ordered, slot)
		}

		role := RoleOf(method)
		current := &slot.Getter
		if role == Setter {
			current = &slot.Setter
		}
		if *current != nil {
			dups = append(dups, Duplicate{Name: name, Role: role, First: *current, Second: method})
			continue
		}
		*current = method
		slot.Declared = append(slot.Declared, method)
	}
	return ordered, dups
}

// Lookup returns the slot with the given name.
func Lookup(slots []*Accessors, name string) (*Accessors, bool) {
	for _, s := range slots {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
