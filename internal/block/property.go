package block

import (
	"context"

	"github.com/seitarof/gen-ext/internal/diag"
	"github.com/seitarof/gen-ext/internal/helper"
	"github.com/seitarof/gen-ext/internal/matcher"
	"github.com/seitarof/gen-ext/internal/parser"
	"github.com/seitarof/gen-ext/internal/yail"
)

// accessor is the classified view of one getter or setter.
type accessor struct {
	method      *parser.MethodInfo
	description string
	typ         string
	helper      *helper.Helper
}

func (b *Builder) properties(ctx context.Context, methods []*parser.MethodInfo, out *Blocks) ([]*matcher.Accessors, error) {
	slots, dups := b.matcher.MatchAccessors(methods)
	for _, d := range dups {
		b.reporter.Error(diag.DuplicateAccessor, d.Second.Pos,
			"Property %s already has a %s declared at %s", d.Name, d.Role, d.First.Pos)
		// Classified for its own diagnostics only.
		if _, err := b.accessor(ctx, d.Name, d.Second); err != nil {
			return nil, err
		}
	}

	for _, slot := range slots {
		prop, err := b.property(ctx, slot)
		if err != nil {
			return nil, err
		}
		out.Properties = append(out.Properties, prop)
	}
	return slots, nil
}

func (b *Builder) property(ctx context.Context, slot *matcher.Accessors) (*Property, error) {
	classified := make([]*accessor, 0, len(slot.Declared))
	byMethod := map[*parser.MethodInfo]*accessor{}
	for _, m := range slot.Declared {
		acc, err := b.accessor(ctx, slot.Name, m)
		if err != nil {
			return nil, err
		}
		classified = append(classified, acc)
		byMethod[m] = acc
	}

	if slot.Getter != nil && slot.Setter != nil {
		g, s := byMethod[slot.Getter], byMethod[slot.Setter]
		if g.typ != "" && s.typ != "" && g.typ != s.typ {
			b.reporter.Error(diag.TypeMismatch, slot.Setter.Pos,
				"Property %s has inconsistent types across getter (%s) and setter (%s)", slot.Name, g.typ, s.typ)
		}
	}

	// The later declaration wins; blanks fall back to the earlier one.
	later := classified[len(classified)-1]
	earlier := classified[0]
	prop := &Property{
		Name:        slot.Name,
		Description: later.description,
		Deprecated:  later.method.Deprecated,
		Type:        later.typ,
		Access:      accessType(slot),
		Helper:      later.helper,
	}
	if prop.Description == "" {
		prop.Description = earlier.description
	}
	if prop.Type == "" {
		prop.Type = earlier.typ
	}
	if prop.Helper == nil {
		prop.Helper = earlier.helper
	}
	if prop.Description == "" {
		b.reporter.Warn(diag.MissingDescription, later.method.Pos, "Property %s has no description", slot.Name)
	}
	return prop, nil
}

// accessor validates one getter or setter and projects the value type: the
// parameter of a setter, the result of a getter.
func (b *Builder) accessor(ctx context.Context, name string, m *parser.MethodInfo) (*accessor, error) {
	b.checkDeclaration("Property", name, m)

	acc := &accessor{method: m, description: description(m.Property.Description, m.Doc)}

	target := helper.Target{Asset: assetData(m.AssetFor("")), Options: m.OptionsFor("")}
	what := "property " + name
	if matcher.RoleOf(m) == matcher.Setter {
		if len(m.Params) != 1 {
			b.reporter.Error(diag.ArityMismatch, m.Pos, "Property setter %s should have exactly 1 parameter", m.Name)
		}
		if len(m.Params) > 0 {
			p := m.Params[0]
			target.Type = p.Type
			if a := m.AssetFor(p.Name); a != nil {
				target.Asset = assetData(a)
			}
			if o := m.OptionsFor(p.Name); o != nil {
				target.Options = o
			}
		}
	} else {
		if len(m.Params) != 0 {
			b.reporter.Error(diag.ArityMismatch, m.Pos, "Property getter %s should have no parameters", m.Name)
		}
		target.Type = m.Result
	}

	h, err := b.resolveHelper(ctx, m, target)
	if err != nil {
		return nil, err
	}
	acc.helper = h
	if target.Type != nil {
		acc.typ = b.project(m, target.Type, yail.Request{IsHelper: h != nil}, what)
	}
	return acc, nil
}

// accessType derives the access type from which accessors are visible.
func accessType(slot *matcher.Accessors) AccessType {
	getter := slot.Getter != nil && slot.Getter.Property.UserVisible
	setter := slot.Setter != nil && slot.Setter.Property.UserVisible
	switch {
	case getter && setter:
		return ReadWrite
	case getter:
		return ReadOnly
	case setter:
		return WriteOnly
	default:
		return Invisible
	}
}

func (b *Builder) designerProperties(methods []*parser.MethodInfo, slots []*matcher.Accessors) []*DesignerProperty {
	var out []*DesignerProperty
	for _, m := range methods {
		if m.Designer == nil {
			continue
		}
		name := m.PropertyName()
		if slot, ok := matcher.Lookup(slots, name); !ok || slot.Setter == nil {
			b.reporter.Error(diag.MissingPairing, m.Pos,
				"designer property %s has no matching property setter", name)
			continue
		}
		out = append(out, &DesignerProperty{
			Name:         name,
			DefaultValue: m.Designer.DefaultValue,
			EditorType:   m.Designer.EditorType,
			EditorArgs:   m.Designer.EditorArgs,
			AlwaysSend:   m.Designer.AlwaysSend,
		})
	}
	return out
}
