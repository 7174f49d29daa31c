package block

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"strings"

	"github.com/seitarof/gen-ext/internal/annotation"
	"github.com/seitarof/gen-ext/internal/diag"
	"github.com/seitarof/gen-ext/internal/helper"
	"github.com/seitarof/gen-ext/internal/matcher"
	"github.com/seitarof/gen-ext/internal/naming"
	"github.com/seitarof/gen-ext/internal/parser"
	"github.com/seitarof/gen-ext/internal/yail"
)

// Builder turns annotated methods into blocks, recording diagnostics on
// the way. Structural problems are reported and classification continues;
// only a failure to load option-list metadata aborts Build.
type Builder struct {
	projector   yail.Projector
	helpers     *helper.Resolver
	matcher     matcher.AccessorMatcher
	reporter    *diag.Reporter
	runtimePath string
}

// NewBuilder returns a builder. runtimePath is the import path of the
// runtime support package, used to recognise continuations.
func NewBuilder(
	projector yail.Projector,
	helpers *helper.Resolver,
	accessors matcher.AccessorMatcher,
	reporter *diag.Reporter,
	runtimePath string,
) *Builder {
	return &Builder{
		projector:   projector,
		helpers:     helpers,
		matcher:     accessors,
		reporter:    reporter,
		runtimePath: runtimePath,
	}
}

// Build classifies methods, which must be in declaration order.
func (b *Builder) Build(ctx context.Context, methods []*parser.MethodInfo) (*Blocks, error) {
	out := &Blocks{}
	for _, m := range methods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if m.Event != nil {
			ev, err := b.event(ctx, m)
			if err != nil {
				return nil, err
			}
			out.Events = append(out.Events, ev)
		}
		if m.Function != nil {
			fn, err := b.function(ctx, m)
			if err != nil {
				return nil, err
			}
			out.Functions = append(out.Functions, fn)
		}
	}

	slots, err := b.properties(ctx, methods, out)
	if err != nil {
		return nil, err
	}
	out.DesignerProperties = b.designerProperties(methods, slots)
	return out, nil
}

func (b *Builder) event(ctx context.Context, m *parser.MethodInfo) (*Event, error) {
	b.checkDeclaration("Event", m.Name, m)
	params, err := b.params(ctx, "Event", m)
	if err != nil {
		return nil, err
	}
	desc := description(m.Event.Description, m.Doc)
	if desc == "" && !m.Deprecated {
		b.reporter.Warn(diag.MissingDescription, m.Pos, "Event %s has no description", m.Name)
	}
	return &Event{
		Name:        m.Name,
		Description: desc,
		Deprecated:  m.Deprecated,
		Params:      params,
	}, nil
}

func (b *Builder) function(ctx context.Context, m *parser.MethodInfo) (*Function, error) {
	b.checkDeclaration("Function", m.Name, m)
	params, err := b.params(ctx, "Function", m)
	if err != nil {
		return nil, err
	}
	desc := description(m.Function.Description, m.Doc)
	if desc == "" && !m.Deprecated {
		b.reporter.Warn(diag.MissingDescription, m.Pos, "Function %s has no description", m.Name)
	}

	fn := &Function{
		Name:        m.Name,
		Description: desc,
		Deprecated:  m.Deprecated,
	}

	var continuations []Parameter
	for _, p := range params {
		if p.Type == yail.Continuation {
			continuations = append(continuations, p)
			continue
		}
		fn.Params = append(fn.Params, p)
	}
	if len(continuations) > 1 {
		b.reporter.Error(diag.ContinuationMisuse, m.Pos,
			"Function %s should not have more than one continuation parameter", m.Name)
	}

	valueType := m.Result
	allowBoxed := false
	if len(continuations) > 0 {
		if !m.IsVoid() {
			b.reporter.Error(diag.ContinuationMisuse, m.Pos,
				"Function %s has a continuation and must not return a value", m.Name)
		}
		payload, ok := yail.ContinuationPayload(continuations[0].goType, b.runtimePath)
		switch {
		case !ok:
			b.reporter.Error(diag.ContinuationMisuse, m.Pos,
				"continuation parameter %s of %s must be instantiated with a type", continuations[0].Name, m.Name)
			valueType = nil
		case yail.IsVoidPayload(payload):
			valueType = nil
		default:
			valueType = payload
			allowBoxed = true
			fn.Continuation = true
		}
	}

	target := helper.Target{Type: valueType}
	switch {
	case valueType != nil:
		target.Asset = assetData(m.AssetFor(""))
		target.Options = m.OptionsFor("")
	case m.AssetFor("") != nil || m.OptionsFor("") != nil:
		b.reporter.Error(diag.ArityMismatch, m.Pos,
			"Function %s has a return value helper but returns nothing", m.Name)
	}
	h, err := b.resolveHelper(ctx, m, target)
	if err != nil {
		return nil, err
	}
	fn.Helper = h

	if valueType != nil {
		fn.ReturnType = b.project(m, valueType, yail.Request{IsHelper: h != nil, AllowBoxed: allowBoxed},
			"return value of "+m.Name)
	}
	return fn, nil
}

// params projects every parameter, continuations included.
func (b *Builder) params(ctx context.Context, kind string, m *parser.MethodInfo) ([]Parameter, error) {
	out := make([]Parameter, 0, len(m.Params))
	for i, p := range m.Params {
		target := helper.Target{Type: p.Type}
		switch {
		case p.Name == "" || p.Name == "_":
			b.reporter.Error(diag.Visibility, m.Pos,
				"%s parameter #%d of %s must be named", kind, i+1, m.Name)
		case !naming.IsCamelCase(p.Name):
			b.reporter.Warn(diag.NamingConvention, m.Pos,
				"%s parameter %s of %s should follow camelCase naming convention, e.g. %s",
				kind, p.Name, m.Name, naming.SuggestCamel(p.Name))
			fallthrough
		default:
			target.Asset = assetData(m.AssetFor(p.Name))
			target.Options = m.OptionsFor(p.Name)
		}
		h, err := b.resolveHelper(ctx, m, target)
		if err != nil {
			return nil, err
		}
		out = append(out, Parameter{
			Name:   p.Name,
			Type:   b.project(m, p.Type, yail.Request{IsHelper: h != nil}, "parameter "+p.Name+" of "+m.Name),
			Helper: h,
			goType: p.Type,
		})
	}
	return out, nil
}

// checkDeclaration runs the checks shared by every block kind.
func (b *Builder) checkDeclaration(kind, name string, m *parser.MethodInfo) {
	if !naming.IsPascalCase(name) {
		b.reporter.Warn(diag.NamingConvention, m.Pos,
			"%s %s should follow PascalCase naming convention, e.g. %s", kind, name, naming.SuggestPascal(name))
	}
	if !m.Exported {
		b.reporter.Error(diag.Visibility, m.Pos, "%s %s should be exported", kind, m.Name)
	}
	if m.ResultCount > 1 {
		b.reporter.Error(diag.ArityMismatch, m.Pos, "%s %s should return at most one value", kind, m.Name)
	}
}

func (b *Builder) project(m *parser.MethodInfo, t types.Type, req yail.Request, what string) string {
	tag, err := b.projector.TypeOf(t, req)
	if err != nil {
		b.reporter.Error(diag.UnresolvableType, m.Pos, "cannot convert %s to a YAIL type: %v", what, err)
		return ""
	}
	return tag
}

// resolveHelper records helper failures as diagnostics and returns them,
// since the referencing block cannot be serialized without the enum.
func (b *Builder) resolveHelper(ctx context.Context, m *parser.MethodInfo, target helper.Target) (*helper.Helper, error) {
	h, err := b.helpers.Resolve(ctx, target)
	if err == nil {
		return h, nil
	}
	kind := diag.ClassLoad
	if errors.Is(err, helper.ErrAmbiguousDefault) {
		kind = diag.AmbiguousDefaultOption
	}
	b.reporter.Error(kind, m.Pos, "%s: %v", m.Name, err)
	return nil, fmt.Errorf("%s: %s: %w", m.Pos, m.Name, err)
}

func assetData(tag *annotation.Asset) *helper.AssetData {
	if tag == nil {
		return nil
	}
	return &helper.AssetData{Filter: tag.Filter}
}

func description(tagged, doc string) string {
	if d := strings.TrimSpace(tagged); d != "" {
		return d
	}
	return strings.TrimSpace(doc)
}
