package parser

import (
	"go/ast"
	"go/types"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

type methodCandidate struct {
	method    *MethodInfo
	fn        types.Object
	depth     int
	order     int
	ambiguous bool
}

// collectMethods returns the annotated methods of named followed by those
// promoted from embedded structs of the same package. A promoted method is
// kept only when the selector x.Name on *named resolves to it, so any
// shallower field or method hides it whether annotated or not. Two
// annotated methods at the same depth from different embeds are ambiguous
// and dropped.
func (p *parserImpl) collectMethods(
	pkg *packages.Package,
	named *types.Named,
	index map[string][]*ast.FuncDecl,
) ([]*MethodInfo, error) {
	candidates := map[string]methodCandidate{}
	order := 0
	visited := map[*types.Named]bool{}
	if err := collectPromoted(pkg, named, "", 0, index, candidates, &order, visited); err != nil {
		return nil, err
	}

	sorted := make([]methodCandidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.ambiguous {
			p.logger.Warn("ambiguous promoted method skipped",
				zap.String("extension", named.Obj().Name()),
				zap.String("method", cand.method.Name))
			continue
		}
		if sel, _, _ := types.LookupFieldOrMethod(types.NewPointer(named), false, pkg.Types, cand.method.Name); sel != cand.fn {
			p.logger.Debug("promoted method hidden by a shallower selector",
				zap.String("extension", named.Obj().Name()),
				zap.String("method", cand.method.Name),
				zap.String("from", cand.method.EmbedFrom))
			continue
		}
		sorted = append(sorted, cand)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].order < sorted[j].order })

	methods := make([]*MethodInfo, 0, len(sorted))
	for _, cand := range sorted {
		methods = append(methods, cand.method)
	}
	return methods, nil
}

func collectPromoted(
	pkg *packages.Package,
	named *types.Named,
	embedFrom string,
	depth int,
	index map[string][]*ast.FuncDecl,
	out map[string]methodCandidate,
	order *int,
	visited map[*types.Named]bool,
) error {
	if visited[named] {
		return nil
	}
	visited[named] = true

	for _, fd := range index[named.Obj().Name()] {
		m, err := parseMethod(pkg, fd)
		if err != nil {
			return err
		}
		if m == nil {
			continue
		}
		m.EmbedFrom = embedFrom
		addCandidate(out, m, pkg.TypesInfo.Defs[fd.Name], depth, order)
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil
	}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		embedded := resolveEmbedded(f.Type())
		if embedded == nil || embedded.Obj().Pkg() != pkg.Types {
			continue
		}
		if err := collectPromoted(pkg, embedded, embedded.Obj().Name(), depth+1, index, out, order, visited); err != nil {
			return err
		}
	}
	return nil
}

func addCandidate(out map[string]methodCandidate, m *MethodInfo, fn types.Object, depth int, order *int) {
	cand, exists := out[m.Name]
	if !exists || depth < cand.depth {
		out[m.Name] = methodCandidate{method: m, fn: fn, depth: depth, order: *order}
		*order = *order + 1
		return
	}
	if depth > cand.depth {
		return
	}
	cand.ambiguous = true
	out[m.Name] = cand
}

func resolveEmbedded(t types.Type) *types.Named {
	switch v := t.(type) {
	case *types.Alias:
		return resolveEmbedded(v.Rhs())
	case *types.Named:
		if _, ok := v.Underlying().(*types.Struct); ok {
			return v
		}
	case *types.Pointer:
		return resolveEmbedded(v.Elem())
	}
	return nil
}
