package parser

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/seitarof/gen-ext/internal/annotation"
)

// Parser extracts extension declarations from Go packages.
type Parser interface {
	Parse(ctx context.Context, dir string, patterns ...string) ([]*ExtensionInfo, error)
}

type parserImpl struct {
	logger *zap.Logger
}

// New returns default parser. A nil logger discards output.
func New(logger *zap.Logger) Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &parserImpl{logger: logger}
}

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedModule

func (p *parserImpl) Parse(ctx context.Context, dir string, patterns ...string) ([]*ExtensionInfo, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	pkgs, err := p.loadPackages(ctx, dir, patterns)
	if err != nil {
		return nil, err
	}

	var result []*ExtensionInfo
	for _, pkg := range pkgs {
		infos, err := p.parsePackage(pkg)
		if err != nil {
			return nil, err
		}
		result = append(result, infos...)
	}
	return result, nil
}

func (p *parserImpl) loadPackages(ctx context.Context, dir string, patterns []string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    loadMode,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages %v: %w", patterns, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages match %v", patterns)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %q has compilation errors: %v", pkg.PkgPath, pkg.Errors[0])
		}
		if pkg.Types == nil || pkg.TypesInfo == nil {
			return nil, fmt.Errorf("type info unavailable for package %q", pkg.PkgPath)
		}
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })
	return pkgs, nil
}

// parsePackage returns the extensions of one package in source order.
func (p *parserImpl) parsePackage(pkg *packages.Package) ([]*ExtensionInfo, error) {
	methods := indexMethods(pkg)

	var result []*ExtensionInfo
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && !gd.Lparen.IsValid() {
					doc = gd.Doc
				}
				ds, err := annotation.Parse(doc)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", pkg.Fset.Position(ts.Pos()), err)
				}
				d, ok := annotation.Find(ds, annotation.NameExtension)
				if !ok {
					continue
				}
				info, err := p.parseExtension(pkg, ts, doc, d, methods)
				if err != nil {
					return nil, err
				}
				result = append(result, info)
			}
		}
	}
	return result, nil
}

func (p *parserImpl) parseExtension(
	pkg *packages.Package,
	ts *ast.TypeSpec,
	doc *ast.CommentGroup,
	d annotation.Directive,
	methods map[string][]*ast.FuncDecl,
) (*ExtensionInfo, error) {
	pos := pkg.Fset.Position(ts.Pos())
	tag, err := d.Extension()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pos, err)
	}

	obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%s: type %s not found", pos, ts.Name.Name)
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%s: extension %s must be a defined type", pos, ts.Name.Name)
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil, fmt.Errorf("%s: extension %s must be a struct type", pos, ts.Name.Name)
	}

	collected, err := p.collectMethods(pkg, named, methods)
	if err != nil {
		return nil, err
	}

	return &ExtensionInfo{
		Name:    ts.Name.Name,
		PkgPath: pkg.Types.Path(),
		PkgName: pkg.Name,
		Tag:     tag,
		Doc:     annotation.Doc(doc),
		Methods: collected,
		Pos:     pos,
		Type:    named,
	}, nil
}

// indexMethods groups method declarations by receiver base type name,
// in source order.
func indexMethods(pkg *packages.Package) map[string][]*ast.FuncDecl {
	out := map[string][]*ast.FuncDecl{}
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
				continue
			}
			if name := receiverName(fd.Recv.List[0].Type); name != "" {
				out[name] = append(out[name], fd)
			}
		}
	}
	return out
}

func receiverName(expr ast.Expr) string {
	switch v := expr.(type) {
	case *ast.StarExpr:
		return receiverName(v.X)
	case *ast.ParenExpr:
		return receiverName(v.X)
	case *ast.IndexExpr:
		return receiverName(v.X)
	case *ast.IndexListExpr:
		return receiverName(v.X)
	case *ast.Ident:
		return v.Name
	}
	return ""
}

// parseMethod returns nil for methods without a block directive.
func parseMethod(pkg *packages.Package, fd *ast.FuncDecl) (*MethodInfo, error) {
	pos := pkg.Fset.Position(fd.Pos())
	ds, err := annotation.Parse(fd.Doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pos, err)
	}
	if !hasBlockDirective(ds) {
		return nil, nil
	}

	fn, ok := pkg.TypesInfo.Defs[fd.Name].(*types.Func)
	if !ok {
		return nil, fmt.Errorf("%s: method %s has no type information", pos, fd.Name.Name)
	}
	sig := fn.Type().(*types.Signature)

	m := &MethodInfo{
		Name:        fd.Name.Name,
		ResultCount: sig.Results().Len(),
		Doc:         annotation.Doc(fd.Doc),
		Deprecated:  annotation.IsDeprecated(fd.Doc),
		Exported:    fd.Name.IsExported(),
		Pos:         pos,
	}
	if m.ResultCount > 0 {
		m.Result = sig.Results().At(0).Type()
	}
	params := map[string]bool{}
	for i := 0; i < sig.Params().Len(); i++ {
		v := sig.Params().At(i)
		m.Params = append(m.Params, ParamInfo{Name: v.Name(), Type: v.Type()})
		params[v.Name()] = true
	}

	if err := applyDirectives(pkg, fd, m, ds, params); err != nil {
		return nil, fmt.Errorf("%s: method %s: %w", pos, m.Name, err)
	}
	return m, nil
}

func hasBlockDirective(ds []annotation.Directive) bool {
	for _, name := range []string{
		annotation.NameEvent,
		annotation.NameFunction,
		annotation.NameProperty,
		annotation.NameDesigner,
	} {
		if annotation.Has(ds, name) {
			return true
		}
	}
	return false
}

func applyDirectives(
	pkg *packages.Package,
	fd *ast.FuncDecl,
	m *MethodInfo,
	ds []annotation.Directive,
	params map[string]bool,
) error {
	for _, d := range ds {
		switch d.Name {
		case annotation.NameEvent:
			tag, err := d.Event()
			if err != nil {
				return err
			}
			m.Event = &tag
		case annotation.NameFunction:
			tag, err := d.Function()
			if err != nil {
				return err
			}
			m.Function = &tag
		case annotation.NameProperty:
			tag, err := d.Property()
			if err != nil {
				return err
			}
			m.Property = &tag
		case annotation.NameDesigner:
			tag, err := d.DesignerProperty()
			if err != nil {
				return err
			}
			m.Designer = &tag
		case annotation.NameAsset:
			tag, err := d.Asset()
			if err != nil {
				return err
			}
			if tag.Param != "" && !params[tag.Param] {
				return fmt.Errorf("asset directive names unknown parameter %q", tag.Param)
			}
			m.Assets = append(m.Assets, tag)
		case annotation.NameOptions:
			tag, err := d.Options()
			if err != nil {
				return err
			}
			if tag.Param != "" && !params[tag.Param] {
				return fmt.Errorf("options directive names unknown parameter %q", tag.Param)
			}
			tv, err := types.Eval(pkg.Fset, pkg.Types, fd.Pos(), tag.TypeExpr)
			if err != nil {
				return fmt.Errorf("options type %q: %w", tag.TypeExpr, err)
			}
			if !tv.IsType() {
				return fmt.Errorf("options type %q is not a type", tag.TypeExpr)
			}
			m.Options = append(m.Options, OptionsTag{Options: tag, Type: tv.Type})
		case annotation.NameExtension, annotation.NameDefault:
			return fmt.Errorf("directive %q is not valid on methods", d.Name)
		default:
			return fmt.Errorf("unknown directive %q", d.Name)
		}
	}
	return nil
}
