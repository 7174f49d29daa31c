package introspect

import (
	"context"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"strconv"
	"sync"

	"golang.org/x/tools/go/packages"

	"github.com/seitarof/gen-ext/internal/annotation"
)

const accessorName = "ToUnderlyingValue"

// Static reads enum constants from type-checked source. Constant values
// stand in for the accessor result, so only accessors that convert the
// receiver to its own underlying type are accepted.
type Static struct {
	dir string

	mu    sync.Mutex
	cache map[string]*packages.Package
}

// NewStatic returns a static introspector resolving packages relative to dir.
func NewStatic(dir string) *Static {
	return &Static{dir: dir, cache: map[string]*packages.Package{}}
}

func (s *Static) Introspect(ctx context.Context, ref EnumRef) (*Enum, error) {
	enum, plain, err := s.inspect(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !plain {
		return nil, fmt.Errorf("%w: %s", ErrComputedAccessor, ref)
	}
	return enum, nil
}

// inspect collects the constants of ref and reports whether their declared
// values equal the accessor results.
func (s *Static) inspect(ctx context.Context, ref EnumRef) (*Enum, bool, error) {
	pkg, err := s.loadPackage(ctx, ref.PkgPath)
	if err != nil {
		return nil, false, err
	}

	obj, ok := pkg.Types.Scope().Lookup(ref.Name).(*types.TypeName)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s is not a defined type", ErrNotFound, ref)
	}

	fn, underlying, err := accessor(named)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrNoAccessor, ref, err)
	}

	consts := collectConstants(pkg, named)
	if len(consts) == 0 {
		return nil, false, fmt.Errorf("%w: %s", ErrNotEnum, ref)
	}

	enum := &Enum{Ref: ref, UnderlyingType: underlying, Constants: consts}
	return enum, isPlainConversion(pkg, named, fn), nil
}

func (s *Static) loadPackage(ctx context.Context, pkgPath string) (*packages.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache[pkgPath]; ok {
		return cached, nil
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     s.dir,
		Mode: packages.NeedName |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(cfg, pkgPath)
	if err != nil {
		return nil, fmt.Errorf("load package %q: %w", pkgPath, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w: package %q", ErrNotFound, pkgPath)
	}
	if len(pkgs[0].Errors) > 0 {
		return nil, fmt.Errorf("package %q has errors: %v", pkgPath, pkgs[0].Errors[0])
	}
	if pkgs[0].Types == nil || pkgs[0].TypesInfo == nil {
		return nil, fmt.Errorf("type info unavailable for package %q", pkgPath)
	}
	s.cache[pkgPath] = pkgs[0]
	return pkgs[0], nil
}

// accessor validates the value-receiver accessor and returns it with its
// result type.
func accessor(named *types.Named) (*types.Func, string, error) {
	obj, _, _ := types.LookupFieldOrMethod(named, false, named.Obj().Pkg(), accessorName)
	fn, ok := obj.(*types.Func)
	if !ok {
		return nil, "", fmt.Errorf("no value method %s", accessorName)
	}
	sig := fn.Type().(*types.Signature)
	if sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return nil, "", fmt.Errorf("%s must take no arguments and return one value", accessorName)
	}
	return fn, types.TypeString(sig.Results().At(0).Type(), nil), nil
}

// isPlainConversion reports whether fn's body is a single
// "return T(recv)" with T sharing named's underlying type.
func isPlainConversion(pkg *packages.Package, named *types.Named, fn *types.Func) bool {
	decl := findFuncDecl(pkg, fn)
	if decl == nil || decl.Body == nil || len(decl.Body.List) != 1 {
		return false
	}
	recv := decl.Recv.List[0]
	if len(recv.Names) != 1 {
		return false
	}
	ret, ok := decl.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return false
	}
	call, ok := ast.Unparen(ret.Results[0]).(*ast.CallExpr)
	if !ok || len(call.Args) != 1 || call.Ellipsis.IsValid() {
		return false
	}
	conv, ok := pkg.TypesInfo.Types[call.Fun]
	if !ok || !conv.IsType() || !types.Identical(conv.Type.Underlying(), named.Underlying()) {
		return false
	}
	arg, ok := ast.Unparen(call.Args[0]).(*ast.Ident)
	if !ok {
		return false
	}
	return pkg.TypesInfo.Uses[arg] == pkg.TypesInfo.Defs[recv.Names[0]]
}

func findFuncDecl(pkg *packages.Package, fn *types.Func) *ast.FuncDecl {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if ok && fd.Recv != nil && pkg.TypesInfo.Defs[fd.Name] == fn {
				return fd
			}
		}
	}
	return nil
}

func collectConstants(pkg *packages.Package, named *types.Named) []Constant {
	var out []Constant
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.CONST {
				continue
			}
			for _, spec := range gd.Specs {
				vs := spec.(*ast.ValueSpec)
				doc := vs.Doc
				if doc == nil && !gd.Lparen.IsValid() {
					doc = gd.Doc
				}
				ds, _ := annotation.Parse(doc)
				for _, ident := range vs.Names {
					c, ok := pkg.TypesInfo.Defs[ident].(*types.Const)
					if !ok || !c.Exported() || !types.Identical(c.Type(), named) {
						continue
					}
					out = append(out, Constant{
						Name:       c.Name(),
						Value:      constantString(c.Val()),
						Default:    annotation.Has(ds, annotation.NameDefault),
						Deprecated: annotation.IsDeprecated(doc),
						Pos:        pkg.Fset.Position(ident.Pos()),
					})
				}
			}
		}
	}
	return out
}

// constantString formats v the way fmt.Sprint formats the runtime value.
func constantString(v constant.Value) string {
	switch v.Kind() {
	case constant.String:
		return constant.StringVal(v)
	case constant.Bool:
		return strconv.FormatBool(constant.BoolVal(v))
	case constant.Float:
		f, _ := constant.Float64Val(v)
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return v.ExactString()
	}
}
