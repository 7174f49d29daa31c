// Package typestest type-checks small in-memory packages for tests.
//
// A Universe always contains a minimal "time" package and a copy of the
// runtime support package so fixtures can import both without touching
// the file system or the module cache.
package typestest

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"
)

// RuntimePath is the import path of the runtime support package.
const RuntimePath = "github.com/seitarof/gen-ext/pkg/runtime"

const runtimeSrc = `package runtime

type Component interface{ ComponentName() string }

type OptionList[T comparable] interface{ ToUnderlyingValue() T }

type YailList []any

type YailDictionary map[string]any

type YailObject struct{ Value any }

type Continuation[T any] struct{ fn func(T) }
`

const timeSrc = `package time

type Time struct{ wall uint64 }

type Duration int64
`

// Universe is a set of checked packages sharing one FileSet.
type Universe struct {
	Fset  *token.FileSet
	pkgs  map[string]*types.Package
	infos map[string]*types.Info
}

// New returns a universe preloaded with time and runtime.
func New(t testing.TB) *Universe {
	t.Helper()
	u := &Universe{
		Fset:  token.NewFileSet(),
		pkgs:  map[string]*types.Package{},
		infos: map[string]*types.Info{},
	}
	u.Check(t, "time", timeSrc)
	u.Check(t, RuntimePath, runtimeSrc)
	return u
}

// Import implements types.Importer.
func (u *Universe) Import(path string) (*types.Package, error) {
	if pkg, ok := u.pkgs[path]; ok {
		return pkg, nil
	}
	if path == "unsafe" {
		return types.Unsafe, nil
	}
	return nil, fmt.Errorf("typestest: package %q not checked", path)
}

var _ types.Importer = (*Universe)(nil)

// Check parses and type-checks src as the package at path.
func (u *Universe) Check(t testing.TB, path, src string) *types.Package {
	t.Helper()
	f, err := parser.ParseFile(u.Fset, path+"/fixture.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	info := &types.Info{
		Types: map[ast.Expr]types.TypeAndValue{},
		Defs:  map[*ast.Ident]types.Object{},
		Uses:  map[*ast.Ident]types.Object{},
	}
	conf := types.Config{Importer: u}
	pkg, err := conf.Check(path, u.Fset, []*ast.File{f}, info)
	if err != nil {
		t.Fatalf("check %s: %v", path, err)
	}
	u.pkgs[path] = pkg
	u.infos[path] = info
	return pkg
}

// Info returns the type information recorded for path.
func (u *Universe) Info(path string) *types.Info {
	return u.infos[path]
}

// Type returns the type of the package-level object path.name.
func (u *Universe) Type(t testing.TB, path, name string) types.Type {
	t.Helper()
	return u.object(t, path, name).Type()
}

// Method returns the method typeName.method declared in path.
func (u *Universe) Method(t testing.TB, path, typeName, method string) *types.Func {
	t.Helper()
	obj := u.object(t, path, typeName)
	named, ok := obj.Type().(*types.Named)
	if !ok {
		t.Fatalf("%s.%s is not a named type", path, typeName)
	}
	for i := 0; i < named.NumMethods(); i++ {
		if m := named.Method(i); m.Name() == method {
			return m
		}
	}
	t.Fatalf("%s.%s has no method %s", path, typeName, method)
	return nil
}

func (u *Universe) object(t testing.TB, path, name string) types.Object {
	t.Helper()
	pkg, ok := u.pkgs[path]
	if !ok {
		t.Fatalf("package %q not checked", path)
	}
	obj := pkg.Scope().Lookup(name)
	if obj == nil {
		t.Fatalf("%s.%s not found", path, name)
	}
	return obj
}
