package cli

import (
	"context"
	"errors"
	"go/token"
	"strings"
	"testing"

	"github.com/seitarof/gen-ext/internal/diag"
	"github.com/seitarof/gen-ext/internal/extension"
	"github.com/seitarof/gen-ext/internal/generator"
	"github.com/seitarof/gen-ext/internal/metadata"
	"github.com/seitarof/gen-ext/internal/parser"
)

func TestRunner_Run_GeneratesAssembledExtensions(t *testing.T) {
	p := &mockParser{infos: []*parser.ExtensionInfo{{Name: "Greeter", PkgPath: "example.com/ext"}}}
	a := &mockAssembler{exts: []*extension.Extension{{Name: "Greeter", QualifiedName: "example.com/ext.Greeter"}}}
	gen := &mockGenerator{}
	reporter := diag.NewReporter(nil)
	reporter.Warn(diag.MissingDescription, token.Position{}, "no description")

	r := NewRunner(loadMeta(nil), p, a, gen, reporter, nil)
	cfg := &Config{ProjectRoot: "/ext", Patterns: []string{"./greeter"}}

	res, err := r.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if p.dir != "/ext" || len(p.patterns) != 1 || p.patterns[0] != "./greeter" {
		t.Fatalf("parser got dir=%s patterns=%v", p.dir, p.patterns)
	}
	if a.callCount != 1 || len(a.infos) != 1 {
		t.Fatalf("assembler call count = %d", a.callCount)
	}
	if gen.callCount != 1 {
		t.Fatalf("generator call count = %d, want 1", gen.callCount)
	}
	if gen.meta.Version != "1.0.0" {
		t.Fatalf("metadata not forwarded: %#v", gen.meta)
	}
	if gen.cfg.OutputDir() != cfg.OutputDir() {
		t.Fatalf("config not forwarded")
	}
	if len(res.Extensions) != 1 || res.Extensions[0] != "example.com/ext.Greeter" {
		t.Fatalf("unexpected result: %#v", res)
	}
	if res.Warnings != 1 {
		t.Fatalf("warnings = %d, want 1", res.Warnings)
	}
}

func TestRunner_Run_MetadataError(t *testing.T) {
	gen := &mockGenerator{}
	r := NewRunner(loadMeta(metadata.ErrNotFound), &mockParser{}, &mockAssembler{}, gen, diag.NewReporter(nil), nil)

	_, err := r.Run(context.Background(), &Config{})
	if !errors.Is(err, metadata.ErrNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.callCount != 0 {
		t.Fatal("generator should not run")
	}
}

func TestRunner_Run_ParseError(t *testing.T) {
	r := NewRunner(loadMeta(nil), &mockParser{err: errors.New("broken")}, &mockAssembler{}, &mockGenerator{}, diag.NewReporter(nil), nil)

	_, err := r.Run(context.Background(), &Config{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "parse: broken") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunner_Run_NoExtensions(t *testing.T) {
	r := NewRunner(loadMeta(nil), &mockParser{}, &mockAssembler{}, &mockGenerator{}, diag.NewReporter(nil), nil)

	_, err := r.Run(context.Background(), &Config{ProjectRoot: "/ext"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "no extensions found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunner_Run_RefusesToEmitWithErrors(t *testing.T) {
	reporter := diag.NewReporter(nil)
	a := &mockAssembler{
		exts: []*extension.Extension{{Name: "Greeter"}},
		onAssemble: func() {
			reporter.Error(diag.Visibility, token.Position{Filename: "ext.go", Line: 3}, "Function hidden should be exported")
		},
	}
	gen := &mockGenerator{}
	p := &mockParser{infos: []*parser.ExtensionInfo{{Name: "Greeter"}}}

	_, err := NewRunner(loadMeta(nil), p, a, gen, reporter, nil).Run(context.Background(), &Config{})
	var derr *diag.ReportError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *diag.ReportError, got %v", err)
	}
	if !derr.Has(diag.Visibility) {
		t.Fatalf("unexpected diagnostics: %v", derr)
	}
	if gen.callCount != 0 {
		t.Fatal("generator should not run when errors were reported")
	}
}

func TestRunner_Run_AssembleErrorPrefersDiagnostics(t *testing.T) {
	reporter := diag.NewReporter(nil)
	a := &mockAssembler{
		err: errors.New("class load failed"),
		onAssemble: func() {
			reporter.Error(diag.ClassLoad, token.Position{}, "cannot load enum")
		},
	}
	p := &mockParser{infos: []*parser.ExtensionInfo{{Name: "Greeter"}}}

	_, err := NewRunner(loadMeta(nil), p, a, &mockGenerator{}, reporter, nil).Run(context.Background(), &Config{})
	var derr *diag.ReportError
	if !errors.As(err, &derr) || !derr.Has(diag.ClassLoad) {
		t.Fatalf("expected ClassLoad diagnostics, got %v", err)
	}
}

func TestRunner_Run_GenerateError(t *testing.T) {
	p := &mockParser{infos: []*parser.ExtensionInfo{{Name: "Greeter"}}}
	a := &mockAssembler{exts: []*extension.Extension{{Name: "Greeter"}}}
	gen := &mockGenerator{err: errors.New("disk full")}

	_, err := NewRunner(loadMeta(nil), p, a, gen, diag.NewReporter(nil), nil).Run(context.Background(), &Config{})
	if err == nil || !strings.Contains(err.Error(), "generate: disk full") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func loadMeta(err error) MetadataLoader {
	return func(string) (*metadata.RushYaml, error) {
		if err != nil {
			return nil, err
		}
		return &metadata.RushYaml{Version: "1.0.0"}, nil
	}
}

type mockParser struct {
	infos    []*parser.ExtensionInfo
	err      error
	dir      string
	patterns []string
}

func (m *mockParser) Parse(_ context.Context, dir string, patterns ...string) ([]*parser.ExtensionInfo, error) {
	m.dir = dir
	m.patterns = patterns
	return m.infos, m.err
}

type mockAssembler struct {
	exts       []*extension.Extension
	err        error
	onAssemble func()
	callCount  int
	infos      []*parser.ExtensionInfo
}

func (m *mockAssembler) Assemble(_ context.Context, infos []*parser.ExtensionInfo) ([]*extension.Extension, error) {
	m.callCount++
	m.infos = infos
	if m.onAssemble != nil {
		m.onAssemble()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.exts, nil
}

type mockGenerator struct {
	callCount int
	cfg       generator.Config
	meta      *metadata.RushYaml
	err       error
}

func (m *mockGenerator) Generate(cfg generator.Config, _ []*extension.Extension, meta *metadata.RushYaml) error {
	m.callCount++
	m.cfg = cfg
	m.meta = meta
	return m.err
}
