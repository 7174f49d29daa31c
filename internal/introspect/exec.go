package introspect

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"github.com/goccy/go-json"
)

// RunFunc runs the go command in dir and returns its stdout.
type RunFunc func(ctx context.Context, dir string, args ...string) ([]byte, error)

// Exec resolves constant values by compiling and running a probe program
// that calls ToUnderlyingValue on every constant. Accessors that only
// convert the receiver are answered from source unless WithProbeAll is set.
type Exec struct {
	static   *Static
	dir      string
	run      RunFunc
	probeAll bool
}

// ExecOption configures an Exec introspector.
type ExecOption func(*Exec)

// WithRunFunc replaces the go command runner.
func WithRunFunc(run RunFunc) ExecOption {
	return func(e *Exec) { e.run = run }
}

// WithProbeAll runs the probe for every enum, plain conversions included.
func WithProbeAll() ExecOption {
	return func(e *Exec) { e.probeAll = true }
}

// NewExec returns an introspector that writes probes into dir, which must
// be inside the module that declares the enums.
func NewExec(static *Static, dir string, opts ...ExecOption) *Exec {
	e := &Exec{static: static, dir: dir, run: runGo}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Exec) Introspect(ctx context.Context, ref EnumRef) (*Enum, error) {
	enum, plain, err := e.static.inspect(ctx, ref)
	if err != nil {
		return nil, err
	}
	if plain && !e.probeAll {
		return enum, nil
	}

	src, err := ProbeSource(enum)
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp(e.dir, "genextprobe")
	if err != nil {
		return nil, fmt.Errorf("create probe dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := os.WriteFile(filepath.Join(tmp, "main.go"), src, 0o644); err != nil {
		return nil, fmt.Errorf("write probe: %w", err)
	}

	out, err := e.run(ctx, e.dir, "run", "./"+filepath.Base(tmp))
	if err != nil {
		return nil, fmt.Errorf("run probe for %s: %w", ref, err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(out, &values); err != nil {
		return nil, fmt.Errorf("decode probe output for %s: %w", ref, err)
	}

	resolved := *enum
	resolved.Constants = make([]Constant, len(enum.Constants))
	for i, c := range enum.Constants {
		v, ok := values[c.Name]
		if !ok {
			return nil, fmt.Errorf("probe output for %s misses constant %s", ref, c.Name)
		}
		c.Value = v
		resolved.Constants[i] = c
	}
	return &resolved, nil
}

// ProbeSource renders the probe program for enum.
func ProbeSource(enum *Enum) ([]byte, error) {
	f := jen.NewFile("main")
	f.HeaderComment("Code generated by gen-ext. DO NOT EDIT.")

	values := jen.Dict{}
	for _, c := range enum.Constants {
		values[jen.Lit(c.Name)] = jen.Qual("fmt", "Sprint").Call(
			jen.Qual(enum.Ref.PkgPath, c.Name).Dot(accessorName).Call(),
		)
	}

	f.Func().Id("main").Params().Block(
		jen.Id("values").Op(":=").Map(jen.String()).String().Values(values),
		jen.If(
			jen.Err().Op(":=").Qual("encoding/json", "NewEncoder").Call(jen.Qual("os", "Stdout")).
				Dot("Encode").Call(jen.Id("values")),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Qual("fmt", "Fprintln").Call(jen.Qual("os", "Stderr"), jen.Err()),
			jen.Qual("os", "Exit").Call(jen.Lit(1)),
		),
	)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render probe for %s: %w", enum.Ref, err)
	}
	return buf.Bytes(), nil
}

func runGo(ctx context.Context, dir string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}
