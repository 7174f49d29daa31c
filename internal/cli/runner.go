package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seitarof/gen-ext/internal/block"
	"github.com/seitarof/gen-ext/internal/diag"
	"github.com/seitarof/gen-ext/internal/extension"
	"github.com/seitarof/gen-ext/internal/generator"
	"github.com/seitarof/gen-ext/internal/helper"
	"github.com/seitarof/gen-ext/internal/introspect"
	"github.com/seitarof/gen-ext/internal/matcher"
	"github.com/seitarof/gen-ext/internal/metadata"
	"github.com/seitarof/gen-ext/internal/parser"
	"github.com/seitarof/gen-ext/internal/yail"
)

// Result summarizes a successful run.
type Result struct {
	Extensions []string
	Warnings   int
	OutputDir  string
}

// Runner orchestrates parser/assembler/generator layers.
type Runner interface {
	Run(ctx context.Context, cfg *Config) (*Result, error)
}

// MetadataLoader reads the project's rush.yml.
type MetadataLoader func(root string) (*metadata.RushYaml, error)

type runnerImpl struct {
	loadMeta  MetadataLoader
	parser    parser.Parser
	assembler extension.Assembler
	generator generator.Generator
	reporter  *diag.Reporter
	logger    *zap.Logger
}

// NewRunner creates a runner from its layers. Diagnostics recorded on
// reporter during assembly stop the run before anything is written.
func NewRunner(
	loadMeta MetadataLoader,
	p parser.Parser,
	a extension.Assembler,
	g generator.Generator,
	reporter *diag.Reporter,
	logger *zap.Logger,
) Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &runnerImpl{
		loadMeta:  loadMeta,
		parser:    p,
		assembler: a,
		generator: g,
		reporter:  reporter,
		logger:    logger,
	}
}

// NewDefaultRunner wires the production layers for cfg.
func NewDefaultRunner(cfg *Config, logger *zap.Logger) Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	reporter := diag.NewReporter(logger)

	var execOpts []introspect.ExecOption
	if cfg.ExecEnums {
		execOpts = append(execOpts, introspect.WithProbeAll())
	}
	in := introspect.NewExec(introspect.NewStatic(cfg.ProjectDir()), cfg.ProjectDir(), execOpts...)
	builder := block.NewBuilder(
		yail.New(yail.DefaultRules(cfg.RuntimePath)...),
		helper.NewResolver(in),
		matcher.New(),
		reporter,
		cfg.RuntimePath,
	)
	gen := generator.New(
		generator.NewJSONFormatter(""),
		generator.NewMarkdownRenderer(),
		generator.NewFileWriter(),
		generator.WithLogger(logger),
	)

	return NewRunner(
		metadata.Load,
		parser.New(logger),
		extension.NewAssembler(builder, reporter, logger, cfg.Concurrency),
		gen,
		reporter,
		logger,
	)
}

// Run executes a single generation cycle.
func (r *runnerImpl) Run(ctx context.Context, cfg *Config) (*Result, error) {
	meta, err := r.loadMeta(cfg.ProjectDir())
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}

	infos, err := r.parser.Parse(ctx, cfg.ProjectDir(), cfg.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("no extensions found in %s", cfg.ProjectDir())
	}
	r.logger.Debug("extensions found", zap.Int("count", len(infos)))

	exts, err := r.assembler.Assemble(ctx, infos)
	if err != nil {
		if derr := r.reporter.Err(); derr != nil {
			return nil, derr
		}
		return nil, fmt.Errorf("assemble: %w", err)
	}
	if derr := r.reporter.Err(); derr != nil {
		return nil, derr
	}

	if err := r.generator.Generate(cfg, exts, meta); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	res := &Result{
		Warnings:  r.reporter.Count(diag.Warning),
		OutputDir: cfg.OutputDir(),
	}
	for _, ext := range exts {
		res.Extensions = append(res.Extensions, ext.QualifiedName)
	}
	return res, nil
}
