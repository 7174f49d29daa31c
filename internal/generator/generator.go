// Package generator writes the descriptor documents consumed by the
// extension build: components.json and component_build_infos.json.
package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/seitarof/gen-ext/internal/extension"
	"github.com/seitarof/gen-ext/internal/metadata"
)

const (
	componentsFile = "components.json"
	buildInfoFile  = "component_build_infos.json"
	filesDir       = "files"
	iconDir        = "aiwebres"
)

// Generator emits the descriptor documents for assembled extensions.
type Generator interface {
	Generate(cfg Config, exts []*extension.Extension, meta *metadata.RushYaml) error
}

// Config is the minimum config contract required by generator.
type Config interface {
	// ProjectDir is the extension project root holding rush.yml, src and assets.
	ProjectDir() string
	// OutputDir receives components.json; build infos go to its files directory.
	OutputDir() string
}

// Formatter serializes one descriptor document.
type Formatter interface {
	Format(v any) ([]byte, error)
}

// HelpRenderer turns a markdown description into the HTML help string.
type HelpRenderer interface {
	Render(markdown string) (string, error)
}

// FileWriter writes generated files to disk.
type FileWriter interface {
	Write(filename string, data []byte) error
}

// Option customizes a generator.
type Option func(*generatorImpl)

// WithClock overrides the source of the build date.
func WithClock(now func() time.Time) Option {
	return func(g *generatorImpl) { g.now = now }
}

// WithVersion overrides the source of the component version number.
func WithVersion(version func() int) Option {
	return func(g *generatorImpl) { g.version = version }
}

// WithLogger sets the logger used for advisory output.
func WithLogger(logger *zap.Logger) Option {
	return func(g *generatorImpl) { g.logger = logger }
}

type generatorImpl struct {
	formatter Formatter
	help      HelpRenderer
	writer    FileWriter
	logger    *zap.Logger
	now       func() time.Time
	version   func() int
}

type jsonFormatter struct {
	indent string
}

type fileWriter struct{}

// New creates a descriptor generator.
func New(f Formatter, h HelpRenderer, w FileWriter, opts ...Option) Generator {
	g := &generatorImpl{
		formatter: f,
		help:      h,
		writer:    w,
		logger:    zap.NewNop(),
		now:       time.Now,
		version:   func() int { return rand.IntN(1_000_000) },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewJSONFormatter creates a JSON formatter. An empty indent produces
// compact output.
func NewJSONFormatter(indent string) Formatter {
	return &jsonFormatter{indent: indent}
}

// NewFileWriter creates a file writer that creates missing parent directories.
func NewFileWriter() FileWriter {
	return &fileWriter{}
}

func (g *generatorImpl) Generate(cfg Config, exts []*extension.Extension, meta *metadata.RushYaml) error {
	if len(exts) == 0 {
		return errors.New("no extensions")
	}
	if meta == nil {
		return errors.New("no metadata")
	}

	components, err := g.components(cfg, exts, meta)
	if err != nil {
		return fmt.Errorf("components: %w", err)
	}
	infos, err := g.buildInfos(cfg, exts, meta)
	if err != nil {
		return fmt.Errorf("build infos: %w", err)
	}

	if err := g.emit(filepath.Join(cfg.OutputDir(), componentsFile), components); err != nil {
		return err
	}
	return g.emit(filepath.Join(cfg.OutputDir(), filesDir, buildInfoFile), infos)
}

func (g *generatorImpl) emit(filename string, v any) error {
	data, err := g.formatter.Format(v)
	if err != nil {
		return fmt.Errorf("format %s: %w", filepath.Base(filename), err)
	}
	if err := g.writer.Write(filename, data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	g.logger.Debug("descriptor written", zap.String("file", filename), zap.Int("bytes", len(data)))
	return nil
}

func (f *jsonFormatter) Format(v any) ([]byte, error) {
	if f.indent == "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", f.indent)
}

func (w *fileWriter) Write(filename string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}
