// Package extension assembles classified blocks into extension records.
package extension

import (
	"context"
	"fmt"
	"go/token"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seitarof/gen-ext/internal/block"
	"github.com/seitarof/gen-ext/internal/diag"
	"github.com/seitarof/gen-ext/internal/parser"
)

// Extension is one extension type with its blocks.
type Extension struct {
	// Name is the display name: the directive's name or the type name.
	Name string
	// TypeName is the Go type name.
	TypeName      string
	QualifiedName string
	PkgPath       string
	Description   string
	Icon          string

	Events             []*block.Event
	Functions          []*block.Function
	Properties         []*block.Property
	DesignerProperties []*block.DesignerProperty
}

// BlockBuilder classifies the methods of one extension.
type BlockBuilder interface {
	Build(ctx context.Context, methods []*parser.MethodInfo) (*block.Blocks, error)
}

// Assembler builds extensions from parsed declarations.
type Assembler interface {
	Assemble(ctx context.Context, infos []*parser.ExtensionInfo) ([]*Extension, error)
}

type assemblerImpl struct {
	builder  BlockBuilder
	reporter *diag.Reporter
	logger   *zap.Logger
	limit    int
}

// NewAssembler returns an assembler classifying up to limit extensions
// concurrently. limit < 1 means one at a time.
func NewAssembler(builder BlockBuilder, reporter *diag.Reporter, logger *zap.Logger, limit int) Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit < 1 {
		limit = 1
	}
	return &assemblerImpl{builder: builder, reporter: reporter, logger: logger, limit: limit}
}

func (a *assemblerImpl) Assemble(ctx context.Context, infos []*parser.ExtensionInfo) ([]*Extension, error) {
	if err := a.checkConsistency(infos); err != nil {
		return nil, err
	}

	out := make([]*Extension, len(infos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.limit)
	for i, info := range infos {
		i, info := i, info
		g.Go(func() error {
			ext, err := a.assemble(gctx, info)
			if err != nil {
				return fmt.Errorf("extension %s: %w", info.QualifiedName(), err)
			}
			out[i] = ext
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *assemblerImpl) assemble(ctx context.Context, info *parser.ExtensionInfo) (*Extension, error) {
	blocks, err := a.builder.Build(ctx, info.Methods)
	if err != nil {
		return nil, err
	}

	name := info.Tag.Name
	if name == "" {
		name = info.Name
	}
	desc := strings.TrimSpace(info.Tag.Description)
	if desc == "" {
		desc = info.Doc
	}

	a.logger.Debug("extension assembled",
		zap.String("type", info.QualifiedName()),
		zap.Int("events", len(blocks.Events)),
		zap.Int("functions", len(blocks.Functions)),
		zap.Int("properties", len(blocks.Properties)),
		zap.Int("designerProperties", len(blocks.DesignerProperties)))

	return &Extension{
		Name:               name,
		TypeName:           info.Name,
		QualifiedName:      info.QualifiedName(),
		PkgPath:            info.PkgPath,
		Description:        desc,
		Icon:               info.Tag.Icon,
		Events:             blocks.Events,
		Functions:          blocks.Functions,
		Properties:         blocks.Properties,
		DesignerProperties: blocks.DesignerProperties,
	}, nil
}

// checkConsistency requires every extension to live in one package and
// every qualified name to be unique.
func (a *assemblerImpl) checkConsistency(infos []*parser.ExtensionInfo) error {
	if len(infos) == 0 {
		return nil
	}

	seen := map[string]token.Position{}
	var problems []string
	for _, info := range infos {
		fqn := info.QualifiedName()
		if prev, dup := seen[fqn]; dup {
			a.reporter.Error(diag.PackageConsistency, info.Pos, "extension %s is declared twice (first at %s)", fqn, prev)
			problems = append(problems, fqn)
			continue
		}
		seen[fqn] = info.Pos
	}

	pkg := infos[0].PkgPath
	mixed := false
	for _, info := range infos[1:] {
		if info.PkgPath != pkg {
			mixed = true
			break
		}
	}
	if mixed {
		var names []string
		for _, info := range infos {
			names = append(names, info.QualifiedName())
		}
		a.reporter.Error(diag.PackageConsistency, infos[0].Pos,
			"all extensions must be declared in the same package: %s", strings.Join(names, ", "))
		problems = append(problems, names...)
	}

	if len(problems) > 0 {
		return fmt.Errorf("inconsistent extension packages: %s", strings.Join(problems, ", "))
	}
	return nil
}
