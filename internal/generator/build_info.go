package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/seitarof/gen-ext/internal/extension"
	"github.com/seitarof/gen-ext/internal/metadata"
)

// buildInfo is one entry of component_build_infos.json. Only the first
// entry carries the manifest arrays, so they are pointers to keep empty
// arrays distinct from absent keys.
type buildInfo struct {
	Type          string    `json:"type"`
	AndroidMinSdk []int     `json:"androidMinSdk"`
	Assets        []string  `json:"assets"`
	Activities    *[]string `json:"activities,omitempty"`
	Permissions   *[]string `json:"permissions,omitempty"`
}

func (g *generatorImpl) buildInfos(cfg Config, exts []*extension.Extension, meta *metadata.RushYaml) ([]buildInfo, error) {
	assets, err := g.assets(cfg.ProjectDir(), meta.TrimmedAssets())
	if err != nil {
		return nil, err
	}

	out := make([]buildInfo, 0, len(exts))
	for _, ext := range exts {
		out = append(out, buildInfo{
			Type:          ext.QualifiedName,
			AndroidMinSdk: []int{meta.MinSdk()},
			Assets:        assets,
		})
	}

	path, ok := LocateManifest(cfg.ProjectDir(), cfg.OutputDir())
	manifest := &Manifest{Activities: []string{}, Permissions: []string{}}
	if ok {
		if manifest, err = ReadManifest(path); err != nil {
			return nil, err
		}
	} else {
		g.logger.Debug("no AndroidManifest.xml found", zap.String("root", cfg.ProjectDir()))
	}
	out[0].Activities = &manifest.Activities
	out[0].Permissions = &manifest.Permissions
	return out, nil
}

// assets expands glob entries against the project's assets directory.
// Plain entries are kept as written.
func (g *generatorImpl) assets(root string, entries []string) ([]string, error) {
	dir := filepath.Join(root, "assets")
	out := make([]string, 0, len(entries))
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, entry := range entries {
		if !strings.ContainsAny(entry, "*?[{") {
			add(entry)
			continue
		}
		matches, err := doublestar.Glob(os.DirFS(dir), filepath.ToSlash(entry), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("asset pattern %q: %w", entry, err)
		}
		if len(matches) == 0 {
			g.logger.Warn("asset pattern matched nothing", zap.String("pattern", entry), zap.String("dir", dir))
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}
