// Package metadata loads the project's rush.yml build metadata.
package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MinSdkFloor is the lowest Android API level an extension may target.
const MinSdkFloor = 7

// ErrNotFound is returned when neither rush.yml nor rush.yaml exists.
var ErrNotFound = errors.New("metadata file not found")

// RushYaml is the decoded rush.yml.
type RushYaml struct {
	Version      string   `yaml:"version"`
	License      string   `yaml:"license"`
	Homepage     string   `yaml:"homepage"`
	Desugar      bool     `yaml:"desugar"`
	Assets       []string `yaml:"assets"`
	Authors      []string `yaml:"authors"`
	Repositories []string `yaml:"repositories"`
	RuntimeDeps  []string `yaml:"dependencies"`
	CompileDeps  []string `yaml:"comptime_dependencies"`
	Android      Android  `yaml:"android"`
	Kotlin       Kotlin   `yaml:"kotlin"`

	// LegacyMinSdk is the top-level min_sdk of older project layouts.
	LegacyMinSdk *int `yaml:"min_sdk"`

	// Path is the file the metadata was read from.
	Path string `yaml:"-"`
}

// Android holds platform settings.
type Android struct {
	CompileSdk *int `yaml:"compile_sdk"`
	MinSdk     *int `yaml:"min_sdk"`
}

// Kotlin holds compiler settings.
type Kotlin struct {
	CompilerVersion string `yaml:"compiler_version"`
}

// MinSdk returns the configured minimum API level, never below MinSdkFloor.
func (r *RushYaml) MinSdk() int {
	v := MinSdkFloor
	switch {
	case r.Android.MinSdk != nil:
		v = *r.Android.MinSdk
	case r.LegacyMinSdk != nil:
		v = *r.LegacyMinSdk
	}
	return max(v, MinSdkFloor)
}

// TrimmedAssets returns the asset entries with surrounding space removed.
func (r *RushYaml) TrimmedAssets() []string {
	out := make([]string, 0, len(r.Assets))
	for _, a := range r.Assets {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Load reads rush.yml, falling back to rush.yaml, from root.
func Load(root string) (*RushYaml, error) {
	for _, name := range []string{"rush.yml", "rush.yaml"} {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		meta, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		meta.Path = path
		return meta, nil
	}
	return nil, fmt.Errorf("%w in %s", ErrNotFound, root)
}

// Parse decodes rush.yml content. version is required.
func Parse(data []byte) (*RushYaml, error) {
	var meta RushYaml
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if strings.TrimSpace(meta.Version) == "" {
		return nil, errors.New("metadata: version is required")
	}
	return &meta, nil
}
