package cli

import "path/filepath"

// DefaultRuntimePath is the import path of the runtime support package.
const DefaultRuntimePath = "github.com/seitarof/gen-ext/pkg/runtime"

// Config stores CLI options for a single generation run.
type Config struct {
	// ProjectRoot holds rush.yml, the Go sources, assets and src/AndroidManifest.xml.
	ProjectRoot string
	// Patterns select the packages to scan, relative to ProjectRoot.
	Patterns []string
	// Output is the raw build directory; empty means <root>/.rush/build/raw.
	Output string
	// RuntimePath is the import path of the runtime support package.
	RuntimePath string
	// ExecEnums runs the probe program for every option list, plain
	// conversions included.
	ExecEnums bool
	// Concurrency bounds how many extensions are classified at once.
	Concurrency int
	Verbose     bool
	NoColor     bool
}

// ProjectDir returns the project root for the generator layer.
func (c *Config) ProjectDir() string {
	if c.ProjectRoot == "" {
		return "."
	}
	return c.ProjectRoot
}

// OutputDir returns the raw build directory for the generator layer.
func (c *Config) OutputDir() string {
	if c.Output != "" {
		return c.Output
	}
	return filepath.Join(c.ProjectDir(), ".rush", "build", "raw")
}
