package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables mirroring each flag, e.g.
// RUSH_PROJECT_ROOT for --project-root.
const EnvPrefix = "RUSH"

// NewFlagSet declares the generate flags.
func NewFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("gen-ext", pflag.ContinueOnError)
	fs.StringP("project-root", "r", ".", "extension project root")
	fs.StringP("output", "o", "", "raw build directory (default <project-root>/.rush/build/raw)")
	fs.String("runtime-path", DefaultRuntimePath, "import path of the runtime support package")
	fs.Bool("exec-enums", false, "run ToUnderlyingValue for every option list, not only computed ones")
	fs.IntP("concurrency", "j", 4, "extensions classified concurrently")
	fs.BoolP("verbose", "V", false, "log debug output")
	fs.Bool("no-color", false, "disable colored output")
	return fs
}

// ParseArgs parses command line arguments into Config. Positional
// arguments are package patterns.
func ParseArgs(args []string) (*Config, error) {
	fs := NewFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return FromFlags(fs, fs.Args())
}

// FromFlags builds a Config from parsed flags. Flags left at their default
// take the value of the matching RUSH_* environment variable when set.
func FromFlags(fs *pflag.FlagSet, patterns []string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	cfg := &Config{
		ProjectRoot: strings.TrimSpace(v.GetString("project-root")),
		Patterns:    splitPatterns(patterns),
		Output:      strings.TrimSpace(v.GetString("output")),
		RuntimePath: strings.TrimSpace(v.GetString("runtime-path")),
		ExecEnums:   v.GetBool("exec-enums"),
		Concurrency: v.GetInt("concurrency"),
		Verbose:     v.GetBool("verbose"),
		NoColor:     v.GetBool("no-color"),
	}

	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("--project-root is required")
	}
	if cfg.RuntimePath == "" {
		return nil, fmt.Errorf("--runtime-path is required")
	}
	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("--concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	return cfg, nil
}

func splitPatterns(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, p := range strings.Split(r, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
