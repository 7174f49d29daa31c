package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/seitarof/gen-ext/internal/block"
	"github.com/seitarof/gen-ext/internal/extension"
	"github.com/seitarof/gen-ext/internal/metadata"
)

var iconURL = regexp.MustCompile(`https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()!@:%_+.~#?&/=]*)`)

// componentDescriptor is one entry of components.json. Field order is the
// document's key order.
type componentDescriptor struct {
	External        string                    `json:"external"`
	CategoryString  string                    `json:"categoryString"`
	ShowOnPalette   string                    `json:"showOnPalette"`
	NonVisible      string                    `json:"nonVisible"`
	Name            string                    `json:"name"`
	HelpString      string                    `json:"helpString"`
	Type            string                    `json:"type"`
	HelpURL         string                    `json:"helpUrl"`
	LicenseName     string                    `json:"licenseName"`
	VersionName     string                    `json:"versionName"`
	Version         string                    `json:"version"`
	AndroidMinSdk   int                       `json:"androidMinSdk"`
	IconName        string                    `json:"iconName"`
	DateBuilt       string                    `json:"dateBuilt"`
	Events          []*block.Event            `json:"events"`
	Methods         []*block.Function         `json:"methods"`
	BlockProperties []*block.Property         `json:"blockProperties"`
	Properties      []*block.DesignerProperty `json:"properties"`
}

func (g *generatorImpl) components(cfg Config, exts []*extension.Extension, meta *metadata.RushYaml) ([]componentDescriptor, error) {
	built := g.now().Format(time.DateOnly)
	out := make([]componentDescriptor, 0, len(exts))
	for _, ext := range exts {
		help, err := g.help.Render(ext.Description)
		if err != nil {
			return nil, fmt.Errorf("%s: help string: %w", ext.QualifiedName, err)
		}
		icon, err := g.icon(cfg, ext.Icon)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ext.QualifiedName, err)
		}
		out = append(out, componentDescriptor{
			External:        "true",
			CategoryString:  "EXTENSION",
			ShowOnPalette:   "true",
			NonVisible:      "true",
			Name:            ext.Name,
			HelpString:      help,
			Type:            ext.QualifiedName,
			HelpURL:         meta.Homepage,
			LicenseName:     meta.License,
			VersionName:     meta.Version,
			Version:         strconv.Itoa(g.version()),
			AndroidMinSdk:   meta.MinSdk(),
			IconName:        icon,
			DateBuilt:       built,
			Events:          orEmpty(ext.Events),
			Methods:         orEmpty(ext.Functions),
			BlockProperties: orEmpty(ext.Properties),
			Properties:      orEmpty(ext.DesignerProperties),
		})
	}
	return out, nil
}

// icon returns the iconName for an extension. URLs are used as is; a file
// name is copied from the project assets into the output's aiwebres
// directory.
func (g *generatorImpl) icon(cfg Config, icon string) (string, error) {
	if icon == "" || iconURL.MatchString(icon) {
		return icon, nil
	}
	src := filepath.Join(cfg.ProjectDir(), "assets", icon)
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("icon: %w", err)
	}
	if err := g.writer.Write(filepath.Join(cfg.OutputDir(), iconDir, icon), data); err != nil {
		return "", fmt.Errorf("icon: %w", err)
	}
	g.logger.Debug("icon copied", zap.String("src", src))
	return iconDir + "/" + filepath.ToSlash(icon), nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
