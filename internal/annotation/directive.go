package annotation

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Directive is one parsed "//ext:name key=value ..." comment line.
type Directive struct {
	Name string
	Args map[string]string
	Pos  token.Pos
}

// Parse extracts all ext directives from a comment group in source order.
// A nil group yields no directives.
func Parse(cg *ast.CommentGroup) ([]Directive, error) {
	if cg == nil {
		return nil, nil
	}
	var out []Directive
	for _, c := range cg.List {
		if !strings.HasPrefix(c.Text, Prefix) {
			continue
		}
		d, err := parseLine(strings.TrimPrefix(c.Text, Prefix))
		if err != nil {
			return nil, fmt.Errorf("directive %q: %w", c.Text, err)
		}
		d.Pos = c.Slash
		out = append(out, d)
	}
	return out, nil
}

func parseLine(line string) (Directive, error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	if name == "" {
		return Directive{}, fmt.Errorf("missing directive name")
	}
	tokens, err := shlex.Split(rest)
	if err != nil {
		return Directive{}, err
	}
	d := Directive{Name: name, Args: make(map[string]string, len(tokens))}
	for _, tok := range tokens {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			return Directive{}, fmt.Errorf("argument %q is not key=value", tok)
		}
		if _, dup := d.Args[key]; dup {
			return Directive{}, fmt.Errorf("duplicate argument %q", key)
		}
		d.Args[key] = value
	}
	return d, nil
}

// Find returns the first directive with the given name.
func Find(ds []Directive, name string) (Directive, bool) {
	for _, d := range ds {
		if d.Name == name {
			return d, true
		}
	}
	return Directive{}, false
}

// Has reports whether a directive with the given name is present.
func Has(ds []Directive, name string) bool {
	_, ok := Find(ds, name)
	return ok
}

func (d Directive) check(allowed ...string) error {
	for key := range d.Args {
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%s%s: unknown argument %q", Prefix, d.Name, key)
		}
	}
	return nil
}

func (d Directive) boolArg(key string, def bool) (bool, error) {
	raw, ok := d.Args[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s%s: %s: %w", Prefix, d.Name, key, err)
	}
	return v, nil
}

func (d Directive) listArg(key string) []string {
	raw := strings.TrimSpace(d.Args[key])
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Extension decodes an extension directive.
func (d Directive) Extension() (Extension, error) {
	if err := d.check("name", "description", "icon"); err != nil {
		return Extension{}, err
	}
	return Extension{
		Name:        d.Args["name"],
		Description: d.Args["description"],
		Icon:        d.Args["icon"],
	}, nil
}

// Event decodes an event directive.
func (d Directive) Event() (Event, error) {
	if err := d.check("description"); err != nil {
		return Event{}, err
	}
	return Event{Description: d.Args["description"]}, nil
}

// Function decodes a function directive.
func (d Directive) Function() (Function, error) {
	if err := d.check("description"); err != nil {
		return Function{}, err
	}
	return Function{Description: d.Args["description"]}, nil
}

// Property decodes a property directive. userVisible defaults to true.
func (d Directive) Property() (Property, error) {
	if err := d.check("name", "description", "userVisible"); err != nil {
		return Property{}, err
	}
	visible, err := d.boolArg("userVisible", true)
	if err != nil {
		return Property{}, err
	}
	return Property{Name: d.Args["name"], Description: d.Args["description"], UserVisible: visible}, nil
}

// DesignerProperty decodes a designer directive. editorType defaults to "text".
func (d Directive) DesignerProperty() (DesignerProperty, error) {
	if err := d.check("editorType", "defaultValue", "editorArgs", "alwaysSend"); err != nil {
		return DesignerProperty{}, err
	}
	alwaysSend, err := d.boolArg("alwaysSend", false)
	if err != nil {
		return DesignerProperty{}, err
	}
	editorType := d.Args["editorType"]
	if editorType == "" {
		editorType = "text"
	}
	return DesignerProperty{
		EditorType:   editorType,
		DefaultValue: d.Args["defaultValue"],
		EditorArgs:   d.listArg("editorArgs"),
		AlwaysSend:   alwaysSend,
	}, nil
}

// Asset decodes an asset directive.
func (d Directive) Asset() (Asset, error) {
	if err := d.check("param", "filter"); err != nil {
		return Asset{}, err
	}
	return Asset{Param: d.Args["param"], Filter: d.listArg("filter")}, nil
}

// Options decodes an options directive. type is required.
func (d Directive) Options() (Options, error) {
	if err := d.check("param", "type"); err != nil {
		return Options{}, err
	}
	expr := strings.TrimSpace(d.Args["type"])
	if expr == "" {
		return Options{}, fmt.Errorf("%s%s: type is required", Prefix, d.Name)
	}
	return Options{Param: d.Args["param"], TypeExpr: expr}, nil
}
