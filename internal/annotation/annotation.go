package annotation

// Prefix starts every directive comment line, e.g. "//ext:event".
const Prefix = "//ext:"

// Directive names.
const (
	NameExtension = "extension"
	NameEvent     = "event"
	NameFunction  = "function"
	NameProperty  = "property"
	NameDesigner  = "designer"
	NameAsset     = "asset"
	NameOptions   = "options"
	NameDefault   = "default"
)

// Extension marks a struct type as an extension component.
type Extension struct {
	Name        string
	Description string
	Icon        string
}

// Event marks a method as an event block.
type Event struct {
	Description string
}

// Function marks a method as a callable block.
type Function struct {
	Description string
}

// Property marks a getter or setter method as a property block. Name
// overrides the property name derived from the method name.
type Property struct {
	Name        string
	Description string
	UserVisible bool
}

// DesignerProperty exposes a property setter in the visual designer.
type DesignerProperty struct {
	EditorType   string
	DefaultValue string
	EditorArgs   []string
	AlwaysSend   bool
}

// Asset attaches an asset picker to a parameter, or to the property/return
// value when Param is empty.
type Asset struct {
	Param  string
	Filter []string
}

// Options attaches an option list to a parameter, or to the property/return
// value when Param is empty. TypeExpr is evaluated in the declaring package.
type Options struct {
	Param    string
	TypeExpr string
}
