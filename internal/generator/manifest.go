package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// applicationTags are the <application> children exported as activities.
// Tags without a dedicated build-info key ride along with activities.
var applicationTags = []string{
	"activity",
	"activity-alias",
	"meta-data",
	"provider",
	"service",
	"receiver",
	"uses-library",
}

// Manifest holds the AndroidManifest.xml entries copied into the build infos.
type Manifest struct {
	// Activities are serialized application elements.
	Activities []string
	// Permissions are the android:name values of uses-permission elements.
	Permissions []string
}

// LocateManifest returns the merged manifest next to the output directory
// when present, else the project's src/AndroidManifest.xml.
func LocateManifest(root, out string) (string, bool) {
	candidates := []string{
		filepath.Join(out, "..", filesDir, "AndroidManifest.xml"),
		filepath.Join(root, "src", "AndroidManifest.xml"),
	}
	for _, path := range candidates {
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path, true
		}
	}
	return "", false
}

// ReadManifest parses the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return parseManifest(doc)
}

func parseManifest(doc *etree.Document) (*Manifest, error) {
	m := &Manifest{Activities: []string{}, Permissions: []string{}}
	for _, tag := range applicationTags {
		for _, el := range doc.FindElements("//" + tag) {
			if parent := el.Parent(); parent == nil || parent.FullTag() != "application" {
				continue
			}
			if s := serializeElement(el); s != "" {
				m.Activities = append(m.Activities, s)
			}
		}
	}

	for _, el := range doc.FindElements("//uses-permission") {
		attr := el.SelectAttr("android:name")
		if attr == nil {
			return nil, fmt.Errorf("no android:name attribute found in <uses-permission> at %s", el.GetPath())
		}
		m.Permissions = append(m.Permissions, attr.Value)
	}
	return m, nil
}

// serializeElement renders el in the build-info element format: attributes
// sorted by name with tools: attributes dropped, and child elements nested
// recursively. Non-element children still mark the element as open.
func serializeElement(el *etree.Element) string {
	var sb strings.Builder
	writeElement(&sb, el)
	return sb.String()
}

func writeElement(sb *strings.Builder, el *etree.Element) {
	tag := el.FullTag()
	sb.WriteString("<" + tag + " ")

	attrs := make([]etree.Attr, 0, len(el.Attr))
	for _, a := range el.Attr {
		if !strings.Contains(a.FullKey(), "tools:") {
			attrs = append(attrs, a)
		}
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].FullKey() < attrs[j].FullKey() })
	for _, a := range attrs {
		fmt.Fprintf(sb, "%s = \"%s\" ", a.FullKey(), a.Value)
	}

	if len(el.Child) == 0 {
		sb.WriteString("/>\n")
		return
	}
	sb.WriteString(" >\n")
	for _, tok := range el.Child {
		if child, ok := tok.(*etree.Element); ok {
			writeElement(sb, child)
		}
	}
	sb.WriteString("</" + tag + ">\n")
}
