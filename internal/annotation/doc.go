package annotation

import (
	"go/ast"
	"strings"
)

const deprecatedMarker = "Deprecated: "

// Doc returns the documentation text of cg with directive lines and any
// "Deprecated:" paragraph removed.
func Doc(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	paragraphs := strings.Split(cg.Text(), "\n\n")
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, deprecatedMarker) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "\n\n")
}

// IsDeprecated reports whether cg contains a paragraph starting with "Deprecated: ".
func IsDeprecated(cg *ast.CommentGroup) bool {
	if cg == nil {
		return false
	}
	for _, p := range strings.Split(cg.Text(), "\n\n") {
		if strings.HasPrefix(strings.TrimSpace(p), deprecatedMarker) {
			return true
		}
	}
	return false
}
