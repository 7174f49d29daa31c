// Package naming checks identifier casing conventions of block names.
package naming

import (
	"regexp"

	"github.com/stoewer/go-strcase"
)

var (
	camelCase  = regexp.MustCompile(`^[a-z]([A-Z0-9]*[a-z][a-z0-9]*[A-Z]|[a-z0-9]*[A-Z][A-Z0-9]*[a-z])?[A-Za-z0-9]*$`)
	pascalCase = regexp.MustCompile(`^[A-Z]([A-Z0-9]*[a-z][a-z0-9]*[A-Z]|[a-z0-9]*[A-Z][A-Z0-9]*[a-z])?[A-Za-z0-9]*$`)
)

// IsCamelCase reports whether text follows camelCase, e.g. fooBar.
func IsCamelCase(text string) bool {
	return camelCase.MatchString(text)
}

// IsPascalCase reports whether text follows PascalCase, e.g. FooBar.
func IsPascalCase(text string) bool {
	return pascalCase.MatchString(text)
}

// SuggestCamel returns a camelCase spelling of text.
func SuggestCamel(text string) string {
	return strcase.LowerCamelCase(text)
}

// SuggestPascal returns a PascalCase spelling of text.
func SuggestPascal(text string) string {
	return strcase.UpperCamelCase(text)
}
