package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCasing(t *testing.T) {
	tests := []struct {
		text   string
		camel  bool
		pascal bool
	}{
		{text: "FooBar", camel: false, pascal: true},
		{text: "fooBar", camel: true, pascal: false},
		{text: "foo", camel: true, pascal: false},
		{text: "Foo", camel: false, pascal: true},
		{text: "URL", camel: false, pascal: true},
		{text: "foo_bar", camel: false, pascal: false},
		{text: "Foo_Bar", camel: false, pascal: false},
		{text: "value2", camel: true, pascal: false},
		{text: "", camel: false, pascal: false},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.camel, IsCamelCase(tc.text), "IsCamelCase")
			assert.Equal(t, tc.pascal, IsPascalCase(tc.text), "IsPascalCase")
		})
	}
}

func TestSuggestions(t *testing.T) {
	assert.Equal(t, "fooBar", SuggestCamel("foo_bar"))
	assert.Equal(t, "DoThing", SuggestPascal("do_thing"))
}
