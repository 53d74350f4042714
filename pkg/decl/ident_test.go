package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"doubly_nested", []string{"doubly", "nested"}},
		{"inArray", []string{"in", "Array"}},
		{"HTTPServer", []string{"HTTP", "Server"}},
		{"user-id", []string{"user", "id"}},
		{"  spaced  out ", []string{"spaced", "out"}},
		{"café", []string{"cafe"}},
		{"v2Name", []string{"v2", "Name"}},
		{"$ref", []string{"ref"}},
		{"!!!", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.in))
		})
	}
}

func TestCases(t *testing.T) {
	tests := []struct {
		in                   string
		pascal, camel, snake string
	}{
		{"doubly_nested", "DoublyNested", "doublyNested", "doubly_nested"},
		{"in_array", "InArray", "inArray", "in_array"},
		{"firstName", "FirstName", "firstName", "first_name"},
		{"URL", "Url", "url", "url"},
		{"2fa", "2fa", "2fa", "2fa"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.pascal, PascalCase(tt.in))
			assert.Equal(t, tt.camel, CamelCase(tt.in))
			assert.Equal(t, tt.snake, SnakeCase(tt.in))
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("Root"))
	assert.True(t, IsIdentifier("_x1"))
	assert.True(t, IsIdentifier("Größe"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("1x"))
	assert.False(t, IsIdentifier("a-b"))
	assert.False(t, IsIdentifier("pub Root"))
}

func TestLeadingLetter(t *testing.T) {
	assert.Equal(t, "T2fa", LeadingLetter("2fa", "T"))
	assert.Equal(t, "abc", LeadingLetter("abc", "T"))
	assert.Equal(t, "", LeadingLetter("", "T"))
}
