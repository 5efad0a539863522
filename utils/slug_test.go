package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Hello World", "hello-world"},
		{"collapses separators", "foo   bar__baz--qux", "foo-bar-baz-qux"},
		{"strips punctuation", "What's New, in Go 1.21?", "whats-new-in-go-121"},
		{"trims edge hyphens", "  -Leading and trailing-  ", "leading-and-trailing"},
		{"keeps digits", "Top 10 Tips", "top-10-tips"},
		{"empty input", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.input))
		})
	}
}
