package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	cases := []struct {
		in       string
		marker   string
		expected string
	}{
		{"", "$$", ""},
		{"ls", "$$", "ls"},
		{"$$", "$$", "4242"},
		{"file.$$", "$$", "file.4242"},
		{"$$-$$", "$$", "4242-4242"},
		{"$$$", "$$", "4242$"},
		{"$$$$", "$$", "42424242"},
		{"$", "$$", "$"},
		{"a$b$$c", "$$", "a$b4242c"},
		{"unchanged", "", "unchanged"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, Expand(tc.in, tc.marker, "4242"))
		})
	}
}

func TestExpandDoesNotRescanReplacement(t *testing.T) {
	assert.Equal(t, "x$$y", Expand("x$y", "$", "$$"))
	assert.Equal(t, "$$$$", Expand("$$", "$", "$$"))
}

func TestExpandProperties(t *testing.T) {
	inputs := []string{
		"", "plain", "$$", "$$$", "$$$$$", "pre$$post", "$$a$$b$$", "日本$$語", "$ $ $$",
	}

	for _, in := range inputs {
		out := Expand(in, "$$", "123")

		// A marker absent from the result expands to nothing.
		assert.Equal(t, out, Expand(out, "@@", "999"), in)
		assert.Equal(t, out, Expand(in, "$$", "123"), in)
		assert.LessOrEqual(t, strings.Count(out, "123"), strings.Count(in, "$$"), in)
		assert.Equal(t, len(in)+strings.Count(in, "$$"), len(out), in)
	}
}
