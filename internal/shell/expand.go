package shell

import "strings"

// Expand replaces every non-overlapping occurrence of marker in s with
// repl, scanning left to right. Inserted text is never rescanned. An
// empty marker matches nothing.
func Expand(s, marker, repl string) string {
	if marker == "" {
		return s
	}
	return strings.ReplaceAll(s, marker, repl)
}
