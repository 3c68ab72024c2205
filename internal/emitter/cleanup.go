package emitter

import (
	"errors"
	"strings"
)

// ErrEmptyDocument is returned when a document produces no DSL lines
var ErrEmptyDocument = errors.New("document produced no output")

// RemoveBlankLines drops every line that is empty after trimming
func RemoveBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// TrimBoundaryLines drops the first and the last line. It needs at least two
// lines and returns ErrEmptyDocument otherwise.
func TrimBoundaryLines(s string) (string, error) {
	if s == "" {
		return "", ErrEmptyDocument
	}

	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return "", ErrEmptyDocument
	}
	return strings.Join(lines[1:len(lines)-1], "\n"), nil
}
