package diffcore

import (
	"slices"
	"strings"
)

// SplitLines splits content by newline and normalizes the result
// It removes the trailing empty string that results from splitting text with a trailing newline
// For example: "a\nb\n" -> ["a", "b"] instead of ["a", "b", ""]
func SplitLines(content string) []string {
	if content == "" {
		return []string{}
	}

	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// ParsePatchFile returns the lines of an already split patch unchanged. A nil or empty input yields
// an empty, non-nil slice.
func ParsePatchFile(lines []string) []string {
	if len(lines) == 0 {
		return []string{}
	}
	return slices.Clone(lines)
}

// joinLines is the inverse of SplitLines: every line, including the last, ends with "\n".
func joinLines(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
