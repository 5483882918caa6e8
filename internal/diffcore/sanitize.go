package diffcore

import "strings"

const (
	// MaxBinaryLines is the number of body lines kept from one binary section.
	MaxBinaryLines = 100
	// minBinaryLinesBeforeClose is how many body lines a section must have seen before a "---"
	// line is taken as the start of the next file.
	minBinaryLinesBeforeClose = 5

	binaryPatchMarker = "GIT binary patch"
	binaryDiffMarker  = "Binary files"

	// TruncationMarker replaces the body lines of a binary section past MaxBinaryLines.
	TruncationMarker = "... (binary content truncated for performance) ..."
)

// SanitizeReport describes what SanitizePatchWithReport changed.
type SanitizeReport struct {
	BinarySections int
	// TruncatedLines counts dropped body lines; the truncation marker itself is not included.
	TruncatedLines int
}

// Truncated reports whether any line was dropped.
func (r SanitizeReport) Truncated() bool {
	return r.TruncatedLines > 0
}

// SanitizePatch caps every binary section of patch text at MaxBinaryLines body lines followed by a
// single TruncationMarker line. Everything outside binary sections passes through unchanged.
func SanitizePatch(lines []string) []string {
	out, _ := SanitizePatchWithReport(lines)
	return out
}

// SanitizePatchWithReport is SanitizePatch that also reports what was removed.
//
// A section starts at a line containing "GIT binary patch" or "Binary files". It ends at a line
// starting with "diff --git", or at a line starting with "---" once more than
// minBinaryLinesBeforeClose body lines have been seen. The closing line is always emitted.
func SanitizePatchWithReport(lines []string) ([]string, SanitizeReport) {
	var report SanitizeReport
	if len(lines) == 0 {
		return []string{}, report
	}

	out := make([]string, 0, min(len(lines), 4096))
	inBinarySection := false
	count := 0

	for _, line := range lines {
		if !inBinarySection {
			out = append(out, line)
			if isBinaryMarker(line) {
				inBinarySection = true
				count = 0
				report.BinarySections++
			}
			continue
		}

		count++
		switch {
		case count <= MaxBinaryLines:
			out = append(out, line)
		case count == MaxBinaryLines+1:
			out = append(out, TruncationMarker)
		}

		if closesBinarySection(line, count) {
			inBinarySection = false
			if count > MaxBinaryLines {
				out = append(out, line)
			}
			continue
		}

		if count > MaxBinaryLines {
			report.TruncatedLines++
		}
	}

	return out, report
}

func isBinaryMarker(line string) bool {
	return strings.Contains(line, binaryPatchMarker) || strings.Contains(line, binaryDiffMarker)
}

func closesBinarySection(line string, count int) bool {
	if strings.HasPrefix(line, "diff --git") {
		return true
	}
	return strings.HasPrefix(line, "---") && count > minBinaryLinesBeforeClose
}
