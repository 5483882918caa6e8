package diffcore

import "fmt"

// LineType represents the type of line in a diff
type LineType int

const (
	LineContext LineType = iota
	LineAdded
	LineRemoved
)

// Prefix returns the unified diff marker for the line type.
func (t LineType) Prefix() string {
	switch t {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	default:
		return " "
	}
}

// String returns the string representation of the line type
func (t LineType) String() string {
	switch t {
	case LineContext:
		return "context"
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// DiffLine represents a single line in a diff
type DiffLine struct {
	Type    LineType
	Content string
}

// String renders the line with its unified diff marker.
func (l DiffLine) String() string {
	return l.Type.Prefix() + l.Content
}

// HunkHeader holds the four ranges of a "@@ -a,b +c,d @@" line. Starts are one-based; a zero-length
// range names the line after which the change applies.
type HunkHeader struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
}

// PlaceholderHeader is the header of the synthetic hunk that stands in for "no change here".
const PlaceholderHeader = "@@ -0,0 +0,0 @@"

// String formats the header as a unified diff hunk header.
func (h HunkHeader) String() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// OldIndex returns the zero-based index of the first original line covered by the hunk, or the
// insertion point when the hunk removes nothing.
func (h HunkHeader) OldIndex() int {
	if h.OldCount == 0 {
		return h.OldStart
	}
	return h.OldStart - 1
}

// IsZero reports whether all four ranges are zero.
func (h HunkHeader) IsZero() bool {
	return h == HunkHeader{}
}

// Hunk represents a section of changes
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []DiffLine
}

// Header returns the ranges of the hunk.
func (h Hunk) Header() HunkHeader {
	return HunkHeader{OldStart: h.OldStart, OldCount: h.OldCount, NewStart: h.NewStart, NewCount: h.NewCount}
}

// IsPlaceholder reports whether h is the synthetic all-zero hunk.
func (h Hunk) IsPlaceholder() bool {
	return h.Header().IsZero() && len(h.Lines) == 0
}

// oldSide returns the lines the hunk expects to find in the original document.
func (h Hunk) oldSide() []string {
	lines := make([]string, 0, h.OldCount)
	for _, line := range h.Lines {
		if line.Type != LineAdded {
			lines = append(lines, line.Content)
		}
	}
	return lines
}

// newSide returns the lines the hunk leaves in the revised document.
func (h Hunk) newSide() []string {
	lines := make([]string, 0, h.NewCount)
	for _, line := range h.Lines {
		if line.Type != LineRemoved {
			lines = append(lines, line.Content)
		}
	}
	return lines
}

func placeholderHunk() Hunk {
	return Hunk{}
}

// Default labels used when a diff is generated without file names.
const (
	DefaultOriginalName = "Original"
	DefaultRevisedName  = "Revised"
)

// UnifiedDiff is an ordered list of hunks plus the labels of both sides.
type UnifiedDiff struct {
	OriginalName string
	RevisedName  string
	Hunks        []Hunk
}

// Differences returns the number of real (non-placeholder) hunks.
func (d UnifiedDiff) Differences() int {
	count := 0
	for _, hunk := range d.Hunks {
		if !hunk.IsPlaceholder() {
			count++
		}
	}
	return count
}

// Stats counts added and removed lines across all hunks.
func (d UnifiedDiff) Stats() (added int, removed int) {
	return countLineStats(d.Hunks)
}

// Lines renders the diff in unified format: two file label lines followed by every hunk header
// and its prefixed lines.
func (d UnifiedDiff) Lines() []string {
	lines := []string{"--- " + d.OriginalName, "+++ " + d.RevisedName}
	for _, hunk := range d.Hunks {
		lines = append(lines, hunk.Header().String())
		for _, line := range hunk.Lines {
			lines = append(lines, line.String())
		}
	}
	return lines
}

// countLineStats counts added and removed lines in hunks
func countLineStats(hunks []Hunk) (added int, removed int) {
	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			if line.Type == LineAdded {
				added++
			} else if line.Type == LineRemoved {
				removed++
			}
		}
	}
	return added, removed
}
