package diffcore

import "fmt"

// Section is one hunk of a merged view: the hunk's own lines followed by the unchanged original
// lines up to the next hunk (or the end of the document).
type Section struct {
	Hunk  HunkHeader
	Lines []DiffLine
}

// MergedView is the whole original document with every hunk spliced in at its position.
type MergedView struct {
	OriginalName string
	RevisedName  string
	// Differences is the number of real hunks; the placeholder is not counted.
	Differences int
	Sections    []Section
}

// Merge reconstructs the complete original document with the changes of d overlaid.
//
// Each hunk contributes its own lines, then the original lines between the end of its old range and
// the start of the next hunk's old range are appended as context. Lines after the last hunk are
// appended the same way. Out-of-range or inverted gaps from malformed hunks are skipped.
func Merge(original []string, d UnifiedDiff) MergedView {
	hunks := normalizeHunks(d.Hunks)

	view := MergedView{
		OriginalName: d.OriginalName,
		RevisedName:  d.RevisedName,
		Differences:  d.Differences(),
		Sections:     make([]Section, 0, len(hunks)),
	}

	for i, hunk := range hunks {
		header := hunk.Header()
		section := Section{
			Hunk:  header,
			Lines: make([]DiffLine, 0, len(hunk.Lines)),
		}
		section.Lines = append(section.Lines, hunk.Lines...)

		gapStart := header.OldIndex() + header.OldCount
		gapEnd := len(original) - 1
		if i+1 < len(hunks) {
			gapEnd = hunks[i+1].Header().OldIndex() - 1
		}
		for _, line := range ExtractRange(original, gapStart, gapEnd) {
			section.Lines = append(section.Lines, DiffLine{Type: LineContext, Content: line})
		}

		view.Sections = append(view.Sections, section)
	}

	return view
}

// Lines returns the annotated lines of the whole view in document order.
func (v MergedView) Lines() []DiffLine {
	var total int
	for _, section := range v.Sections {
		total += len(section.Lines)
	}
	lines := make([]DiffLine, 0, total)
	for _, section := range v.Sections {
		lines = append(lines, section.Lines...)
	}
	return lines
}

// Stats counts added and removed lines in the view.
func (v MergedView) Stats() (added int, removed int) {
	for _, section := range v.Sections {
		for _, line := range section.Lines {
			switch line.Type {
			case LineAdded:
				added++
			case LineRemoved:
				removed++
			}
		}
	}
	return added, removed
}

// RevisedLabel is the "+++" label annotated with the number of differences.
func (v MergedView) RevisedLabel() string {
	return fmt.Sprintf("%s ( %d different )", v.RevisedName, v.Differences)
}

// Text renders the view as unified diff text. Section headers are recomputed from the lines each
// section actually holds, so the text stays valid when gap context has been appended. Empty sections
// are omitted; a view without any lines renders the placeholder header alone.
func (v MergedView) Text() []string {
	lines := []string{"--- " + v.OriginalName, "+++ " + v.RevisedLabel()}

	oldPos, newPos := 0, 0
	for _, section := range v.Sections {
		if len(section.Lines) == 0 {
			continue
		}
		oldCount, newCount := sideCounts(section.Lines)
		header := HunkHeader{
			OldStart: rangeStart(oldPos, oldCount),
			OldCount: oldCount,
			NewStart: rangeStart(newPos, newCount),
			NewCount: newCount,
		}
		lines = append(lines, header.String())
		for _, line := range section.Lines {
			lines = append(lines, line.String())
		}
		oldPos += oldCount
		newPos += newCount
	}

	if len(lines) == 2 {
		lines = append(lines, PlaceholderHeader)
	}
	return lines
}

func sideCounts(lines []DiffLine) (oldCount, newCount int) {
	for _, line := range lines {
		switch line.Type {
		case LineContext:
			oldCount++
			newCount++
		case LineRemoved:
			oldCount++
		case LineAdded:
			newCount++
		}
	}
	return oldCount, newCount
}
