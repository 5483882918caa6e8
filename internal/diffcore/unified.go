package diffcore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPatch is returned when a hunk body does not match the counts in its header.
var ErrMalformedPatch = errors.New("malformed patch")

// ParseUnified parses single-file unified diff text. Lines outside hunks that are not file labels,
// such as "diff --git" or "index" lines, are ignored. A patch without any hunk yields an empty diff.
func ParseUnified(lines []string) (UnifiedDiff, error) {
	files, err := ParseUnifiedFiles(lines)
	if err != nil {
		return UnifiedDiff{}, err
	}
	switch len(files) {
	case 0:
		return UnifiedDiff{OriginalName: DefaultOriginalName, RevisedName: DefaultRevisedName}, nil
	case 1:
		return files[0], nil
	default:
		return UnifiedDiff{}, fmt.Errorf("%w: expected one file, patch touches %d", ErrMalformedPatch, len(files))
	}
}

// ParseUnifiedFiles parses unified diff text that may describe several files. A new file starts at
// every "---" line that is directly followed by a "+++" line.
func ParseUnifiedFiles(lines []string) ([]UnifiedDiff, error) {
	var files []UnifiedDiff
	var current *UnifiedDiff

	startFile := func(originalName, revisedName string) {
		files = append(files, UnifiedDiff{OriginalName: originalName, RevisedName: revisedName})
		current = &files[len(files)-1]
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if strings.HasPrefix(line, "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ") {
			startFile(fileLabel(line), fileLabel(lines[i+1]))
			i++
			continue
		}

		header, ok := ParseHunkHeader(line)
		if !ok {
			continue
		}
		if current == nil {
			startFile(DefaultOriginalName, DefaultRevisedName)
		}

		hunk, consumed, err := parseHunkBody(header, lines[i+1:])
		if err != nil {
			return nil, fmt.Errorf("hunk %q at line %d: %w", line, i+1, err)
		}
		current.Hunks = append(current.Hunks, hunk)
		i += consumed
	}

	return files, nil
}

// parseHunkBody reads lines until both sides of header are satisfied. It returns the number of lines
// consumed.
func parseHunkBody(header HunkHeader, lines []string) (Hunk, int, error) {
	hunk := Hunk{
		OldStart: header.OldStart,
		OldCount: header.OldCount,
		NewStart: header.NewStart,
		NewCount: header.NewCount,
	}
	oldSeen, newSeen := 0, 0
	consumed := 0

	for oldSeen < header.OldCount || newSeen < header.NewCount {
		if consumed >= len(lines) {
			return Hunk{}, consumed, fmt.Errorf("%w: unexpected end of hunk (old %d/%d, new %d/%d)",
				ErrMalformedPatch, oldSeen, header.OldCount, newSeen, header.NewCount)
		}
		line := lines[consumed]
		consumed++

		// Some editors strip the single space of empty context lines.
		if line == "" {
			line = " "
		}

		switch line[0] {
		case ' ':
			hunk.Lines = append(hunk.Lines, DiffLine{Type: LineContext, Content: line[1:]})
			oldSeen++
			newSeen++
		case '-':
			hunk.Lines = append(hunk.Lines, DiffLine{Type: LineRemoved, Content: line[1:]})
			oldSeen++
		case '+':
			hunk.Lines = append(hunk.Lines, DiffLine{Type: LineAdded, Content: line[1:]})
			newSeen++
		case '\\':
			// "\ No newline at end of file"
		default:
			return Hunk{}, consumed, fmt.Errorf("%w: unexpected line %q", ErrMalformedPatch, line)
		}

		if oldSeen > header.OldCount || newSeen > header.NewCount {
			return Hunk{}, consumed, fmt.Errorf("%w: hunk body longer than header", ErrMalformedPatch)
		}
	}

	// A trailing "\ No newline" marker belongs to this hunk.
	if consumed < len(lines) && strings.HasPrefix(lines[consumed], "\\") {
		consumed++
	}

	return hunk, consumed, nil
}

// fileLabel strips the marker and any tab-separated timestamp from a "---" or "+++" line.
func fileLabel(line string) string {
	label := line[4:]
	if before, _, found := strings.Cut(label, "\t"); found {
		label = before
	}
	return strings.TrimSpace(label)
}
