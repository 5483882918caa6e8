package diffcore

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aymanbagabas/go-udiff"
)

// ErrPatchFailed is returned when a patch cannot be applied to the given base document.
var ErrPatchFailed = errors.New("patch failed")

// ApplyPatch parses unified diff text and applies it to original.
func ApplyPatch(original, patchLines []string) ([]string, error) {
	d, err := ParseUnified(patchLines)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatchFailed, err)
	}
	return Apply(original, d)
}

// Apply reconstructs the revised document from original and d. Every hunk must match the base at
// exactly the position its header names; there is no fuzzy matching.
func Apply(original []string, d UnifiedDiff) ([]string, error) {
	content := joinLines(original)

	// offsets[i] is the byte offset of line i; offsets[len(original)] is len(content).
	offsets := make([]int, len(original)+1)
	for i, line := range original {
		offsets[i+1] = offsets[i] + len(line) + 1
	}

	var edits []udiff.Edit
	prevEnd := 0
	for _, hunk := range d.Hunks {
		if hunk.IsPlaceholder() {
			continue
		}
		header := hunk.Header()
		oldSide := hunk.oldSide()
		newSide := hunk.newSide()
		if len(oldSide) != header.OldCount || len(newSide) != header.NewCount {
			return nil, fmt.Errorf("%w: hunk %s: line counts do not match header", ErrPatchFailed, header)
		}

		start := header.OldIndex()
		end := start + len(oldSide)
		if start < prevEnd || end > len(original) {
			return nil, fmt.Errorf("%w: hunk %s: out of range for %d lines", ErrPatchFailed, header, len(original))
		}
		if !slices.Equal(original[start:end], oldSide) {
			return nil, fmt.Errorf("%w: hunk %s: does not match base", ErrPatchFailed, header)
		}

		edits = append(edits, udiff.Edit{
			Start: offsets[start],
			End:   offsets[end],
			New:   joinLines(newSide),
		})
		prevEnd = end
	}

	if len(edits) == 0 {
		return slices.Clone(original), nil
	}

	patched, err := udiff.Apply(content, edits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatchFailed, err)
	}
	return SplitLines(patched), nil
}
