package diffcore

import "fmt"

type generateOptions struct {
	originalName string
	revisedName  string
	engine       Engine
}

// Option configures Generate.
type Option func(*generateOptions)

// WithNames sets the labels of the "---" and "+++" lines. Empty names keep the defaults.
func WithNames(originalName, revisedName string) Option {
	return func(o *generateOptions) {
		if originalName != "" {
			o.originalName = originalName
		}
		if revisedName != "" {
			o.revisedName = revisedName
		}
	}
}

// WithEngine selects the edit script implementation.
func WithEngine(engine Engine) Option {
	return func(o *generateOptions) {
		o.engine = engine
	}
}

// Generate computes a unified diff between original and revised with zero lines of context.
//
// The returned diff always starts with a hunk anchored at the first original line: when there are no
// changes, or the first change starts further down, a placeholder hunk is prepended. Lines are
// carried byte-for-byte; nothing is escaped here.
func Generate(original, revised []string, opts ...Option) (UnifiedDiff, error) {
	o := generateOptions{
		originalName: DefaultOriginalName,
		revisedName:  DefaultRevisedName,
		engine:       DefaultEngine,
	}
	for _, opt := range opts {
		opt(&o)
	}

	lineDiffs, err := computeLineDiffs(o.engine, original, revised)
	if err != nil {
		return UnifiedDiff{}, fmt.Errorf("failed to compute diff: %w", err)
	}

	return UnifiedDiff{
		OriginalName: o.originalName,
		RevisedName:  o.revisedName,
		Hunks:        normalizeHunks(buildHunks(lineDiffs)),
	}, nil
}

// buildHunks turns an edit script into zero-context hunks. Every maximal run of deletions and
// insertions between two equal runs becomes one hunk, removed lines first.
func buildHunks(lineDiffs []lineDiff) []Hunk {
	var hunks []Hunk
	var removed, added []string
	oldPos, newPos := 0, 0

	flush := func() {
		if len(removed) == 0 && len(added) == 0 {
			return
		}
		hunk := Hunk{
			OldStart: rangeStart(oldPos, len(removed)),
			OldCount: len(removed),
			NewStart: rangeStart(newPos, len(added)),
			NewCount: len(added),
			Lines:    make([]DiffLine, 0, len(removed)+len(added)),
		}
		for _, line := range removed {
			hunk.Lines = append(hunk.Lines, DiffLine{Type: LineRemoved, Content: line})
		}
		for _, line := range added {
			hunk.Lines = append(hunk.Lines, DiffLine{Type: LineAdded, Content: line})
		}
		hunks = append(hunks, hunk)

		oldPos += len(removed)
		newPos += len(added)
		removed, added = nil, nil
	}

	for _, d := range lineDiffs {
		switch d.Op {
		case diffEqual:
			flush()
			oldPos += len(d.Lines)
			newPos += len(d.Lines)
		case diffDelete:
			removed = append(removed, d.Lines...)
		case diffInsert:
			added = append(added, d.Lines...)
		}
	}
	flush()

	return hunks
}

// rangeStart converts a zero-based position into a header start. Non-empty ranges are one-based;
// empty ranges name the line after which the change applies.
func rangeStart(pos, count int) int {
	if count == 0 {
		return pos
	}
	return pos + 1
}

// normalizeHunks prepends the placeholder hunk unless the first hunk already starts at the first
// original line.
func normalizeHunks(hunks []Hunk) []Hunk {
	if len(hunks) == 0 {
		return []Hunk{placeholderHunk()}
	}
	if hunks[0].IsPlaceholder() || hunks[0].Header().OldIndex() == 0 {
		return hunks
	}
	return append([]Hunk{placeholderHunk()}, hunks...)
}
