package diffcore

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Engine names the longest-common-subsequence implementation used to compute edit scripts.
type Engine string

const (
	// EngineMyers uses diffmatchpatch over line-encoded text.
	EngineMyers Engine = "myers"
	// EngineDifflib uses difflib.SequenceMatcher opcodes. Matching is heuristic, so with repeated
	// lines the edit script can be longer than the minimal one.
	EngineDifflib Engine = "difflib"
	// EngineOptimal uses znkr.io/diff with heuristics disabled, producing a minimal edit script.
	EngineOptimal Engine = "optimal"

	DefaultEngine = EngineMyers
)

// ErrUnknownEngine is returned for engine names other than myers, difflib and optimal.
var ErrUnknownEngine = errors.New("unknown diff engine")

// Engines lists the supported engines in display order.
func Engines() []Engine {
	return []Engine{EngineMyers, EngineDifflib, EngineOptimal}
}

// ParseEngine maps a case-insensitive name to an Engine. An empty name selects the default.
func ParseEngine(name string) (Engine, error) {
	normalized := Engine(strings.ToLower(strings.TrimSpace(name)))
	if normalized == "" {
		return DefaultEngine, nil
	}
	if !slices.Contains(Engines(), normalized) {
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	return normalized, nil
}

type diffOp int

const (
	diffEqual diffOp = iota
	diffDelete
	diffInsert
)

// lineDiff is a run of consecutive lines sharing one edit operation.
type lineDiff struct {
	Op    diffOp
	Lines []string
}

// appendMergedLineDiff appends lines to diffs, extending the last run when it has the same op.
func appendMergedLineDiff(diffs []lineDiff, op diffOp, lines []string) []lineDiff {
	if len(lines) == 0 {
		return diffs
	}
	if n := len(diffs); n > 0 && diffs[n-1].Op == op {
		diffs[n-1].Lines = append(diffs[n-1].Lines, lines...)
		return diffs
	}
	return append(diffs, lineDiff{Op: op, Lines: slices.Clone(lines)})
}

// computeLineDiffs runs the selected engine and returns the edit script as merged runs.
func computeLineDiffs(engine Engine, oldLines, newLines []string) ([]lineDiff, error) {
	switch engine {
	case EngineMyers, "":
		return myersLineDiffs(oldLines, newLines), nil
	case EngineDifflib:
		return difflibLineDiffs(oldLines, newLines)
	case EngineOptimal:
		return optimalLineDiffs(oldLines, newLines)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}
