package diffcore

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// myersLineDiffs computes line runs using diffmatchpatch. Every line is terminated with "\n" before
// encoding so that the last line compares equal to the same line elsewhere in the document.
func myersLineDiffs(oldLines, newLines []string) []lineDiff {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	// Each unique line becomes a single rune; the diff then runs on those runes.
	oldChars, newChars, lineArray := dmp.DiffLinesToChars(joinLines(oldLines), joinLines(newLines))
	charDiffs := dmp.DiffMain(oldChars, newChars, false)

	var lineDiffs []lineDiff
	for _, charDiff := range charDiffs {
		runes := []rune(charDiff.Text)
		lines := make([]string, 0, len(runes))
		for _, r := range runes {
			idx := int(r)
			if idx < len(lineArray) {
				lines = append(lines, strings.TrimSuffix(lineArray[idx], "\n"))
			}
		}

		lineDiffs = appendMergedLineDiff(lineDiffs, myersOp(charDiff.Type), lines)
	}
	return lineDiffs
}

func myersOp(op diffmatchpatch.Operation) diffOp {
	switch op {
	case diffmatchpatch.DiffDelete:
		return diffDelete
	case diffmatchpatch.DiffInsert:
		return diffInsert
	default:
		return diffEqual
	}
}
