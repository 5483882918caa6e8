package diffcore

import (
	"fmt"

	"znkr.io/diff"
)

func optimalLineDiffs(oldLines, newLines []string) ([]lineDiff, error) {
	edits := diff.Edits(oldLines, newLines, diff.Minimal())

	lineDiffs := make([]lineDiff, 0, len(edits))
	for _, edit := range edits {
		switch edit.Op {
		case diff.Match:
			lineDiffs = appendMergedLineDiff(lineDiffs, diffEqual, []string{edit.X})
		case diff.Delete:
			lineDiffs = appendMergedLineDiff(lineDiffs, diffDelete, []string{edit.X})
		case diff.Insert:
			lineDiffs = appendMergedLineDiff(lineDiffs, diffInsert, []string{edit.Y})
		default:
			return nil, fmt.Errorf("unsupported edit op: %v", edit.Op)
		}
	}
	return lineDiffs, nil
}
