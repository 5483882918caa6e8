package diffcore

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

func difflibLineDiffs(oldLines, newLines []string) ([]lineDiff, error) {
	matcher := difflib.NewMatcher(oldLines, newLines)
	return opCodesToLineDiffs(matcher.GetOpCodes(), oldLines, newLines)
}

func opCodesToLineDiffs(opCodes []difflib.OpCode, oldLines, newLines []string) ([]lineDiff, error) {
	lineDiffs := make([]lineDiff, 0, len(opCodes))

	for _, op := range opCodes {
		switch op.Tag {
		case 'e':
			lineDiffs = appendMergedLineDiff(lineDiffs, diffEqual, oldLines[op.I1:op.I2])
		case 'd':
			lineDiffs = appendMergedLineDiff(lineDiffs, diffDelete, oldLines[op.I1:op.I2])
		case 'i':
			lineDiffs = appendMergedLineDiff(lineDiffs, diffInsert, newLines[op.J1:op.J2])
		case 'r':
			lineDiffs = appendMergedLineDiff(lineDiffs, diffDelete, oldLines[op.I1:op.I2])
			lineDiffs = appendMergedLineDiff(lineDiffs, diffInsert, newLines[op.J1:op.J2])
		default:
			return nil, fmt.Errorf("unsupported opcode tag: %q", op.Tag)
		}
	}

	return lineDiffs, nil
}
