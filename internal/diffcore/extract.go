package diffcore

import "slices"

// ExtractRange returns a copy of seq[start..end], both ends inclusive. It never fails: an empty
// sequence, start > end, a negative start or an end past the last element all yield an empty
// result.
func ExtractRange[T any](seq []T, start, end int) []T {
	if len(seq) == 0 || start > end || start < 0 || end >= len(seq) {
		return []T{}
	}
	return slices.Clone(seq[start : end+1])
}
