package diffcore

import (
	"regexp"
	"strconv"
	"strings"
)

// hunkHeaderPattern matches "@@ -a,b +c,d @@"; either count may be omitted, in which case it is 1.
var hunkHeaderPattern = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// ParseHunkHeader parses a hunk header line. Lines that are not hunk headers, including malformed
// ones, yield an empty header and false. Callers probe arbitrary lines with it, so this is never an
// error.
func ParseHunkHeader(line string) (HunkHeader, bool) {
	if !strings.HasPrefix(line, "@@") {
		return HunkHeader{}, false
	}
	m := hunkHeaderPattern.FindStringSubmatch(line)
	if m == nil {
		return HunkHeader{}, false
	}

	var fields [4]int
	for i, raw := range m[1:] {
		if raw == "" {
			fields[i] = 1
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return HunkHeader{}, false
		}
		fields[i] = n
	}

	return HunkHeader{
		OldStart: fields[0],
		OldCount: fields[1],
		NewStart: fields[2],
		NewCount: fields[3],
	}, true
}
