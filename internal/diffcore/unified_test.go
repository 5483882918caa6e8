package diffcore

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseUnified(t *testing.T) {
	patch := []string{
		"diff --git a/notes.txt b/notes.txt",
		"index 83db48f..bf269f4 100644",
		"--- a/notes.txt\t2024-01-01 10:00:00",
		"+++ b/notes.txt\t2024-01-02 10:00:00",
		"@@ -1,3 +1,3 @@",
		" line 1",
		"-line 2",
		"+line 2 modified",
		"",
		"@@ -10 +10,2 @@ section",
		" ten",
		"+eleven",
		"\\ No newline at end of file",
	}

	d, err := ParseUnified(patch)
	if err != nil {
		t.Fatalf("ParseUnified() error = %v", err)
	}

	want := UnifiedDiff{
		OriginalName: "a/notes.txt",
		RevisedName:  "b/notes.txt",
		Hunks: []Hunk{
			{OldStart: 1, OldCount: 3, NewStart: 1, NewCount: 3, Lines: []DiffLine{
				{Type: LineContext, Content: "line 1"},
				{Type: LineRemoved, Content: "line 2"},
				{Type: LineAdded, Content: "line 2 modified"},
				{Type: LineContext, Content: ""},
			}},
			{OldStart: 10, OldCount: 1, NewStart: 10, NewCount: 2, Lines: []DiffLine{
				{Type: LineContext, Content: "ten"},
				{Type: LineAdded, Content: "eleven"},
			}},
		},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("ParseUnified() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnifiedRoundTrip(t *testing.T) {
	original := []string{"a", "b", "c", "d"}
	revised := []string{"a", "x", "c", "d", "e"}

	d, err := Generate(original, revised, WithNames("old", "new"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	parsed, err := ParseUnified(d.Lines())
	if err != nil {
		t.Fatalf("ParseUnified() error = %v", err)
	}
	if diff := cmp.Diff(d, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnifiedErrors(t *testing.T) {
	tests := []struct {
		name  string
		patch []string
	}{
		{
			name:  "truncated hunk",
			patch: []string{"--- a", "+++ b", "@@ -1,2 +1,2 @@", " a"},
		},
		{
			name:  "garbage inside hunk",
			patch: []string{"@@ -1,1 +1,1 @@", "*a", "+b"},
		},
		{
			name:  "body longer than header",
			patch: []string{"@@ -1,1 +1,0 @@", "+a"},
		},
		{
			name:  "two files",
			patch: []string{"--- a", "+++ a", "@@ -1 +1 @@", "-x", "+y", "--- b", "+++ b", "@@ -1 +1 @@", "-x", "+y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUnified(tt.patch)
			if !errors.Is(err, ErrMalformedPatch) {
				t.Fatalf("ParseUnified() error = %v, want ErrMalformedPatch", err)
			}
		})
	}
}

func TestParseUnifiedFiles(t *testing.T) {
	patch := []string{
		"--- a/one.txt",
		"+++ b/one.txt",
		"@@ -1 +1 @@",
		"-1",
		"+one",
		"diff --git a/image.png b/image.png",
		"Binary files a/image.png and b/image.png differ",
		"--- a/two.txt",
		"+++ b/two.txt",
		"@@ -0,0 +1 @@",
		"+two",
	}

	files, err := ParseUnifiedFiles(patch)
	if err != nil {
		t.Fatalf("ParseUnifiedFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].RevisedName != "b/one.txt" || files[1].OriginalName != "a/two.txt" {
		t.Errorf("unexpected labels: %q, %q", files[0].RevisedName, files[1].OriginalName)
	}
	if got := files[1].Hunks[0].Header(); got != (HunkHeader{OldStart: 0, OldCount: 0, NewStart: 1, NewCount: 1}) {
		t.Errorf("second file header = %s", got)
	}
}

func TestParseUnifiedEmpty(t *testing.T) {
	d, err := ParseUnified(nil)
	if err != nil {
		t.Fatalf("ParseUnified(nil) error = %v", err)
	}
	if len(d.Hunks) != 0 || d.Differences() != 0 {
		t.Errorf("ParseUnified(nil) = %+v, want no hunks", d)
	}
}
