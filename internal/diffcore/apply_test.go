package diffcore

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestApplyPatch(t *testing.T) {
	original := []string{"line 1", "line 2", "line 3"}
	patch := []string{
		"--- Original",
		"+++ Revised",
		"@@ -2,1 +2,1 @@",
		"-line 2",
		"+line 2 modified",
	}

	got, err := ApplyPatch(original, patch)
	if err != nil {
		t.Fatalf("ApplyPatch() error = %v", err)
	}
	want := []string{"line 1", "line 2 modified", "line 3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ApplyPatch() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyPatchFailures(t *testing.T) {
	original := []string{"line 1", "line 2", "line 3"}

	tests := []struct {
		name  string
		patch []string
	}{
		{
			name:  "base does not match",
			patch: []string{"@@ -2,1 +2,1 @@", "-line two", "+line 2 modified"},
		},
		{
			name:  "hunk past the end",
			patch: []string{"@@ -3,2 +3,1 @@", "-line 3", "-line 4", "+x"},
		},
		{
			name:  "malformed body",
			patch: []string{"@@ -2,1 +2,1 @@", "-line 2"},
		},
		{
			name: "overlapping hunks",
			patch: []string{
				"@@ -2,1 +2,1 @@", "-line 2", "+b",
				"@@ -1,2 +1,2 @@", "-line 1", "-line 2", "+a", "+b",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyPatch(original, tt.patch)
			if !errors.Is(err, ErrPatchFailed) {
				t.Fatalf("ApplyPatch() error = %v, want ErrPatchFailed", err)
			}
		})
	}
}

func TestApplyGenerated(t *testing.T) {
	tests := []struct {
		name     string
		original []string
		revised  []string
	}{
		{"identical", []string{"a", "b"}, []string{"a", "b"}},
		{"from empty", nil, []string{"a", "b"}},
		{"to empty", []string{"a", "b"}, nil},
		{"blank lines", []string{"", "a", ""}, []string{"a", "", "", "b"}},
		{"insert at top", []string{"b", "c"}, []string{"a", "b", "c"}},
		{"append", []string{"a"}, []string{"a", "b", "c"}},
		{"mixed", []string{"a", "b", "c", "d", "e", "f"}, []string{"b", "c", "X", "e", "f", "g"}},
	}

	for _, engine := range Engines() {
		for _, tt := range tests {
			t.Run(string(engine)+"/"+tt.name, func(t *testing.T) {
				d, err := Generate(tt.original, tt.revised, WithEngine(engine))
				if err != nil {
					t.Fatalf("Generate() error = %v", err)
				}
				got, err := ApplyPatch(tt.original, d.Lines())
				if err != nil {
					t.Fatalf("ApplyPatch() error = %v", err)
				}
				if diff := cmp.Diff(tt.revised, got, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("ApplyPatch() mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}
