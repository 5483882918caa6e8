package diffcore

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name      string
		original  []string
		revised   []string
		wantLines []string
	}{
		{
			name:      "both empty",
			original:  nil,
			revised:   nil,
			wantLines: []string{"--- Original", "+++ Revised", PlaceholderHeader},
		},
		{
			name:      "identical",
			original:  []string{"a", "b"},
			revised:   []string{"a", "b"},
			wantLines: []string{"--- Original", "+++ Revised", PlaceholderHeader},
		},
		{
			name:     "modified middle line",
			original: []string{"line 1", "line 2", "line 3"},
			revised:  []string{"line 1", "line 2 modified", "line 3"},
			wantLines: []string{
				"--- Original", "+++ Revised",
				PlaceholderHeader,
				"@@ -2,1 +2,1 @@", "-line 2", "+line 2 modified",
			},
		},
		{
			name:     "modified first line",
			original: []string{"a", "b"},
			revised:  []string{"x", "b"},
			wantLines: []string{
				"--- Original", "+++ Revised",
				"@@ -1,1 +1,1 @@", "-a", "+x",
			},
		},
		{
			name:     "all additions",
			original: nil,
			revised:  []string{"a", "b"},
			wantLines: []string{
				"--- Original", "+++ Revised",
				"@@ -0,0 +1,2 @@", "+a", "+b",
			},
		},
		{
			name:     "all deletions",
			original: []string{"a", "b"},
			revised:  nil,
			wantLines: []string{
				"--- Original", "+++ Revised",
				"@@ -1,2 +0,0 @@", "-a", "-b",
			},
		},
		{
			name:     "insertion after a line",
			original: []string{"a", "c"},
			revised:  []string{"a", "b", "c"},
			wantLines: []string{
				"--- Original", "+++ Revised",
				PlaceholderHeader,
				"@@ -1,0 +2,1 @@", "+b",
			},
		},
		{
			name:     "disjoint changes",
			original: []string{"a", "b", "c", "d", "e"},
			revised:  []string{"a", "B", "c", "d", "E"},
			wantLines: []string{
				"--- Original", "+++ Revised",
				PlaceholderHeader,
				"@@ -2,1 +2,1 @@", "-b", "+B",
				"@@ -5,1 +5,1 @@", "-e", "+E",
			},
		},
		{
			name:     "unicode passes through",
			original: []string{"héllo", "wörld"},
			revised:  []string{"héllo", "wörld 🌍"},
			wantLines: []string{
				"--- Original", "+++ Revised",
				PlaceholderHeader,
				"@@ -2,1 +2,1 @@", "-wörld", "+wörld 🌍",
			},
		},
	}

	for _, engine := range Engines() {
		for _, tt := range tests {
			t.Run(string(engine)+"/"+tt.name, func(t *testing.T) {
				d, err := Generate(tt.original, tt.revised, WithEngine(engine))
				if err != nil {
					t.Fatalf("Generate() error = %v", err)
				}
				if diff := cmp.Diff(tt.wantLines, d.Lines()); diff != "" {
					t.Errorf("Generate() lines mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestGenerateIdenticalIsPlaceholder(t *testing.T) {
	d, err := Generate([]string{"x", "y", "z"}, []string{"x", "y", "z"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(d.Hunks) != 1 || !d.Hunks[0].IsPlaceholder() {
		t.Fatalf("Hunks = %+v, want single placeholder", d.Hunks)
	}
	if d.Differences() != 0 {
		t.Errorf("Differences() = %d, want 0", d.Differences())
	}
}

func TestGenerateAdditionsOnly(t *testing.T) {
	d, err := Generate([]string{}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	added, removed := d.Stats()
	if added != 2 || removed != 0 {
		t.Errorf("Stats() = (%d, %d), want (2, 0)", added, removed)
	}
}

func TestGenerateNames(t *testing.T) {
	d, err := Generate([]string{"a"}, []string{"b"}, WithNames("a/old.txt", "b/new.txt"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if d.OriginalName != "a/old.txt" || d.RevisedName != "b/new.txt" {
		t.Errorf("names = %q, %q", d.OriginalName, d.RevisedName)
	}

	d, err = Generate([]string{"a"}, []string{"b"}, WithNames("", ""))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if d.OriginalName != DefaultOriginalName || d.RevisedName != DefaultRevisedName {
		t.Errorf("empty names should keep defaults, got %q, %q", d.OriginalName, d.RevisedName)
	}
}

func TestGenerateUnknownEngine(t *testing.T) {
	_, err := Generate([]string{"a"}, []string{"b"}, WithEngine("patience"))
	if !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("Generate() error = %v, want ErrUnknownEngine", err)
	}
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in      string
		want    Engine
		wantErr bool
	}{
		{"", DefaultEngine, false},
		{"myers", EngineMyers, false},
		{" Difflib ", EngineDifflib, false},
		{"OPTIMAL", EngineOptimal, false},
		{"histogram", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEngine(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEngine(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEngine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEngineParity(t *testing.T) {
	testCases := []struct {
		name string
		old  []string
		new  []string
	}{
		{
			name: "single line replace",
			old:  []string{"a", "b", "c"},
			new:  []string{"a", "x", "c"},
		},
		{
			name: "insert block",
			old:  []string{"a", "b", "c"},
			new:  []string{"a", "b", "x", "y", "c"},
		},
		{
			name: "delete block",
			old:  []string{"a", "b", "x", "y", "c"},
			new:  []string{"a", "b", "c"},
		},
		{
			name: "multiple hunks",
			old:  []string{"a", "b", "c", "d", "e", "f", "g"},
			new:  []string{"a", "B", "c", "d", "E", "f", "g"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			baseline, err := Generate(tc.old, tc.new, WithEngine(EngineMyers))
			if err != nil {
				t.Fatalf("baseline Generate() error = %v", err)
			}
			baseAdded, baseRemoved := baseline.Stats()

			for _, engine := range []Engine{EngineDifflib, EngineOptimal} {
				d, err := Generate(tc.old, tc.new, WithEngine(engine))
				if err != nil {
					t.Fatalf("%s Generate() error = %v", engine, err)
				}
				added, removed := d.Stats()
				if added != baseAdded || removed != baseRemoved {
					t.Fatalf("%s stats mismatch: baseline=(%d,%d) got=(%d,%d)", engine, baseAdded, baseRemoved, added, removed)
				}
			}
		})
	}
}

func TestMinimalEnginesWithRepeatedLines(t *testing.T) {
	testCases := []struct {
		name string
		old  []string
		new  []string
	}{
		{
			name: "runs of one line",
			old:  []string{"b", "b", "b", "b", "b", "b", "a", "b", "c", "a"},
			new:  []string{"b", "b", "c", "a", "c", "a", "a"},
		},
		{
			name: "alternating lines",
			old:  []string{"a", "b", "a", "b", "a", "b", "c"},
			new:  []string{"b", "a", "b", "c", "a", "b", "a"},
		},
		{
			name: "blank lines",
			old:  []string{"", "x", "", "", "y", "", "z"},
			new:  []string{"", "", "x", "", "z", "", ""},
		},
	}

	// difflib's SequenceMatcher is heuristic and may use more edits.
	for _, tc := range testCases {
		want := len(tc.old) + len(tc.new) - 2*lcsLength(tc.old, tc.new)
		for _, engine := range []Engine{EngineMyers, EngineOptimal} {
			t.Run(tc.name+"/"+string(engine), func(t *testing.T) {
				d, err := Generate(tc.old, tc.new, WithEngine(engine))
				if err != nil {
					t.Fatalf("Generate() error = %v", err)
				}
				added, removed := d.Stats()
				if added+removed != want {
					t.Fatalf("edits = %d (+%d -%d), want %d", added+removed, added, removed, want)
				}
			})
		}
	}
}

func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	for i := range a {
		cur := make([]int, len(b)+1)
		for j := range b {
			if a[i] == b[j] {
				cur[j+1] = prev[j] + 1
			} else {
				cur[j+1] = max(prev[j+1], cur[j])
			}
		}
		prev = cur
	}
	return prev[len(b)]
}

func TestHunkLineCountsMatchHeaders(t *testing.T) {
	d, err := Generate(
		[]string{"a", "b", "c", "d", "e", "f"},
		[]string{"b", "c", "x", "y", "e", "f", "g"},
	)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, hunk := range d.Hunks {
		if len(hunk.oldSide()) != hunk.OldCount || len(hunk.newSide()) != hunk.NewCount {
			t.Errorf("hunk %s holds old=%d new=%d lines", hunk.Header(), len(hunk.oldSide()), len(hunk.newSide()))
		}
	}
}
