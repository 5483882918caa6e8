package source

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPairDirectories(t *testing.T) {
	originalDir := t.TempDir()
	revisedDir := t.TempDir()

	writeFile(t, originalDir, "same.txt", []byte("x\n"))
	writeFile(t, originalDir, "removed.txt", []byte("x\n"))
	writeFile(t, originalDir, "src/main.go", []byte("package main\n"))
	writeFile(t, revisedDir, "same.txt", []byte("y\n"))
	writeFile(t, revisedDir, "src/main.go", []byte("package main\n\nfunc main() {}\n"))
	writeFile(t, revisedDir, "src/util/added.go", []byte("package util\n"))

	pairs, err := PairDirectories(originalDir, revisedDir, "")
	if err != nil {
		t.Fatalf("PairDirectories() error = %v", err)
	}

	want := []FilePair{
		{RelPath: "removed.txt", OriginalPath: filepath.Join(originalDir, "removed.txt")},
		{RelPath: "same.txt", OriginalPath: filepath.Join(originalDir, "same.txt"), RevisedPath: filepath.Join(revisedDir, "same.txt")},
		{RelPath: "src/main.go", OriginalPath: filepath.Join(originalDir, "src", "main.go"), RevisedPath: filepath.Join(revisedDir, "src", "main.go")},
		{RelPath: "src/util/added.go", RevisedPath: filepath.Join(revisedDir, "src", "util", "added.go")},
	}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Errorf("PairDirectories() mismatch (-want +got):\n%s", diff)
	}
}

func TestPairDirectoriesPattern(t *testing.T) {
	originalDir := t.TempDir()
	revisedDir := t.TempDir()
	writeFile(t, originalDir, "a.go", []byte("a\n"))
	writeFile(t, originalDir, "docs/readme.md", []byte("a\n"))
	writeFile(t, revisedDir, "pkg/b.go", []byte("b\n"))

	pairs, err := PairDirectories(originalDir, revisedDir, "**/*.go")
	if err != nil {
		t.Fatalf("PairDirectories() error = %v", err)
	}
	var got []string
	for _, pair := range pairs {
		got = append(got, pair.RelPath)
	}
	if diff := cmp.Diff([]string{"a.go", "pkg/b.go"}, got); diff != "" {
		t.Errorf("RelPaths mismatch (-want +got):\n%s", diff)
	}
}

func TestPairDirectoriesErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "f.txt", []byte("x"))

	if _, err := PairDirectories(dir, filepath.Join(dir, "missing"), ""); err == nil {
		t.Error("missing directory: want error")
	}
	if _, err := PairDirectories(dir, file, ""); err == nil {
		t.Error("file as directory: want error")
	}
	if _, err := PairDirectories(dir, dir, "[unclosed"); err == nil {
		t.Error("bad pattern: want error")
	}
}
