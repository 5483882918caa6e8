package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every file below a directory.
const DefaultPattern = "**/*"

// FilePair is one relative path found below either of two directories. A side where the file does
// not exist has an empty path.
type FilePair struct {
	RelPath      string
	OriginalPath string
	RevisedPath  string
}

// PairDirectories lists the files matching pattern below both directories, paired by relative
// path and sorted.
func PairDirectories(originalDir, revisedDir, pattern string) ([]FilePair, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid include pattern %q", pattern)
	}

	originalFiles, err := globFiles(originalDir, pattern)
	if err != nil {
		return nil, err
	}
	revisedFiles, err := globFiles(revisedDir, pattern)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]*FilePair, len(originalFiles)+len(revisedFiles))
	pairFor := func(rel string) *FilePair {
		pair, ok := byPath[rel]
		if !ok {
			pair = &FilePair{RelPath: rel}
			byPath[rel] = pair
		}
		return pair
	}
	for _, rel := range originalFiles {
		pairFor(rel).OriginalPath = filepath.Join(originalDir, filepath.FromSlash(rel))
	}
	for _, rel := range revisedFiles {
		pairFor(rel).RevisedPath = filepath.Join(revisedDir, filepath.FromSlash(rel))
	}

	paths := make([]string, 0, len(byPath))
	for rel := range byPath {
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	pairs := make([]FilePair, 0, len(paths))
	for _, rel := range paths {
		pairs = append(pairs, *byPath[rel])
	}
	return pairs, nil
}

func globFiles(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to match %q in %s: %w", pattern, dir, err)
	}
	return matches, nil
}
