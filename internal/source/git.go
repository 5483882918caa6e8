package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"patch_visualizer/internal/diffcore"
)

// ErrNotInRepository is returned when a path is not inside a git worktree.
var ErrNotInRepository = errors.New("not inside a git repository")

// GitRepo reads file versions from a git repository and its worktree.
type GitRepo struct {
	repo   *git.Repository
	root   string
	reader *Reader
}

// OpenGitRepo opens the repository containing path, searching parent directories. A nil reader
// reads without a size limit.
func OpenGitRepo(path string, reader *Reader) (*GitRepo, error) {
	if reader == nil {
		reader = NewReader(0, nil)
	}
	start, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		start = filepath.Dir(start)
	}

	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotInRepository, path)
		}
		return nil, fmt.Errorf("failed to open git repository at %s: %w", start, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	return &GitRepo{repo: repo, root: worktree.Filesystem.Root(), reader: reader}, nil
}

// Root returns the worktree root directory.
func (g *GitRepo) Root() string {
	return g.root
}

// RelPath converts path to a slash-separated path relative to the worktree root.
func (g *GitRepo) RelPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	rel, err := filepath.Rel(g.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside %s", ErrNotInRepository, path, g.root)
	}
	return filepath.ToSlash(rel), nil
}

// RevisionDocument returns relPath as of rev. A file missing at rev yields an empty /dev/null
// document.
func (g *GitRepo) RevisionDocument(rev, relPath string) (Document, error) {
	commit, err := g.commit(rev)
	if err != nil {
		return Document{}, err
	}

	file, err := commit.File(relPath)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return emptyDocument(), nil
		}
		return Document{}, fmt.Errorf("failed to get file %s from %s: %w", relPath, rev, err)
	}
	if err := g.reader.enforceSizeLimit(relPath, file.Size); err != nil {
		return Document{}, err
	}

	content, err := file.Contents()
	if err != nil {
		return Document{}, fmt.Errorf("failed to read file %s from %s: %w", relPath, rev, err)
	}
	lines, err := g.reader.decodeLines(relPath, []byte(content))
	if err != nil {
		return Document{}, err
	}
	return Document{Name: "a/" + relPath, Lines: lines}, nil
}

// WorktreeDocument returns the current worktree content of relPath. A deleted file yields an empty
// /dev/null document.
func (g *GitRepo) WorktreeDocument(relPath string) (Document, error) {
	doc, err := g.reader.ReadDocument(filepath.Join(g.root, filepath.FromSlash(relPath)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return emptyDocument(), nil
		}
		return Document{}, err
	}
	doc.Name = "b/" + relPath
	return doc, nil
}

// CommitPatch returns the unified diff a commit introduces relative to its first parent. A root
// commit is diffed against the empty tree.
func (g *GitRepo) CommitPatch(rev string) ([]string, error) {
	commit, err := g.commit(rev)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree of %s: %w", rev, err)
	}

	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("failed to get parent of %s: %w", rev, err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return nil, fmt.Errorf("failed to get tree of parent of %s: %w", rev, err)
		}
	}

	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s: %w", rev, err)
	}
	patch, err := changes.Patch()
	if err != nil {
		return nil, fmt.Errorf("failed to get patch: %w", err)
	}
	return diffcore.SplitLines(patch.String()), nil
}

func (g *GitRepo) commit(rev string) (*object.Commit, error) {
	hash, err := g.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %s: %w", rev, err)
	}
	commit, err := g.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", rev, err)
	}
	return commit, nil
}
