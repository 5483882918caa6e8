// Package visualizer ties document sources, the diff core and the renderers together. Every
// command of the CLI and the interactive viewer goes through a Service.
package visualizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/message"

	"patch_visualizer/internal/config"
	"patch_visualizer/internal/diffcore"
	"patch_visualizer/internal/logging"
	"patch_visualizer/internal/render"
	"patch_visualizer/internal/source"
)

// Comparison is a full-context view of two documents.
type Comparison struct {
	Original source.Document
	Revised  source.Document
	Diff     diffcore.UnifiedDiff
	View     diffcore.MergedView
}

// Text is the merged view as unified diff text.
func (c Comparison) Text() []string {
	return c.View.Text()
}

// Patch is sanitized patch text ready to render.
type Patch struct {
	Name   string
	Lines  []string
	Report diffcore.SanitizeReport
}

// Service runs comparisons using one configuration.
type Service struct {
	cfg     *config.Config
	logger  *logging.Logger
	reader  *source.Reader
	patches *source.Reader
	printer *message.Printer
}

// New returns a Service. A nil cfg uses defaults; a nil logger discards log output.
func New(cfg *config.Config, logger *logging.Logger) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{
		cfg:     cfg,
		logger:  logger,
		reader:  source.NewReader(cfg.MaxFileSize, logger),
		patches: source.NewReader(cfg.MaxPatchSize, logger),
		printer: newPrinter(cfg.Locale()),
	}
}

// Config returns the configuration the service was created with.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// ReadDocument reads a single document with the configured size limit.
func (s *Service) ReadDocument(path string) (source.Document, error) {
	doc, err := s.reader.ReadDocument(path)
	if err != nil {
		s.logger.Error("Failed to read document", err, map[string]any{"path": path})
		return source.Document{}, err
	}
	return doc, nil
}

// CompareDocuments diffs two documents and merges the result over the original.
func (s *Service) CompareDocuments(original, revised source.Document) (Comparison, error) {
	engine := s.cfg.DiffEngine()
	d, err := diffcore.Generate(original.Lines, revised.Lines,
		diffcore.WithNames(original.Name, revised.Name),
		diffcore.WithEngine(engine),
	)
	if err != nil {
		s.logger.Error("Failed to compute diff", err, map[string]any{
			"original": original.Name,
			"revised":  revised.Name,
			"engine":   string(engine),
		})
		return Comparison{}, err
	}

	view := diffcore.Merge(original.Lines, d)
	added, removed := d.Stats()
	s.logger.Debug("Compared documents", map[string]any{
		"original":    original.Name,
		"revised":     revised.Name,
		"engine":      string(engine),
		"differences": view.Differences,
		"added":       added,
		"removed":     removed,
	})
	return Comparison{Original: original, Revised: revised, Diff: d, View: view}, nil
}

// CompareFiles reads both files concurrently and compares them. The directories of both files are
// remembered in the configuration.
func (s *Service) CompareFiles(ctx context.Context, originalPath, revisedPath string) (Comparison, error) {
	original, revised, err := s.reader.ReadPair(ctx, originalPath, revisedPath)
	if err != nil {
		s.logger.Error("Failed to read documents", err, map[string]any{
			"original": originalPath,
			"revised":  revisedPath,
		})
		return Comparison{}, fmt.Errorf("failed to read documents: %w", err)
	}

	s.cfg.RememberOriginalDir(originalPath)
	s.cfg.RememberRevisedDir(revisedPath)
	return s.CompareDocuments(original, revised)
}

// LoadPatchFile reads a patch file and sanitizes it. The file's directory is remembered as the last
// import directory.
func (s *Service) LoadPatchFile(path string) (Patch, error) {
	doc, err := s.patches.ReadDocument(path)
	if err != nil {
		s.logger.Error("Failed to read patch", err, map[string]any{"path": path})
		return Patch{}, err
	}
	s.cfg.RememberImportDir(path)
	return s.sanitize(doc.Name, doc.Lines), nil
}

// LoadPatch reads a patch from r and sanitizes it.
func (s *Service) LoadPatch(r io.Reader, name string) (Patch, error) {
	doc, err := s.patches.ReadStream(r, name)
	if err != nil {
		s.logger.Error("Failed to read patch", err, map[string]any{"name": name})
		return Patch{}, err
	}
	return s.sanitize(doc.Name, doc.Lines), nil
}

// PatchFromLines sanitizes patch text that is already in memory.
func (s *Service) PatchFromLines(name string, lines []string) Patch {
	return s.sanitize(name, diffcore.ParsePatchFile(lines))
}

func (s *Service) sanitize(name string, lines []string) Patch {
	sanitized, report := diffcore.SanitizePatchWithReport(lines)
	if report.Truncated() {
		s.logger.Warn("Truncated binary content in patch", map[string]any{
			"name":            name,
			"binary_sections": report.BinarySections,
			"truncated_lines": report.TruncatedLines,
		})
	}
	return Patch{Name: name, Lines: sanitized, Report: report}
}

// MergePatch parses a single-file patch and merges it over base, producing the same full-context
// view as comparing the two documents directly.
func (s *Service) MergePatch(base source.Document, patch Patch) (Comparison, error) {
	d, err := diffcore.ParseUnified(patch.Lines)
	if err != nil {
		s.logger.Error("Failed to parse patch", err, map[string]any{"patch": patch.Name})
		return Comparison{}, err
	}
	return Comparison{Original: base, Diff: d, View: diffcore.Merge(base.Lines, d)}, nil
}

// ApplyPatchFile applies the patch at patchPath to the document at basePath and returns the
// patched lines.
func (s *Service) ApplyPatchFile(ctx context.Context, basePath, patchPath string) ([]string, error) {
	base, patchDoc, err := s.reader.ReadPair(ctx, basePath, patchPath)
	if err != nil {
		s.logger.Error("Failed to read documents", err, map[string]any{
			"base":  basePath,
			"patch": patchPath,
		})
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	patched, err := diffcore.ApplyPatch(base.Lines, patchDoc.Lines)
	if err != nil {
		s.logger.Error("Failed to apply patch", err, map[string]any{
			"base":  basePath,
			"patch": patchPath,
		})
		return nil, err
	}
	s.cfg.RememberImportDir(patchPath)
	s.logger.Info("Applied patch", map[string]any{"base": basePath, "patch": patchPath})
	return patched, nil
}

// CompareGitRevision compares the file at path as of rev against its working tree version.
func (s *Service) CompareGitRevision(path, rev string) (Comparison, error) {
	repo, err := source.OpenGitRepo(path, s.reader)
	if err != nil {
		return Comparison{}, err
	}
	rel, err := repo.RelPath(path)
	if err != nil {
		return Comparison{}, err
	}

	original, err := repo.RevisionDocument(rev, rel)
	if err != nil {
		s.logger.Error("Failed to read revision", err, map[string]any{"rev": rev, "path": rel})
		return Comparison{}, err
	}
	revised, err := repo.WorktreeDocument(rel)
	if err != nil {
		s.logger.Error("Failed to read worktree file", err, map[string]any{"path": rel})
		return Comparison{}, err
	}
	return s.CompareDocuments(original, revised)
}

// CommitPatch returns the sanitized patch a commit introduced. path may be anywhere inside the
// repository.
func (s *Service) CommitPatch(path, rev string) (Patch, error) {
	repo, err := source.OpenGitRepo(path, s.reader)
	if err != nil {
		return Patch{}, err
	}
	lines, err := repo.CommitPatch(rev)
	if err != nil {
		s.logger.Error("Failed to build commit patch", err, map[string]any{"rev": rev})
		return Patch{}, err
	}
	return s.sanitize(rev, lines), nil
}

// CompareDirectories compares every file pair under two directories. Up to Workers pairs are
// compared at once. Pairs that cannot be decoded as text or exceed the size limit are skipped with a
// warning; identical pairs are left out. Results keep the sorted order of relative paths.
func (s *Service) CompareDirectories(ctx context.Context, originalDir, revisedDir, pattern string) ([]Comparison, error) {
	pairs, err := source.PairDirectories(originalDir, revisedDir, pattern)
	if err != nil {
		s.logger.Error("Failed to list directories", err, map[string]any{
			"original": originalDir,
			"revised":  revisedDir,
		})
		return nil, err
	}

	results := make([]*Comparison, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Workers, 1))
	for i, pair := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			comparison, err := s.comparePair(ctx, pair)
			if err != nil {
				return fmt.Errorf("%s: %w", pair.RelPath, err)
			}
			results[i] = comparison
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comparisons := make([]Comparison, 0, len(results))
	for _, c := range results {
		if c != nil {
			comparisons = append(comparisons, *c)
		}
	}
	s.logger.Info("Compared directories", map[string]any{
		"original": originalDir,
		"revised":  revisedDir,
		"files":    len(pairs),
		"changed":  len(comparisons),
	})
	return comparisons, nil
}

func (s *Service) comparePair(ctx context.Context, pair source.FilePair) (*Comparison, error) {
	original, revised, err := s.reader.ReadPair(ctx, pair.OriginalPath, pair.RevisedPath)
	if errors.Is(err, source.ErrDecode) || errors.Is(err, source.ErrFileTooLarge) {
		s.logger.Warn("Skipping file", map[string]any{"path": pair.RelPath, "reason": err.Error()})
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if pair.OriginalPath != "" {
		original.Name = filepath.ToSlash(filepath.Join("a", pair.RelPath))
	}
	if pair.RevisedPath != "" {
		revised.Name = filepath.ToSlash(filepath.Join("b", pair.RelPath))
	}

	comparison, err := s.CompareDocuments(original, revised)
	if err != nil {
		return nil, err
	}
	if comparison.View.Differences == 0 {
		return nil, nil
	}
	return &comparison, nil
}

// HTMLOptions returns page options from the configuration.
func (s *Service) HTMLOptions(title string) render.HTMLOptions {
	return render.HTMLOptions{
		Title:        title,
		OutputFormat: s.cfg.OutputFormat,
		AssetsDir:    s.cfg.AssetsDir,
		Minify:       s.cfg.MinifyHTML,
		Lang:         s.cfg.Locale().String(),
	}
}

// PageTitle is the localized page title for a document name.
func (s *Service) PageTitle(name string) string {
	return s.printer.Sprintf(msgPageTitle, name)
}

// DirectoryTitle is the localized page title for a directory comparison.
func (s *Service) DirectoryTitle(originalDir, revisedDir string) string {
	return s.printer.Sprintf(msgDirectoryPage, originalDir, revisedDir)
}

// Summary describes a view in the configured language.
func (s *Service) Summary(view diffcore.MergedView) string {
	added, removed := view.Stats()
	return s.printer.Sprintf(msgSummary, view.Differences, added, removed)
}

// TruncationNotice describes a sanitize report, or returns "" when nothing was truncated.
func (s *Service) TruncationNotice(report diffcore.SanitizeReport) string {
	if !report.Truncated() {
		return ""
	}
	return s.printer.Sprintf(msgTruncated, report.BinarySections)
}

// RenderHTML renders blocks of unified diff text as a page.
func (s *Service) RenderHTML(title string, blocks [][]string) (string, error) {
	page, err := render.HTML(blocks, s.HTMLOptions(title))
	if err != nil {
		s.logger.Error("Failed to render html", err, nil)
		return "", err
	}
	return page, nil
}

// WriteHTML renders blocks and writes the page to path.
func (s *Service) WriteHTML(path, title string, blocks [][]string) error {
	if err := render.WriteHTML(path, blocks, s.HTMLOptions(title)); err != nil {
		s.logger.Error("Failed to write html", err, map[string]any{"path": path})
		return err
	}
	s.logger.Info("Wrote html", map[string]any{"path": path, "blocks": len(blocks)})
	return nil
}

// Blocks collects the merged text of every comparison for a multi-file page.
func Blocks(comparisons []Comparison) [][]string {
	blocks := make([][]string, 0, len(comparisons))
	for _, c := range comparisons {
		blocks = append(blocks, c.Text())
	}
	return blocks
}
