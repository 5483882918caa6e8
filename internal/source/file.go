// Package source reads the documents that get compared: plain files, git revisions and paired
// directory trees.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"patch_visualizer/internal/diffcore"
	"patch_visualizer/internal/logging"
)

// DevNull labels the missing side of an added or deleted file.
const DevNull = "/dev/null"

var (
	// ErrFileTooLarge is returned for documents above the reader's size limit.
	ErrFileTooLarge = errors.New("file too large to diff")
	// ErrDecode is returned for content that is neither UTF-8 nor BOM-marked UTF-16.
	ErrDecode = errors.New("cannot decode text")
)

// Document is one version of a line-oriented text.
type Document struct {
	// Path is where the document was read from; empty for documents that do not exist.
	Path string
	// Name is the label shown in "---"/"+++" lines.
	Name  string
	Lines []string
}

// emptyDocument stands in for the missing side of an added or deleted file.
func emptyDocument() Document {
	return Document{Name: DevNull, Lines: []string{}}
}

// Reader loads documents from disk, enforcing a size limit.
type Reader struct {
	MaxFileSize int64
	Logger      *logging.Logger
}

// NewReader returns a Reader. A non-positive maxFileSize disables the limit.
func NewReader(maxFileSize int64, logger *logging.Logger) *Reader {
	return &Reader{MaxFileSize: maxFileSize, Logger: logger}
}

// ReadDocument reads and decodes the file at path. The document is labelled with the file's base
// name. An empty path yields an empty /dev/null document.
func (r *Reader) ReadDocument(path string) (Document, error) {
	if path == "" {
		return emptyDocument(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.IsDir() {
		return Document{}, fmt.Errorf("failed to read %s: is a directory", path)
	}
	if err := r.enforceSizeLimit(path, info.Size()); err != nil {
		return Document{}, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	lines, err := r.decodeLines(path, content)
	if err != nil {
		return Document{}, err
	}
	return Document{Path: path, Name: filepath.Base(path), Lines: lines}, nil
}

// ReadStream reads a whole document from rd, labelled name.
func (r *Reader) ReadStream(rd io.Reader, name string) (Document, error) {
	limit := r.MaxFileSize
	if limit > 0 {
		// One extra byte tells "exactly at the limit" apart from "over it".
		rd = io.LimitReader(rd, limit+1)
	}
	content, err := io.ReadAll(rd)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := r.enforceSizeLimit(name, int64(len(content))); err != nil {
		return Document{}, err
	}
	lines, err := r.decodeLines(name, content)
	if err != nil {
		return Document{}, err
	}
	return Document{Name: name, Lines: lines}, nil
}

// ReadPair reads both documents concurrently.
func (r *Reader) ReadPair(ctx context.Context, originalPath, revisedPath string) (Document, Document, error) {
	var original, revised Document
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := r.ReadDocument(originalPath)
		original = doc
		return err
	})
	g.Go(func() error {
		doc, err := r.ReadDocument(revisedPath)
		revised = doc
		return err
	})
	if err := g.Wait(); err != nil {
		return Document{}, Document{}, err
	}
	return original, revised, nil
}

func (r *Reader) decodeLines(name string, content []byte) ([]string, error) {
	text, err := DecodeText(content)
	if err != nil {
		r.Logger.Warn("Cannot decode document", map[string]any{"file": name, "size": len(content)})
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return SplitDocument(text), nil
}

// enforceSizeLimit checks if file content exceeds the size limit
func (r *Reader) enforceSizeLimit(name string, size int64) error {
	if r.MaxFileSize <= 0 || size <= r.MaxFileSize {
		return nil
	}
	r.Logger.Warn("File too large to diff", map[string]any{
		"file": name,
		"size": size,
		"max":  r.MaxFileSize,
	})
	return fmt.Errorf("%w: %s (%d > %d)", ErrFileTooLarge, name, size, r.MaxFileSize)
}

// DecodeText converts file content to a string. UTF-16 content is accepted when it starts with a
// byte order mark; anything else must be valid UTF-8, with or without a BOM.
func DecodeText(content []byte) (string, error) {
	if !hasUTF16BOM(content) && !utf8.Valid(content) {
		return "", ErrDecode
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), content)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return string(decoded), nil
}

func hasUTF16BOM(content []byte) bool {
	if len(content) < 2 {
		return false
	}
	return (content[0] == 0xFF && content[1] == 0xFE) || (content[0] == 0xFE && content[1] == 0xFF)
}

// SplitDocument splits text into lines, accepting "\n", "\r\n" and "\r" terminators. A final
// terminator does not start an extra empty line.
func SplitDocument(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return diffcore.SplitLines(text)
}
