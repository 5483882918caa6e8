package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"patch_visualizer/internal/diffcore"
	"patch_visualizer/internal/render"
	"patch_visualizer/internal/visualizer"
)

const (
	formatHTML = "html"
	formatText = "text"
	formatTerm = "term"
)

// output holds the --format and --output flags of a command.
type output struct {
	format string
	path   string
}

func (o *output) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", formatHTML, "output format: html, text or term")
	cmd.Flags().StringVarP(&o.path, "output", "o", "", "write to this file instead of stdout")
}

func (o output) validate() error {
	switch o.format {
	case formatHTML, formatText, formatTerm:
		return nil
	default:
		return fmt.Errorf("invalid output format: %s", o.format)
	}
}

// result is what a command shows: unified diff blocks for html and text output, and merged views
// for terminal output.
type result struct {
	title  string
	blocks [][]string
	views  []diffcore.MergedView
}

func comparisonResult(title string, comparisons ...visualizer.Comparison) result {
	r := result{title: title, blocks: visualizer.Blocks(comparisons)}
	for _, c := range comparisons {
		r.views = append(r.views, c.View)
	}
	return r
}

// patchResult shows patch text as is; terminal output renders every file's hunks.
func patchResult(title string, patch visualizer.Patch) (result, error) {
	r := result{title: title, blocks: [][]string{patch.Lines}}
	files, err := diffcore.ParseUnifiedFiles(patch.Lines)
	if err != nil {
		return r, err
	}
	for _, d := range files {
		r.views = append(r.views, diffcore.Merge(nil, d))
	}
	return r, nil
}

// emit writes r in the selected format to the output file or stdout.
func (a *app) emit(cmd *cobra.Command, o output, r result) error {
	if o.format == formatHTML && o.path != "" {
		if err := a.service.WriteHTML(o.path, r.title, r.blocks); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", o.path)
		return nil
	}

	var content string
	switch o.format {
	case formatHTML:
		page, err := a.service.RenderHTML(r.title, r.blocks)
		if err != nil {
			return err
		}
		content = page

	case formatText:
		var b strings.Builder
		for i, block := range r.blocks {
			if i > 0 {
				b.WriteByte('\n')
			}
			for _, line := range block {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
		content = b.String()

	case formatTerm:
		var w io.Writer = cmd.OutOrStdout()
		if o.path != "" {
			w = io.Discard
		}
		opts := render.TerminalOptions{
			Highlight: true,
			Renderer:  lipgloss.NewRenderer(w),
		}
		var b strings.Builder
		for i, view := range r.views {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(render.Terminal(view, opts))
		}
		content = b.String()
	}

	return writeOutput(cmd.OutOrStdout(), o.path, content)
}

// writeOutput writes content to path, or to w when path is empty.
func writeOutput(w io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(w, content)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
