package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"patch_visualizer/internal/diffcore"
)

const (
	tabWidth = 4
	ellipsis = "…"
)

// TerminalOptions controls RenderTerminal.
type TerminalOptions struct {
	// Width truncates content to fit the given number of cells; zero disables truncation.
	Width           int
	Highlight       bool
	HideLineNumbers bool
	// HideHeader leaves out the file labels and the stats line.
	HideHeader bool
	Renderer   *lipgloss.Renderer
}

// TerminalView is a merged view rendered for a terminal.
type TerminalView struct {
	Lines []string
	// Changes holds the index into Lines of the first line of every run of added or removed lines.
	Changes []int
}

// String joins the rendered lines.
func (v TerminalView) String() string {
	if len(v.Lines) == 0 {
		return ""
	}
	return strings.Join(v.Lines, "\n") + "\n"
}

type terminalRow struct {
	header  string
	line    diffcore.DiffLine
	oldLine int
	newLine int
}

// RenderTerminal draws a merged view with a two-column line number gutter, one styled line per
// document line, and a header line for every hunk.
func RenderTerminal(view diffcore.MergedView, opts TerminalOptions) TerminalView {
	styles := NewStyles(opts.Renderer)
	var highlighter *Highlighter
	if opts.Highlight {
		highlighter = NewHighlighter(opts.Renderer)
	}

	rows, maxLine := terminalRows(view)
	gutter := len(strconv.Itoa(maxLine))

	var out TerminalView
	if !opts.HideHeader {
		added, removed := view.Stats()
		out.Lines = append(out.Lines,
			styles.Header.Render("--- "+view.OriginalName),
			styles.Header.Render("+++ "+view.RevisedLabel()),
			styles.Stats.Render(fmt.Sprintf("%d differences", view.Differences))+" "+
				styles.AddedPrefix.Render(fmt.Sprintf("+%d", added))+" "+
				styles.RemovedPrefix.Render(fmt.Sprintf("-%d", removed)),
		)
	}

	contentWidth := 0
	if opts.Width > 0 {
		used := 2
		if !opts.HideLineNumbers {
			used += 2*gutter + 4
		}
		contentWidth = max(opts.Width-used, 1)
	}

	inChange := false
	for _, row := range rows {
		if row.header != "" {
			out.Lines = append(out.Lines, styles.Hunk.Render(fitWidth(row.header, opts.Width)))
			inChange = false
			continue
		}

		content := strings.ReplaceAll(row.line.Content, "\t", strings.Repeat(" ", tabWidth))
		if contentWidth > 0 {
			content = runewidth.Truncate(content, contentWidth, ellipsis)
		}

		var prefixStyle, contentStyle lipgloss.Style
		switch row.line.Type {
		case diffcore.LineAdded:
			prefixStyle, contentStyle = styles.AddedPrefix, styles.Added
		case diffcore.LineRemoved:
			prefixStyle, contentStyle = styles.RemovedPrefix, styles.Removed
		default:
			prefixStyle, contentStyle = styles.Context, styles.Context
		}

		styled := contentStyle.Render(content)
		if highlighter != nil && row.line.Type == diffcore.LineContext {
			styled = highlighter.Highlight(content, view.RevisedName)
		}

		var b strings.Builder
		if !opts.HideLineNumbers {
			b.WriteString(styles.LineNum.Render(gutterNumber(row.oldLine, gutter) + " " + gutterNumber(row.newLine, gutter)))
			b.WriteString(styles.Subtle.Render(" │ "))
		}
		b.WriteString(prefixStyle.Render(row.line.Type.Prefix()))
		b.WriteByte(' ')
		b.WriteString(styled)

		changed := row.line.Type != diffcore.LineContext
		if changed && !inChange {
			out.Changes = append(out.Changes, len(out.Lines))
		}
		inChange = changed
		out.Lines = append(out.Lines, b.String())
	}
	return out
}

// Terminal renders view as a single string.
func Terminal(view diffcore.MergedView, opts TerminalOptions) string {
	return RenderTerminal(view, opts).String()
}

// terminalRows numbers every line of the view. Numbering restarts at each hunk header so views
// that only hold hunks still show document positions.
func terminalRows(view diffcore.MergedView) ([]terminalRow, int) {
	var rows []terminalRow
	oldLine, newLine, maxLine := 0, 0, 0
	for _, section := range view.Sections {
		if !section.Hunk.IsZero() {
			rows = append(rows, terminalRow{header: section.Hunk.String()})
			oldLine = section.Hunk.OldIndex()
			newLine = section.Hunk.NewStart
			if section.Hunk.NewCount > 0 {
				newLine--
			}
		}
		for _, line := range section.Lines {
			row := terminalRow{line: line}
			switch line.Type {
			case diffcore.LineContext:
				oldLine++
				newLine++
				row.oldLine, row.newLine = oldLine, newLine
			case diffcore.LineRemoved:
				oldLine++
				row.oldLine = oldLine
			case diffcore.LineAdded:
				newLine++
				row.newLine = newLine
			}
			maxLine = max(maxLine, oldLine, newLine)
			rows = append(rows, row)
		}
	}
	return rows, max(maxLine, 1)
}

func gutterNumber(n, width int) string {
	if n <= 0 {
		return strings.Repeat(" ", width)
	}
	return fmt.Sprintf("%*d", width, n)
}

func fitWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}
