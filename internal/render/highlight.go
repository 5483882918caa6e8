package render

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter colors single lines of source by the lexer chosen for a file name.
type Highlighter struct {
	style    *chroma.Style
	renderer *lipgloss.Renderer

	mu     sync.Mutex
	lexers map[string]chroma.Lexer
}

// NewHighlighter uses the monokai style; a nil renderer uses the default one.
func NewHighlighter(r *lipgloss.Renderer) *Highlighter {
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Highlighter{
		style:    style,
		renderer: r,
		lexers:   make(map[string]chroma.Lexer),
	}
}

// Highlight returns line styled for the language of fileName, or line unchanged when no lexer
// matches.
func (h *Highlighter) Highlight(line, fileName string) string {
	lexer := h.lexer(fileName)
	if lexer == nil {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var result strings.Builder
	for _, token := range iterator.Tokens() {
		// Lexers may emit a trailing newline for a single line.
		value := strings.TrimSuffix(token.Value, "\n")
		if value == "" {
			continue
		}
		token.Value = value
		result.WriteString(h.styleToken(token))
	}
	return result.String()
}

func (h *Highlighter) lexer(fileName string) chroma.Lexer {
	if fileName == "" {
		return nil
	}
	base := filepath.Base(fileName)

	h.mu.Lock()
	defer h.mu.Unlock()
	if lexer, ok := h.lexers[base]; ok {
		return lexer
	}
	lexer := findLexer(base)
	h.lexers[base] = lexer
	return lexer
}

func findLexer(base string) chroma.Lexer {
	if lexer := lexers.Match(base); lexer != nil {
		return chroma.Coalesce(lexer)
	}

	var name string
	switch strings.ToLower(filepath.Ext(base)) {
	case ".mjs", ".cjs":
		name = "javascript"
	case ".kts":
		name = "kotlin"
	case ".mk":
		name = "make"
	case ".zsh":
		name = "bash"
	case ".xhtml":
		name = "xml"
	default:
		return nil
	}
	if lexer := lexers.Get(name); lexer != nil {
		return chroma.Coalesce(lexer)
	}
	return nil
}

func (h *Highlighter) styleToken(token chroma.Token) string {
	entry := h.style.Get(token.Type)
	if entry == (chroma.StyleEntry{}) {
		return token.Value
	}

	style := h.renderer.NewStyle()
	if entry.Colour.IsSet() {
		style = style.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		style = style.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		style = style.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		style = style.Underline(true)
	}
	return style.Render(token.Value)
}
