// Package tui is the interactive full-context diff viewer.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"patch_visualizer/internal/diffcore"
	"patch_visualizer/internal/render"
)

// Loader produces the view to show. It is called at startup, on reload and whenever a watched
// file changes.
type Loader func() (diffcore.MergedView, error)

// Options configures a Model.
type Options struct {
	Title  string
	Loader Loader
	// Watcher triggers reloads; nil disables live reload.
	Watcher *Watcher
	// Summary describes the loaded view in the header; nil hides the summary.
	Summary   func(diffcore.MergedView) string
	Highlight bool
	Renderer  *lipgloss.Renderer
}

// Model holds the viewer state
type Model struct {
	opts     Options
	keys     keyMap
	help     help.Model
	styles   render.Styles
	viewport viewport.Model

	view     diffcore.MergedView
	rendered render.TerminalView
	loaded   bool
	reloads  int

	width     int
	height    int
	ready     bool
	highlight bool
	showHelp  bool
	quitting  bool
	err       error
}

// New creates a viewer model.
func New(opts Options) Model {
	return Model{
		opts:      opts,
		keys:      defaultKeyMap(),
		help:      help.New(),
		styles:    render.NewStyles(opts.Renderer),
		viewport:  viewport.New(0, 0),
		highlight: opts.Highlight,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.opts.Watcher == nil {
		return m.loadView()
	}
	return tea.Batch(m.loadView(), m.opts.Watcher.WaitForChange())
}

// loadView runs the loader off the update loop.
func (m Model) loadView() tea.Cmd {
	load := m.opts.Loader
	return func() tea.Msg {
		if load == nil {
			return errMsg{errNoLoader}
		}
		view, err := load()
		if err != nil {
			return errMsg{err}
		}
		return viewLoadedMsg{view: view}
	}
}

// Messages

type viewLoadedMsg struct {
	view diffcore.MergedView
}

type errMsg struct {
	err error
}
