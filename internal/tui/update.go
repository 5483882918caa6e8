package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"patch_visualizer/internal/render"
)

var errNoLoader = errors.New("no view loader configured")

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			m.resize()
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			return m, m.loadView()

		case key.Matches(msg, m.keys.NextChange):
			m.jumpToChange(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevChange):
			m.jumpToChange(-1)
			return m, nil

		case key.Matches(msg, m.keys.Highlight):
			m.highlight = !m.highlight
			m.refresh()
			return m, nil

		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil

		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case viewLoadedMsg:
		m.view = msg.view
		if m.loaded {
			m.reloads++
		}
		m.loaded = true
		m.err = nil
		m.refresh()
		return m, nil

	case FSChangeMsg:
		if m.opts.Watcher == nil {
			return m, m.loadView()
		}
		return m, tea.Batch(m.loadView(), m.opts.Watcher.WaitForChange())

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// resize fits the viewport to the window and re-renders for the new width.
func (m *Model) resize() {
	if !m.ready {
		return
	}
	width, height := viewportSize(m.width, m.height, m.showHelp)
	m.viewport.Width = width
	m.viewport.Height = height
	m.help.Width = m.width
	m.refresh()
}

// refresh re-renders the loaded view into the viewport, keeping the scroll position.
func (m *Model) refresh() {
	if !m.loaded {
		return
	}
	width := 0
	if m.ready {
		width = m.viewport.Width
	}
	m.rendered = render.RenderTerminal(m.view, render.TerminalOptions{
		Width:      width,
		Highlight:  m.highlight,
		HideHeader: true,
		Renderer:   m.opts.Renderer,
	})
	m.viewport.SetContent(m.rendered.String())
}

// jumpToChange scrolls to the next (dir > 0) or previous run of changed lines.
func (m *Model) jumpToChange(dir int) {
	offset := m.viewport.YOffset
	changes := m.rendered.Changes
	if dir > 0 {
		for _, line := range changes {
			if line > offset {
				m.viewport.SetYOffset(line)
				return
			}
		}
		return
	}
	for i := len(changes) - 1; i >= 0; i-- {
		if changes[i] < offset {
			m.viewport.SetYOffset(changes[i])
			return
		}
	}
}
