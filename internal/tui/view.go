package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Header.Render(m.title()),
		" ",
		m.styles.Subtle.Render(fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)),
	)

	panel := m.styles.Panel.
		Width(m.viewport.Width).
		Render(m.viewport.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.statusLine(),
		panel,
		m.help.View(m.keys),
	)
}

func (m Model) title() string {
	if m.opts.Title != "" {
		return m.opts.Title
	}
	if !m.loaded {
		return "patchvis"
	}
	return m.view.OriginalName + " → " + m.view.RevisedName
}

func (m Model) statusLine() string {
	switch {
	case m.err != nil:
		return m.styles.Error.Render("Error: " + m.err.Error())
	case !m.loaded:
		return m.styles.Subtle.Render("Loading...")
	case m.opts.Summary != nil:
		status := m.styles.Stats.Render(m.opts.Summary(m.view))
		if m.reloads > 0 {
			status += m.styles.Subtle.Render(fmt.Sprintf("  (reloaded %d×)", m.reloads))
		}
		return status
	default:
		return m.styles.Stats.Render(fmt.Sprintf("%d differences", m.view.Differences))
	}
}
