package render

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorBlue       = lipgloss.Color("blue")
	colorGray237    = lipgloss.Color("237") // border gray
	colorGray244    = lipgloss.Color("244") // subtle gray
	colorGray245    = lipgloss.Color("245") // light gray
	colorGreen46    = lipgloss.Color("46")  // bright green (+ prefix)
	colorGreen142   = lipgloss.Color("142") // soft green (added content)
	colorRed196     = lipgloss.Color("196") // bright red (- prefix)
	colorRed203     = lipgloss.Color("203") // soft red (removed content)
	colorSoftBlue75 = lipgloss.Color("75")
	colorSoftYellow = lipgloss.Color("229")
)

// Styles holds every style used to draw a merged view. Styles are bound to a renderer so
// output written somewhere other than stdout gets the right color profile.
type Styles struct {
	Header        lipgloss.Style
	Stats         lipgloss.Style
	Subtle        lipgloss.Style
	Hunk          lipgloss.Style
	LineNum       lipgloss.Style
	Context       lipgloss.Style
	Added         lipgloss.Style
	Removed       lipgloss.Style
	AddedPrefix   lipgloss.Style
	RemovedPrefix lipgloss.Style
	Error         lipgloss.Style
	Panel         lipgloss.Style
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
}

// NewStyles builds the palette for r; a nil renderer uses the default one.
func NewStyles(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		Header: r.NewStyle().
			Foreground(colorSoftBlue75).
			Bold(true),
		Stats: r.NewStyle().
			Foreground(colorSoftYellow).
			Bold(true),
		Subtle: r.NewStyle().
			Foreground(colorGray244),
		Hunk: r.NewStyle().
			Foreground(colorGray244),
		LineNum: r.NewStyle().
			Foreground(colorGray244),
		Context: r.NewStyle().
			Foreground(colorGray245),
		Added: r.NewStyle().
			Foreground(colorGreen142).
			Bold(true),
		Removed: r.NewStyle().
			Foreground(colorRed203).
			Bold(true),
		AddedPrefix: r.NewStyle().
			Foreground(colorGreen46).
			Bold(true),
		RemovedPrefix: r.NewStyle().
			Foreground(colorRed196).
			Bold(true),
		Error: r.NewStyle().
			Foreground(colorRed203).
			Bold(true),
		Panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray237),
		HelpKey: r.NewStyle().
			Foreground(colorBlue).
			Bold(true),
		HelpDesc: r.NewStyle().
			Foreground(colorGray244),
	}
}
