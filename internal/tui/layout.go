package tui

// Layout constants for the viewer
const (
	headerRows      = 2 // title + summary
	footerRows      = 1 // short help
	fullHelpRows    = 6
	panelBorderRows = 2 // top + bottom border
	panelBorderCols = 2 // left + right border
)

// viewportSize returns the size of the scrolling area inside the bordered panel.
func viewportSize(totalWidth, totalHeight int, fullHelp bool) (width, height int) {
	footer := footerRows
	if fullHelp {
		footer = fullHelpRows
	}
	width = max(1, totalWidth-panelBorderCols)
	height = max(1, totalHeight-headerRows-footer-panelBorderRows)
	return width, height
}
