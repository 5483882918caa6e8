package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

//go:embed assets
var embeddedAssets embed.FS

const (
	FormatSideBySide = "side-by-side"
	FormatLineByLine = "line-by-line"

	DefaultTitle = "Diff"

	stylesheetAsset = "diffview.css"
	scriptAsset     = "diffview.js"
)

var ErrUnknownFormat = errors.New("unknown output format")

// HTMLOptions controls the generated page.
type HTMLOptions struct {
	Title        string
	OutputFormat string
	// AssetsDir replaces the embedded stylesheet and script with files from a directory.
	// Missing files render as empty assets.
	AssetsDir string
	Minify    bool
	Lang      string
}

func (o HTMLOptions) withDefaults() (HTMLOptions, error) {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Lang == "" {
		o.Lang = "en"
	}
	switch o.OutputFormat {
	case "":
		o.OutputFormat = FormatSideBySide
	case FormatSideBySide, FormatLineByLine:
	default:
		return o, fmt.Errorf("%w: %q", ErrUnknownFormat, o.OutputFormat)
	}
	return o, nil
}

type pageData struct {
	Title        string
	Lang         string
	OutputFormat string
	Stylesheet   string
	Script       string
	DiffString   string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Lang | html}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title | html}}</title>
<style>
{{.Stylesheet}}
</style>
<script>
{{.Script}}
</script>
</head>
<body>
<div id="diff-view"></div>
<script>
const diffString = ` + "`{{.DiffString}}`" + `;
document.addEventListener('DOMContentLoaded', function () {
  const target = document.getElementById('diff-view');
  const configuration = {
    drawFileList: true,
    fileListToggle: false,
    fileContentToggle: true,
    matching: 'lines',
    outputFormat: '{{.OutputFormat}}',
    renderNothingWhenEmpty: false,
  };
  new DiffViewUI(target, diffString, configuration).draw();
});
</script>
</body>
</html>
`))

var templateTextEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`$`, `\$`,
	`</`, `<\/`,
)

// EscapeTemplateText escapes a line so it can sit inside a JavaScript template literal in a
// <script> element without ending the literal, interpolating, or closing the element.
func EscapeTemplateText(line string) string {
	return templateTextEscaper.Replace(line)
}

// DiffString joins diff blocks into the literal embedded in the page. Every line is escaped and
// terminated by a newline, and blocks are separated by one more newline.
func DiffString(blocks [][]string) string {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		var b strings.Builder
		for _, line := range block {
			b.WriteString(EscapeTemplateText(line))
			b.WriteByte('\n')
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n")
}

// HTML renders a self-contained page showing every block of unified diff text.
func HTML(blocks [][]string, opts HTMLOptions) (string, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return "", err
	}

	assets := assetFS(opts.AssetsDir)
	data := pageData{
		Title:        opts.Title,
		Lang:         opts.Lang,
		OutputFormat: opts.OutputFormat,
		Stylesheet:   readAsset(assets, stylesheetAsset),
		Script:       readAsset(assets, scriptAsset),
		DiffString:   DiffString(blocks),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	if !opts.Minify {
		return buf.String(), nil
	}

	out, err := newMinifier().Bytes("text/html", buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to minify html: %w", err)
	}
	return string(out), nil
}

// WriteHTML renders blocks and writes the page to path, creating parent directories.
func WriteHTML(path string, blocks [][]string, opts HTMLOptions) error {
	page, err := HTML(blocks, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return fmt.Errorf("failed to write html: %w", err)
	}
	return nil
}

func assetFS(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// readAsset returns the asset's content, or "" when it cannot be read.
func readAsset(fsys fs.FS, name string) string {
	if fsys == nil {
		return ""
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return ""
	}
	return string(data)
}

func newMinifier() *minify.M {
	minifier := minify.New()
	minifier.AddFunc("text/css", css.Minify)
	minifier.AddFunc("text/html", minhtml.Minify)
	minifier.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	return minifier
}
