// Package render draws diffs for people: a self-contained HTML page built around an embedded
// diff viewer script, and styled terminal output of a merged view.
package render
