// Package diffcore builds whole-file diff views from two versions of a line-oriented document.
//
// Generate turns two line sequences into a UnifiedDiff whose hunks carry zero lines of context, so
// hunk boundaries sit exactly on the edges of changed regions. Merge splices those hunks back into
// the full original document, producing a MergedView in which every original line appears exactly
// once (as context or removed) and every revised-only line appears as added at its position.
//
// A diff with no real changes, or whose first change does not touch the first original line, starts
// with a placeholder hunk ("@@ -0,0 +0,0 @@"). The placeholder is the section that carries the
// unchanged lines preceding the first change.
//
// SanitizePatch bounds the size of binary sections embedded in imported patch text, and
// ApplyPatch reconstructs the revised side of a unified diff against a base document.
//
// Everything in this package is synchronous and free of shared state.
package diffcore
