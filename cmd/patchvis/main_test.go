package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with args, isolated from the user's config and log file.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("TMPDIR", t.TempDir())

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.json")}, args...))

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed creating dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed writing %s: %v", name, err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	expected := "patchvis " + appVersion + "\n"
	if stdout != expected {
		t.Fatalf("unexpected version output: got %q want %q", stdout, expected)
	}
}

func TestDiffCommandText(t *testing.T) {
	dir := t.TempDir()
	original := writeTestFile(t, dir, "orig.txt", "line 1\nline 2\nline 3\n")
	revised := writeTestFile(t, dir, "rev.txt", "line 1\nline 2 modified\nline 3\n")

	stdout, _, err := execute(t, "", "diff", "-f", "text", original, revised)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}

	expected := strings.Join([]string{
		"--- orig.txt",
		"+++ rev.txt ( 1 different )",
		"@@ -1,1 +1,1 @@",
		" line 1",
		"@@ -2,2 +2,2 @@",
		"-line 2",
		"+line 2 modified",
		" line 3",
	}, "\n") + "\n"
	if stdout != expected {
		t.Fatalf("unexpected diff output:\ngot:\n%s\nwant:\n%s", stdout, expected)
	}
}

func TestDiffCommandHTMLFile(t *testing.T) {
	dir := t.TempDir()
	original := writeTestFile(t, dir, "orig.txt", "a\nb\n")
	revised := writeTestFile(t, dir, "rev.txt", "a\nc\n")
	page := filepath.Join(dir, "out", "diff.html")

	stdout, stderr, err := execute(t, "", "diff", "-o", page, original, revised)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if stdout != "wrote "+page+"\n" {
		t.Fatalf("unexpected stdout: %q", stdout)
	}
	if !strings.Contains(stderr, "differences") {
		t.Fatalf("expected summary on stderr, got %q", stderr)
	}

	content, err := os.ReadFile(page)
	if err != nil {
		t.Fatalf("failed reading page: %v", err)
	}
	for _, want := range []string{"DiffViewUI", "+++ rev.txt ( 1 different )", "-b", "+c"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestDiffCommandInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	original := writeTestFile(t, dir, "orig.txt", "a\n")

	_, _, err := execute(t, "", "diff", "-f", "pdf", original, original)
	if err == nil || !strings.Contains(err.Error(), "invalid output format") {
		t.Fatalf("expected invalid format error, got %v", err)
	}
}

func TestInvalidEngine(t *testing.T) {
	dir := t.TempDir()
	original := writeTestFile(t, dir, "orig.txt", "a\n")

	_, _, err := execute(t, "", "--engine", "patience", "diff", original, original)
	if err == nil {
		t.Fatal("expected unknown engine error")
	}
}

func TestPatchCommandStdin(t *testing.T) {
	patch := "--- a\n+++ b\n@@ -1,1 +1,1 @@\n-x\n+y\n"

	stdout, stderr, err := execute(t, patch, "patch", "-f", "text", "-")
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if stdout != patch {
		t.Fatalf("unexpected patch output: got %q want %q", stdout, patch)
	}
	if stderr != "" {
		t.Fatalf("expected no truncation notice, got %q", stderr)
	}
}

func TestPatchCommandWithBase(t *testing.T) {
	dir := t.TempDir()
	base := writeTestFile(t, dir, "f.txt", "line 1\nline 2\nline 3\n")
	patch := writeTestFile(t, dir, "f.patch", "--- f.txt\n+++ f.txt\n@@ -2,1 +2,1 @@\n-line 2\n+line 2 modified\n")

	stdout, _, err := execute(t, "", "patch", "-f", "text", "--base", base, patch)
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	for _, want := range []string{" line 1", "-line 2", "+line 2 modified", " line 3"} {
		if !strings.Contains(stdout, want+"\n") {
			t.Errorf("merged output missing %q:\n%s", want, stdout)
		}
	}
}

func TestApplyCommand(t *testing.T) {
	dir := t.TempDir()
	base := writeTestFile(t, dir, "f.txt", "line 1\nline 2\nline 3\n")
	patch := writeTestFile(t, dir, "f.patch", "--- f.txt\n+++ f.txt\n@@ -2,1 +2,1 @@\n-line 2\n+line 2 modified\n")

	stdout, _, err := execute(t, "", "apply", base, patch)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	expected := "line 1\nline 2 modified\nline 3\n"
	if stdout != expected {
		t.Fatalf("unexpected apply output: got %q want %q", stdout, expected)
	}

	target := filepath.Join(dir, "patched.txt")
	if _, _, err := execute(t, "", "apply", "-o", target, base, patch); err != nil {
		t.Fatalf("apply -o failed: %v", err)
	}
	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed reading patched file: %v", err)
	}
	if string(content) != expected {
		t.Fatalf("unexpected patched file: got %q want %q", content, expected)
	}
}

func TestDirCommand(t *testing.T) {
	originalDir := t.TempDir()
	revisedDir := t.TempDir()
	writeTestFile(t, originalDir, "same.txt", "same\n")
	writeTestFile(t, revisedDir, "same.txt", "same\n")
	writeTestFile(t, originalDir, "notes.txt", "one\n")
	writeTestFile(t, revisedDir, "notes.txt", "two\n")

	stdout, _, err := execute(t, "", "dir", "-f", "text", originalDir, revisedDir)
	if err != nil {
		t.Fatalf("dir failed: %v", err)
	}
	if !strings.Contains(stdout, "--- a/notes.txt\n") {
		t.Fatalf("expected notes.txt comparison, got:\n%s", stdout)
	}
	if strings.Contains(stdout, "same.txt") {
		t.Fatalf("identical files should be omitted, got:\n%s", stdout)
	}
}

func TestGitCommandNeedsFile(t *testing.T) {
	_, _, err := execute(t, "", "git", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "--commit") {
		t.Fatalf("expected file path error, got %v", err)
	}
}
