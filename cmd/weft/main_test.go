package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("WEFT_CONFIG", "")
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseExpressionFromStdin(t *testing.T) {
	stdout, stderr, err := run(t, "1 + 2 * 3", "parse", "--expr", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "ExprBinary") {
		t.Errorf("tree has no binary expression:\n%s", stdout)
	}
	if stderr != "" {
		t.Errorf("unexpected diagnostics:\n%s", stderr)
	}
}

func TestParseReportsDiagnostics(t *testing.T) {
	stdout, stderr, err := run(t, "f(1, 2,, 3)", "parse", "--expr", "--format", "json", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, `{"kind":"Root"`) {
		t.Errorf("got %q, want a JSON tree", stdout)
	}
	if got := strings.Count(stderr, "error:"); got != 2 {
		t.Errorf("got %d diagnostics on stderr, want 2:\n%s", got, stderr)
	}
}

func TestParseRejectsConflictingModes(t *testing.T) {
	if _, _, err := run(t, "Int32", "parse", "--expr", "--type", "-"); err == nil {
		t.Errorf("expected an error")
	}
}

func TestTokens(t *testing.T) {
	stdout, _, err := run(t, "def f // c", "tokens", "--skip-comments", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `"def"`) || strings.Contains(stdout, "// c") {
		t.Errorf("unexpected token table:\n%s", stdout)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "good.flix", "def f(): Int32 = 1")

	stdout, _, err := run(t, "", "check", dir)
	if err != nil {
		t.Fatalf("check on a clean directory: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "1 files ok") {
		t.Errorf("got %q", stdout)
	}

	bad := writeSource(t, dir, "bad.flix", "def g(): Int32 = ")
	stdout, _, err = run(t, "", "check", dir)
	if err == nil {
		t.Fatal("check did not fail on a syntax error")
	}
	if !strings.Contains(stdout, bad+":1:") {
		t.Errorf("diagnostic does not name %s:\n%s", bad, stdout)
	}
}

func TestResilience(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "r.flix", "def f(x: Int32): Int32 = x + 1\ndef g(): Int32 = f(2)\n")
	stdout, _, err := run(t, "", "resilience", "--trials", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, path) {
		t.Errorf("summary does not name the file:\n%s", stdout)
	}
}

func TestResilienceFromStdin(t *testing.T) {
	stdout, _, err := run(t, "def f(x: Int32): Int32 = x + 1\n", "resilience", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "<stdin>") {
		t.Errorf("summary does not name standard input:\n%s", stdout)
	}
}

func TestCheckFromStdin(t *testing.T) {
	stdout, _, err := run(t, "def f(): Int32 = g(1,, 2)", "check", "-")
	if err == nil {
		t.Fatalf("expected syntax errors, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "<stdin>:1:") {
		t.Errorf("diagnostic does not name standard input:\n%s", stdout)
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(stdout) != Version().Core() {
		t.Errorf("got %q, want %q", stdout, Version().Core())
	}
}
