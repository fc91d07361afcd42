package codebase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateFileRecordsDiagnostics(t *testing.T) {
	c := New(t.TempDir())
	if err := c.UpdateFile("main.flix", []byte("def f(): Int32 = g(1, 2, , 3)")); err != nil {
		t.Fatal(err)
	}
	f := c.GetFile("main.flix")
	if f == nil {
		t.Fatal("GetFile returned nil")
	}
	if f.Tree == nil {
		t.Fatal("no tree")
	}
	if got := len(f.Diagnostics); got != 2 {
		t.Errorf("got %d diagnostics, want 2", got)
	}
	if got := len(f.Symbols); got != 1 || f.Symbols[0].Name != "f" {
		t.Errorf("got symbols %v, want [f]", f.Symbols)
	}
}

func TestUpdateFileReusesCachedParse(t *testing.T) {
	c := New(t.TempDir(), WithCacheSize(4))
	content := []byte("def f(): Int32 = 1")
	c.UpdateFile("a.flix", content)
	first := c.GetFile("a.flix")
	c.UpdateFile("a.flix", content)
	if second := c.GetFile("a.flix"); second != first {
		t.Errorf("identical content was parsed again")
	}
	c.UpdateFile("a.flix", []byte("def f(): Int32 = 2"))
	if third := c.GetFile("a.flix"); third == first {
		t.Errorf("changed content served from cache")
	}
}

func TestScanAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.flix"), "def a(): Int32 = 1")
	writeFile(t, filepath.Join(dir, "sub", "b.flix"), "def b(): Int32 = ")
	writeFile(t, filepath.Join(dir, ".hidden", "c.flix"), "def c(): Int32 = 3")
	writeFile(t, filepath.Join(dir, "README.md"), "# not source")

	c := New(dir, WithWorkers(2))
	if err := c.ScanAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, f := range c.Files() {
		rel, _ := filepath.Rel(dir, f.Path)
		got = append(got, filepath.ToSlash(rel))
	}
	want := []string{"a.flix", "sub/b.flix"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if diags := c.GetFile(filepath.Join(dir, "sub", "b.flix")).Diagnostics; len(diags) == 0 {
		t.Errorf("incomplete file has no diagnostics")
	}

	c.RemoveFile(filepath.Join(dir, "a.flix"))
	if got := len(c.Files()); got != 1 {
		t.Errorf("got %d files after removal, want 1", got)
	}
}

type symbolShape struct {
	Name     string
	Kind     SymbolKind
	Children []symbolShape
}

func shapes(symbols []Symbol) []symbolShape {
	var out []symbolShape
	for _, s := range symbols {
		out = append(out, symbolShape{Name: s.Name, Kind: s.Kind, Children: shapes(s.Children)})
	}
	return out
}

func TestSymbols(t *testing.T) {
	src := `
/// Colors.
enum Color { case Red, Green }

mod A.B {
    def f(): Int32 = 1
}

trait Eq[a] {
    def eq(x: a, y: a): Bool
}

instance Eq[Color] {
    def eq(x: Color, y: Color): Bool = true
}

eff Ask {
    def ask(): Int32
}

type alias Id = Int32
`
	c := New(t.TempDir())
	c.UpdateFile("s.flix", []byte(src))
	f := c.GetFile("s.flix")
	if len(f.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", f.Diagnostics)
	}

	want := []symbolShape{
		{Name: "Color", Kind: SymbolEnum, Children: []symbolShape{
			{Name: "Red", Kind: SymbolCase},
			{Name: "Green", Kind: SymbolCase},
		}},
		{Name: "A.B", Kind: SymbolModule, Children: []symbolShape{
			{Name: "f", Kind: SymbolFunction},
		}},
		{Name: "Eq", Kind: SymbolTrait, Children: []symbolShape{
			{Name: "eq", Kind: SymbolSignature},
		}},
		{Name: "Eq", Kind: SymbolInstance, Children: []symbolShape{
			{Name: "eq", Kind: SymbolFunction},
		}},
		{Name: "Ask", Kind: SymbolEffect, Children: []symbolShape{
			{Name: "ask", Kind: SymbolSignature},
		}},
		{Name: "Id", Kind: SymbolTypeAlias},
	}
	if diff := cmp.Diff(want, shapes(f.Symbols)); diff != "" {
		t.Errorf("symbols mismatch (-want +got):\n%s", diff)
	}

	enum := f.Symbols[0]
	if enum.Span.Start.Line != 2 {
		t.Errorf("enum span starts on line %d, want 2 (doc comment)", enum.Span.Start.Line)
	}
	if enum.NameSpan.Start.Line != 3 || enum.NameSpan.Start.Column != 6 {
		t.Errorf("enum name at %v, want 3:6", enum.NameSpan.Start)
	}

	gotFile, sym := c.FindSymbol("ask")
	if sym == nil || gotFile != f || sym.Kind != SymbolSignature {
		t.Errorf("FindSymbol(ask) = %v, %v", gotFile, sym)
	}
	if _, sym := c.FindSymbol("missing"); sym != nil {
		t.Errorf("FindSymbol(missing) = %v, want nil", sym)
	}
}

func TestSymbolsSkipMissingNames(t *testing.T) {
	c := New(t.TempDir())
	c.UpdateFile("m.flix", []byte("def (): Int32 = 1 def g(): Int32 = 2"))
	var names []string
	for _, s := range c.GetFile("m.flix").Symbols {
		names = append(names, s.Name)
	}
	if diff := cmp.Diff([]string{"g"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestNodesAtPoint(t *testing.T) {
	c := New(t.TempDir())
	c.UpdateFile("p.flix", []byte("def f(): Int32 = 1"))

	chain := c.NodesAtPoint("p.flix", 1, 18)
	if len(chain) < 3 {
		t.Fatalf("got chain of %d nodes", len(chain))
	}
	if got := chain[0].Kind.String(); got != "Root" {
		t.Errorf("outermost node is %s, want Root", got)
	}
	leaf := chain[len(chain)-1]
	if !leaf.IsToken() || leaf.Token.Literal != "1" {
		t.Errorf("innermost node is %v, want the literal 1", leaf)
	}
	if got := chain[1].Kind.String(); got != "Def" {
		t.Errorf("got %s, want Def", got)
	}

	if chain := c.NodesAtPoint("missing.flix", 1, 1); chain != nil {
		t.Errorf("got %v for unknown file", chain)
	}
}

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "w.flix")
	writeFile(t, path, "def f(): Int32 = 1")

	c := New(dir)
	w := NewFileWatcher(c, 0)
	var changed []string
	w.OnChange = func(p string) { changed = append(changed, p) }

	w.scan()
	if c.GetFile(path) == nil {
		t.Fatal("watcher did not parse the new file")
	}
	w.scan()
	if diff := cmp.Diff([]string{path}, changed); diff != "" {
		t.Errorf("unchanged file reported again (-want +got):\n%s", diff)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if c.GetFile(path) != nil {
		t.Errorf("removed file still known")
	}
	if diff := cmp.Diff([]string{path, path}, changed); diff != "" {
		t.Errorf("removal not reported (-want +got):\n%s", diff)
	}
}
