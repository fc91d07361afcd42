package parser

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/weft/lang/syntax"
)

var corpus = []string{
	"",
	"def",
	"def f(",
	"def f(x: Int32): Int32 = x +",
	"def f(x: Int32): Int32 = { let y = x; y * 2 }",
	"enum Color { case Red, case Green, Blue }",
	"trait Eq[a] { def eq(x: a, y: a): Bool } instance Eq[Int32] { def eq(x: Int32, y: Int32): Bool = x == y }",
	"def main(): Unit \\ IO = foreach (x <- List#{1, 2, 3}) println(x)",
	"def f(): Int32 = match x { case Some(y) if y > 0 => y case _ => 0 }",
	"def f(): Int32 = ((((((((((((((((((((",
	"))))))]]]]}}}}",
	"import java.lang.{String => S, StringBuilder} import new java.lang.Object(): ##java.lang.Object as newObj",
	"mod A { mod B { def f(): Int32 = 1 } }",
	"@Test def t(): Bool = checked_cast(unchecked_cast(x as Bool))",
	"/* unterminated",
	"def f(): String = \"unterminated",
	"use A.{b, c => d}; def f(): Int32 = try g() catch { case e: ##java.lang.Exception => 0 }",
	"eff Ask { def ask(): Int32 } def f(): Int32 = try do Ask.ask() with Ask { def ask(k) = k(42) }",
	"def f(): Int32 = x :: y ::: z := a or b and c ||| d ^^^ e &&& f == g < h <<< i + j * k ** l <+> m",
	"type alias T[a] = { x = a | r } -> Int32 \\ { IO, Net }",
	"def f[a: Type -> Type, ef: Eff](x: a[Int32]): Int32 \\ ef = x",
	"def f(): Int32 = forM (x <- xs; if x > 1; y <- ys) yield x + y",
	"def f(): Int32 = new ##java.lang.Runnable { def run(_this: ##java.lang.Runnable): Unit = () }",
	"def , ; = => -> <- :: ( ) { } [ ] @ pub inline",
	"// only a comment",
	"/// doc\n/// doc\n",
}

var fragments = []string{
	"def", "f", "x", "Int32", "(", ")", "{", "}", "[", "]", ",", ";", ":", "=", "=>", "->", "<-",
	"+", "-", "*", "::", "|", "\\", "IO", "let", "match", "case", "if", "else", "enum", "trait",
	"instance", "import", "use", "mod", "eff", "type", "alias", "1", "\"s\"", "'c'", "_", "?h",
	"List#{", "Map#{", "try", "catch", "with", "do", "foreach", "forM", "yield", "new",
	"##java.lang.Object", "checked_cast", "unchecked_cast", "as", "not", "lazy", "@", "pub",
	"// c\n", "/* b */", "true", "static", "get", ".",
}

// randomInputs builds deterministic token soups.
func randomInputs(n int) []string {
	r := rand.New(rand.NewSource(7))
	out := make([]string, n)
	for i := range out {
		size := r.Intn(40)
		parts := make([]string, size)
		for j := range parts {
			parts[j] = fragments[r.Intn(len(fragments))]
		}
		out[i] = strings.Join(parts, " ")
	}
	return out
}

func allInputs() []string {
	return append(append([]string{}, corpus...), randomInputs(300)...)
}

func checkSpans(t *testing.T, n *Node) {
	t.Helper()
	if n.Span.Start.Offset > n.Span.End.Offset {
		t.Errorf("%v: span start %d after end %d", n.Kind, n.Span.Start.Offset, n.Span.End.Offset)
	}
	prevEnd := n.Span.Start.Offset
	for _, child := range n.Children {
		if !n.Span.Contains(child.Span) {
			t.Errorf("%v [%d,%d] does not contain %v [%d,%d]", n.Kind, n.Span.Start.Offset, n.Span.End.Offset,
				child.Kind, child.Span.Start.Offset, child.Span.End.Offset)
		}
		if child.Span.Start.Offset < prevEnd {
			t.Errorf("%v: child %v starts at %d before previous end %d", n.Kind, child.Kind, child.Span.Start.Offset, prevEnd)
		}
		prevEnd = child.Span.End.Offset
		checkSpans(t, child)
	}
	if len(n.Children) == 0 && n.Token == nil && n.Span.Len() != 0 {
		t.Errorf("childless %v has non-zero span", n.Kind)
	}
}

func TestTotalityAndSoundness(t *testing.T) {
	entries := []struct {
		name  string
		parse func([]syntax.Token, ...Option) (*Node, []*Diagnostic, error)
	}{
		{"file", Parse},
		{"expression", ParseExpression},
		{"type", ParseType},
	}
	for _, entry := range entries {
		for i, src := range allInputs() {
			tokens := syntax.Tokenize([]byte(src), "fuzz.flix")
			root, diags, err := entry.parse(tokens)
			if err != nil {
				t.Fatalf("%s #%d %q: %v", entry.name, i, src, err)
			}
			if root.Kind != KindRoot {
				t.Errorf("%s #%d: root kind %v", entry.name, i, root.Kind)
			}
			if diff := cmp.Diff(tokens, root.Tokens()); diff != "" {
				t.Errorf("%s #%d %q: leaves differ from tokens (-tokens +leaves):\n%s", entry.name, i, src, diff)
			}
			if root.Span.Start.Offset != 0 || root.Span.End != tokens[len(tokens)-1].Span.End {
				t.Errorf("%s #%d: root span %v", entry.name, i, root.Span)
			}
			if got := len(root.Errors()); got != len(diags) {
				t.Errorf("%s #%d: %d error nodes, %d diagnostics", entry.name, i, got, len(diags))
			}
			checkSpans(t, root)
		}
	}
}

func TestWellFormedCorpusHasNoDiagnostics(t *testing.T) {
	files := []string{
		"def f(x: Int32): Int32 = { let y = x; y * 2 }",
		"enum Color { case Red, case Green, Blue }",
		"def main(): Unit \\ IO = foreach (x <- List#{1, 2, 3}) println(x)",
		"def f(): Int32 = match x { case Some(y) if y > 0 => y case _ => 0 }",
		"mod A { mod B { def f(): Int32 = 1 } }",
		"type alias T[a] = { x = a | r } -> Int32 \\ { IO, Net }",
		"def f(): Int32 = forM (x <- xs; if x > 1; y <- ys) yield x + y",
		"def f(): Unit = new ##java.lang.Runnable { def run(_this: ##java.lang.Runnable): Unit = () }",
	}
	for _, src := range files {
		_, diags := parseFile(t, src)
		if len(diags) != 0 {
			t.Errorf("%q: unexpected diagnostics %v", src, messages(diags))
		}
	}
}

func TestBuilderRejectsMalformedLogs(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
	}{
		{"empty", nil},
		{"no final close", []Event{{Kind: EventOpen, Node: KindRoot}, {Kind: EventAdvance}}},
		{"unclosed child", []Event{{Kind: EventOpen, Node: KindRoot}, {Kind: EventOpen}, {Kind: EventAdvance}, {Kind: EventClose}}},
		{"extra close", []Event{{Kind: EventOpen, Node: KindRoot}, {Kind: EventAdvance}, {Kind: EventClose}, {Kind: EventClose}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(tokenize(""), nil)
			p.events = tt.events
			defer func() {
				if _, ok := recover().(*InternalError); !ok {
					t.Errorf("expected an *InternalError panic")
				}
			}()
			p.buildTree()
		})
	}
}
