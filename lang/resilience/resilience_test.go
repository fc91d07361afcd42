package resilience

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/weft/lang/parser"
	"github.com/dhamidi/weft/lang/syntax"
)

func seq(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		good, bad string
		want      Score
	}{
		{"identical", "a b c d", "a b c d", Score{Ratio: 1, Prefix: 4, GoodLen: 4}},
		{"empty good", "", "a b", Score{Ratio: 1}},
		{"empty bad", "a b c", "", Score{GoodLen: 3}},
		{"changed middle", "a b c d", "a x c d", Score{Ratio: 0.75, Prefix: 1, Suffix: 2, GoodLen: 4}},
		{"prefix and suffix do not overlap", "a a", "a", Score{Ratio: 0.5, Prefix: 1, GoodLen: 2}},
		{"lcs of middle", "x a b c y", "x c b a y", Score{Ratio: 0.6, Prefix: 1, Suffix: 1, LCS: 1, GoodLen: 5}},
		{"insertion", "a b c", "a z b c", Score{Ratio: 1, Prefix: 1, Suffix: 2, GoodLen: 3}},
		{"interleaved", "p a b c d q", "p a x c y d q", Score{Ratio: 5.0 / 6, Prefix: 2, Suffix: 2, LCS: 1, GoodLen: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(seq(tt.good), seq(tt.bad))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compare(%q, %q) mismatch (-want +got):\n%s", tt.good, tt.bad, diff)
			}
		})
	}
}

func TestCompareSkipsLargeMiddle(t *testing.T) {
	got := Compare(seq("a b c d"), seq("a x y d"), WithCutoff(1))
	want := Score{Ratio: 0.5, Prefix: 1, Suffix: 1, GoodLen: 4, Skipped: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got = Compare(seq("a b c d"), seq("a x y d"), WithCutoff(2))
	if got.Skipped {
		t.Errorf("middle of size 2 skipped with cutoff 2")
	}
}

func TestLCS(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "a", 0},
		{"a b c", "a b c", 3},
		{"a b c d", "b d", 2},
		{"a b c b d a b", "b d c a b a", 4},
	}
	for _, tt := range tests {
		if got := lcs(seq(tt.a), seq(tt.b)); got != tt.want {
			t.Errorf("lcs(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLinearize(t *testing.T) {
	one := syntax.Token{Kind: syntax.TokenInt, Literal: "1"}
	eof := syntax.Token{Kind: syntax.TokenEOF}
	root := &parser.Node{
		Kind: parser.KindRoot,
		Children: []*parser.Node{
			{Kind: parser.KindExprLiteral, Children: []*parser.Node{{Kind: parser.KindToken, Token: &one}}},
			{Kind: parser.KindToken, Token: &eof},
		},
	}
	want := []string{"Root", "ExprLiteral", `"1"`, `""`}
	if diff := cmp.Diff(want, Linearize(root)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if got := Linearize(nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestLinearizeCoversEveryNode(t *testing.T) {
	root, _, err := parser.ParseSource(syntax.Source{Name: "t.flix", Text: []byte("def f(x: Int32): Int32 = x + 1")})
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	root.Walk(func(*parser.Node) bool { count++; return true })
	if got := len(Linearize(root)); got != count {
		t.Errorf("got %d elements, want %d", got, count)
	}
}

func TestMeasureIdentical(t *testing.T) {
	tokens := syntax.Tokenize([]byte("def f(): Int32 = g(1, 2, 3)"), "t.flix")
	score, err := NewHarness().Measure(tokens, tokens)
	if err != nil {
		t.Fatal(err)
	}
	if score.Ratio != 1 {
		t.Errorf("got ratio %v, want 1", score.Ratio)
	}
}

func TestMeasureDoubledSeparator(t *testing.T) {
	good := syntax.Tokenize([]byte("def f(): Int32 = g(1, 2, 3)"), "t.flix")
	bad := syntax.Tokenize([]byte("def f(): Int32 = g(1, 2, , 3)"), "t.flix")
	score, err := NewHarness().Measure(good, bad)
	if err != nil {
		t.Fatal(err)
	}
	// The extra comma is absorbed by an error node; the three arguments
	// survive, so almost nothing of the original tree is lost.
	if score.Ratio < 0.9 {
		t.Errorf("got ratio %v, want at least 0.9", score.Ratio)
	}
}

const corpusFile = `/// Shapes.
enum Shape {
    case Circle(Int32),
    case Square(Int32)
}

def area(s: Shape): Int32 = match s {
    case Circle(r) => 3 * r * r
    case Square(w) => w * w
}

def sum(xs: List[Int32]): Int32 = {
    let total = List.foldLeft((acc, x) -> acc + x, 0, xs);
    total
}

def clamp(lo: Int32, hi: Int32, x: Int32): Int32 =
    if (x < lo) lo else if (x > hi) hi else x

trait Describe[a] {
    def describe(x: a): String
}

instance Describe[Shape] {
    def describe(x: Shape): String = match x {
        case Circle(_) => "circle"
        case Square(_) => "square"
    }
}

def main(): Unit \ IO = {
    let shapes = Circle(1) :: Square(2) :: Nil;
    foreach (s <- shapes) println(area(s))
}
`

func TestErrorLocality(t *testing.T) {
	h := NewHarness()
	report, err := h.Run(context.Background(), "shapes.flix", []byte(corpusFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Trials) == 0 {
		t.Fatal("no trials")
	}
	if report.Mean <= DefaultThreshold {
		var sb strings.Builder
		report.RenderTrials(&sb, 10)
		t.Errorf("mean ratio %.3f, want above %.2f; worst trials:\n%s", report.Mean, DefaultThreshold, sb.String())
	}
	if report.Skipped != 0 {
		t.Errorf("got %d skipped comparisons, want 0", report.Skipped)
	}
	for _, trial := range report.Trials {
		if trial.Token.Kind == syntax.TokenEOF || trial.Token.Kind.IsComment() {
			t.Errorf("trial deleted %v", trial.Token.Kind)
		}
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHarness().Run(ctx, "t.flix", []byte("def f(): Int32 = 1"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestReport(t *testing.T) {
	trials := []Trial{
		{Deleted: 0, Token: syntax.Token{Kind: syntax.TokenDef, Literal: "def"}, Score: Score{Ratio: 0.5}},
		{Deleted: 1, Token: syntax.Token{Kind: syntax.TokenNameLower, Literal: "f"}, Score: Score{Ratio: 1}},
		{Deleted: 2, Token: syntax.Token{Kind: syntax.TokenParenL, Literal: "("}, Score: Score{Ratio: 0.75, Skipped: true}},
	}
	r := newReport("t.flix", trials, 0.9)
	if r.Mean != 0.75 || r.Min != 0.5 || r.BelowThreshold != 2 || r.Skipped != 1 {
		t.Errorf("got mean %v min %v below %d skipped %d", r.Mean, r.Min, r.BelowThreshold, r.Skipped)
	}
	worst := r.Worst(2)
	if len(worst) != 2 || worst[0].Deleted != 0 || worst[1].Deleted != 2 {
		t.Errorf("got worst %v", worst)
	}

	var buf bytes.Buffer
	r.RenderTrials(&buf, 3)
	if !strings.Contains(buf.String(), "skipped") {
		t.Errorf("table does not mark the skipped comparison:\n%s", buf.String())
	}
	buf.Reset()
	RenderSummary(&buf, []*Report{r})
	if !strings.Contains(buf.String(), "t.flix") {
		t.Errorf("summary does not name the file:\n%s", buf.String())
	}
}
