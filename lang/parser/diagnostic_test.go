package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/weft/lang/syntax"
)

func TestPrintDiagnostic(t *testing.T) {
	src := syntax.Source{Name: "test.flix", Text: []byte("f(1, 2,, 3)")}
	_, diags := parseExpr(t, string(src.Text))
	if len(diags) == 0 {
		t.Fatal("no diagnostics")
	}

	var buf bytes.Buffer
	PrintDiagnostic(&buf, diags[0], src)
	want := "test.flix:1:8: error: expected argument, found ','\n" +
		"    f(1, 2,, 3)\n" +
		"           ^\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintDiagnosticStyled(t *testing.T) {
	src := syntax.Source{Name: "test.flix", Text: []byte("def f(): Int32 =")}
	_, diags := parseFile(t, string(src.Text))
	if len(diags) == 0 {
		t.Fatal("no diagnostics")
	}
	upper := func(a ...any) string { return strings.ToUpper(a[0].(string)) }

	var buf bytes.Buffer
	PrintDiagnosticStyled(&buf, diags[0], src, Style{Label: upper, Caret: func(a ...any) string { return "<" + a[0].(string) + ">" }})
	out := buf.String()
	if !strings.Contains(out, " ERROR: ") {
		t.Errorf("label not styled:\n%s", out)
	}
	if !strings.Contains(out, "<^>") {
		t.Errorf("zero-width error at end of line has no styled caret:\n%s", out)
	}
}

func TestPrintDiagnosticWithoutPositions(t *testing.T) {
	tokens := []syntax.Token{
		{Kind: syntax.TokenParenL, Literal: "("},
		{Kind: syntax.TokenComma, Literal: ","},
	}
	_, diags, err := ParseExpression(tokens)
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) == 0 {
		t.Fatal("no diagnostics")
	}

	var buf bytes.Buffer
	src := syntax.Source{Name: "generated", Text: []byte("(,")}
	for _, d := range diags {
		PrintDiagnostic(&buf, d, src)
	}
	if !strings.Contains(buf.String(), "generated:0:0: error: ") {
		t.Errorf("got:\n%s", buf.String())
	}
}

func TestDiagnosticMessages(t *testing.T) {
	tests := []struct {
		name string
		diag *Diagnostic
		want string
	}{
		{"single kind", expected(syntax.Token{Kind: syntax.TokenInt, Literal: "3"}, syntax.TokenComma), "expected ',', found '3'"},
		{"several kinds", expected(syntax.Token{Kind: syntax.TokenEOF}, syntax.TokenParenR, syntax.TokenComma), "expected one of ')', ',', found end of input"},
		{"construct", unexpected("pattern", syntax.Token{Kind: syntax.TokenArrowThin, Literal: "->"}), "expected pattern, found '->'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.diag.Message != tt.want {
				t.Errorf("got %q, want %q", tt.diag.Message, tt.want)
			}
		})
	}
}
