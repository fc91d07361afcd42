package parser

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/weft/lang/syntax"
)

// Diagnostic describes one recoverable syntax error. The same value is
// referenced by the error node in the tree, and Span is filled in by the
// tree builder.
type Diagnostic struct {
	Message  string
	Span     syntax.Span
	Expected []syntax.TokenKind
	Found    syntax.Token
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Span.Start, d.Message)
}

func expected(found syntax.Token, kinds ...syntax.TokenKind) *Diagnostic {
	return &Diagnostic{
		Message:  fmt.Sprintf("expected %s, found %s", describeKinds(kinds), describe(found)),
		Expected: kinds,
		Found:    found,
	}
}

func unexpected(what string, found syntax.Token) *Diagnostic {
	return &Diagnostic{
		Message: fmt.Sprintf("expected %s, found %s", what, describe(found)),
		Found:   found,
	}
}

func describe(tok syntax.Token) string {
	if tok.Kind == syntax.TokenEOF {
		return "end of input"
	}
	return "'" + tok.Text() + "'"
}

func describeKinds(kinds []syntax.TokenKind) string {
	quoted := make([]string, len(kinds))
	for i, k := range kinds {
		quoted[i] = "'" + k.String() + "'"
	}
	switch len(quoted) {
	case 0:
		return "a token"
	case 1:
		return quoted[0]
	}
	return "one of " + strings.Join(quoted, ", ")
}

// Style decorates the parts of a printed diagnostic, typically with terminal
// colors. Nil fields print their part unchanged.
type Style struct {
	Location func(a ...any) string
	Label    func(a ...any) string
	Caret    func(a ...any) string
}

func apply(f func(a ...any) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}

// PrintDiagnostic writes "file:line:col: error: message" followed by the
// offending source line and a caret underline.
func PrintDiagnostic(w io.Writer, d *Diagnostic, src syntax.Source) {
	PrintDiagnosticStyled(w, d, src, Style{})
}

func PrintDiagnosticStyled(w io.Writer, d *Diagnostic, src syntax.Source, style Style) {
	start := d.Span.Start
	location := fmt.Sprintf("%s:%d:%d:", src.Name, start.Line, start.Column)
	_, _ = fmt.Fprintf(w, "%s %s %s\n", apply(style.Location, location), apply(style.Label, "error:"), d.Message)

	line := sourceLine(src.Text, start.Offset)
	_, _ = fmt.Fprintf(w, "    %s\n", line)

	// Tokens from other lexers may carry zero positions.
	pad := utf8.RuneCount(line[:max(0, min(start.Column-1, len(line)))])
	from := max(0, min(start.Offset, len(src.Text)))
	to := max(from, min(d.Span.End.Offset, len(src.Text)))
	width := max(1, utf8.RuneCount(src.Text[from:to]))
	if width > len(line)-pad {
		width = max(1, len(line)-pad)
	}
	_, _ = fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pad), apply(style.Caret, strings.Repeat("^", width)))
}

// sourceLine returns the line containing offset, without its newline.
func sourceLine(src []byte, offset int) []byte {
	offset = max(0, min(offset, len(src)))
	lineStart := 0
	for i := offset - 1; i >= 0; i-- {
		if src[i] == '\n' {
			lineStart = i + 1
			break
		}
	}
	lineEnd := len(src)
	for i := lineStart; i < len(src); i++ {
		if src[i] == '\n' {
			lineEnd = i
			break
		}
	}
	return src[lineStart:lineEnd]
}
