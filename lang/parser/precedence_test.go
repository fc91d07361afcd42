package parser

import (
	"testing"

	"github.com/dhamidi/weft/lang/syntax"
)

// shape renders operator nesting with explicit parentheses.
func shape(n *Node) string {
	nodes := n.Nodes()
	switch n.Kind {
	case KindExprBinary:
		return "(" + shape(nodes[0]) + " " + nodes[1].Text() + " " + shape(nodes[2]) + ")"
	case KindExprUnary:
		return "(" + nodes[0].Text() + " " + shape(nodes[1]) + ")"
	case KindExprParen:
		return shape(nodes[0])
	}
	return n.Text()
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"a - b - c", "((a - b) - c)"},
		{"2 ** 3 ** 4", "((2 ** 3) ** 4)"},
		{"a :: b :: c", "(a :: (b :: c))"},
		{"a ::: b ::: c", "(a ::: (b ::: c))"},
		{"a :: b + c", "(a :: (b + c))"},
		{"-a * b", "((- a) * b)"},
		{"- a + b", "((- a) + b)"},
		{"not a and b", "((not a) and b)"},
		{"a or b and c", "(a or (b and c))"},
		{"a and b or c", "((a and b) or c)"},
		{"a == b < c", "(a == (b < c))"},
		{"a ||| b &&& c", "(a ||| (b &&& c))"},
		{"a ^^^ b ||| c", "((a ^^^ b) ||| c)"},
		{"a <<< 1 + 2", "(a <<< (1 + 2))"},
		{"x := a + b", "(x := (a + b))"},
		{"a + b `max` c", "(a + (b `max` c))"},
		{"a * b <*> c", "(a * (b <*> c))"},
		{"a <+> b ** c", "((a <+> b) ** c)"},
		{"lazy f + 1", "((lazy f) + 1)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"f(x) + g(y)", "(f ( x ) + g ( y ))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, diags := parseExpr(t, tt.input)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %v", messages(diags))
			}
			if got := shape(single(t, root)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRightBindsTighter(t *testing.T) {
	tests := []struct {
		name        string
		left, right syntax.TokenKind
		leftIsUnary bool
		want        bool
	}{
		{"no pending operator", syntax.TokenEOF, syntax.TokenPlus, false, true},
		{"not an operator", syntax.TokenPlus, syntax.TokenParenR, false, false},
		{"tighter right", syntax.TokenPlus, syntax.TokenStar, false, true},
		{"looser right", syntax.TokenStar, syntax.TokenPlus, false, false},
		{"left associative", syntax.TokenMinus, syntax.TokenMinus, false, false},
		{"right associative", syntax.TokenColonColon, syntax.TokenColonColon, false, true},
		{"unary minus beats times", syntax.TokenMinus, syntax.TokenStar, true, false},
		{"unary is never binary", syntax.TokenEOF, syntax.TokenNot, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exprTightness.rightBindsTighter(tt.left, tt.right, tt.leftIsUnary)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
