package parser

import "github.com/dhamidi/weft/lang/syntax"

type fixity int

const (
	binary fixity = iota
	unary
)

type operator struct {
	kind   syntax.TokenKind
	fixity fixity
}

// exprLevels lists expression operators from loosest to tightest. An
// operator's tightness is its index in this table.
var exprLevels = [][]operator{
	{{syntax.TokenColonEqual, binary}},
	{{syntax.TokenOr, binary}},
	{{syntax.TokenAnd, binary}},
	{{syntax.TokenTripleBar, binary}},
	{{syntax.TokenTripleCaret, binary}},
	{{syntax.TokenTripleAmpersand, binary}},
	{{syntax.TokenEqualEqual, binary}, {syntax.TokenAngledEqual, binary}, {syntax.TokenBangEqual, binary}},
	{{syntax.TokenAngleL, binary}, {syntax.TokenAngleR, binary}, {syntax.TokenAngleLEqual, binary}, {syntax.TokenAngleREqual, binary}},
	{{syntax.TokenColonColon, binary}, {syntax.TokenTripleColon, binary}},
	{{syntax.TokenTripleAngleL, binary}, {syntax.TokenTripleAngleR, binary}},
	{{syntax.TokenPlus, binary}, {syntax.TokenMinus, binary}},
	{{syntax.TokenStar, binary}, {syntax.TokenSlash, binary}, {syntax.TokenPercent, binary}},
	{{syntax.TokenStarStar, binary}},
	{{syntax.TokenAngledPlus, binary}},
	{{syntax.TokenNot, unary}, {syntax.TokenMinus, unary}, {syntax.TokenPlus, unary}, {syntax.TokenTripleTilde, unary}},
	{{syntax.TokenLazy, unary}, {syntax.TokenForce, unary}, {syntax.TokenDiscard, unary}},
	{{syntax.TokenInfixFunction, binary}},
	{{syntax.TokenUserOperator, binary}},
}

// typeLevels is the same idea for type operators. The arrow is handled by
// recursion into typeAndEffect, which makes it right associative.
var typeLevels = [][]operator{
	{{syntax.TokenArrowThin, binary}},
	{{syntax.TokenOr, binary}, {syntax.TokenPlus, binary}, {syntax.TokenMinus, binary}},
	{{syntax.TokenAnd, binary}, {syntax.TokenAmpersand, binary}},
	{{syntax.TokenNot, unary}, {syntax.TokenTilde, unary}},
}

type tightnessTable map[operator]int

func buildTightness(levels [][]operator) tightnessTable {
	t := make(tightnessTable)
	for i, level := range levels {
		for _, op := range level {
			t[op] = i
		}
	}
	return t
}

var (
	exprTightness = buildTightness(exprLevels)
	typeTightness = buildTightness(typeLevels)
)

// tightness returns -1 for tokens that are not operators of the given fixity.
func (t tightnessTable) tightness(kind syntax.TokenKind, f fixity) int {
	if level, ok := t[operator{kind, f}]; ok {
		return level
	}
	return -1
}

func isRightAssoc(kind syntax.TokenKind) bool {
	return kind == syntax.TokenColonColon || kind == syntax.TokenTripleColon
}

// rightBindsTighter decides whether the binary operator right, found after
// an operand, should take that operand away from the pending operator left.
// A left of TokenEOF means there is no pending operator.
func (t tightnessTable) rightBindsTighter(left, right syntax.TokenKind, leftIsUnary bool) bool {
	rt := t.tightness(right, binary)
	if rt < 0 {
		return false
	}
	f := binary
	if leftIsUnary {
		f = unary
	}
	lt := t.tightness(left, f)
	if lt < 0 {
		return true
	}
	if lt == rt && isRightAssoc(left) {
		return true
	}
	return rt > lt
}
