package parser

import "github.com/dhamidi/weft/lang/syntax"

func isPatternStart(kind syntax.TokenKind) bool {
	if isLiteral(kind) {
		return true
	}
	switch kind {
	case syntax.TokenUnderscore, syntax.TokenNameLower, syntax.TokenNameUpper,
		syntax.TokenMinus, syntax.TokenParenL, syntax.TokenCurlyL:
		return true
	}
	return false
}

var patternAnchors = []syntax.TokenKind{
	syntax.TokenParenR, syntax.TokenCurlyR, syntax.TokenComma, syntax.TokenSemi,
	syntax.TokenArrowThick, syntax.TokenArrowThin, syntax.TokenArrowLeft,
	syntax.TokenEqual, syntax.TokenIf, syntax.TokenColon,
}

// pattern parses a pattern; p :: q folds to the right by recursion.
func (p *Parser) pattern() Closed {
	lhs := p.delimitedPattern()
	if p.atAny(syntax.TokenColonColon, syntax.TokenTripleColon) {
		m := p.openBefore(lhs)
		p.operator()
		p.pattern()
		lhs = p.close(m, KindPatternCons)
	}
	return lhs
}

func (p *Parser) delimitedPattern() Closed {
	p.comments()
	kind := p.nth(0)
	if isLiteral(kind) {
		return p.leaf(KindPatternLiteral)
	}
	switch kind {
	case syntax.TokenUnderscore:
		return p.leaf(KindPatternWildcard)
	case syntax.TokenNameLower:
		return p.leaf(KindPatternVar)
	case syntax.TokenMinus:
		if next := p.nthNonComment(1); next == syntax.TokenInt || next == syntax.TokenFloat {
			m := p.open()
			p.advance()
			p.expect(next)
			return p.close(m, KindPatternLiteral)
		}
	case syntax.TokenNameUpper:
		m := p.open()
		p.qname()
		if p.at(syntax.TokenParenL) {
			t := p.open()
			p.patternList()
			p.close(t, KindPatternTerms)
		}
		return p.close(m, KindPatternTag)
	case syntax.TokenParenL:
		m := p.open()
		if p.patternList() == 1 {
			return p.close(m, KindPatternParen)
		}
		return p.close(m, KindPatternTuple)
	case syntax.TokenCurlyL:
		return p.recordPattern()
	}

	if p.atAny(patternAnchors...) || p.eof() {
		return p.errorMissing("pattern")
	}
	return p.errorUnexpected("pattern")
}

func (p *Parser) patternList() int {
	return p.separated(list{
		open: syntax.TokenParenL, close: syntax.TokenParenR, sep: syntax.TokenComma,
		what:   "pattern",
		item:   func() { p.pattern() },
		isItem: isPatternStart,
	})
}

// recordPattern parses { x, y = p | r }.
func (p *Parser) recordPattern() Closed {
	m := p.open()
	p.separated(list{
		open: syntax.TokenCurlyL, close: syntax.TokenCurlyR, sep: syntax.TokenComma,
		what: "record field",
		item: func() {
			f := p.open()
			p.name(syntax.TokenNameLower)
			if p.eat(syntax.TokenEqual) {
				p.pattern()
			}
			p.close(f, KindPatternRecordField)
		},
		isItem: func(k syntax.TokenKind) bool { return k == syntax.TokenNameLower },
		tail:   func() { p.pattern() },
	})
	return p.close(m, KindPatternRecord)
}
