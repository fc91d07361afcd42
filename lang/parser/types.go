package parser

import "github.com/dhamidi/weft/lang/syntax"

func isTypeStart(kind syntax.TokenKind) bool {
	switch kind {
	case syntax.TokenNameUpper, syntax.TokenNameLower, syntax.TokenUnderscore,
		syntax.TokenNameJava, syntax.TokenTrue, syntax.TokenFalse,
		syntax.TokenParenL, syntax.TokenCurlyL, syntax.TokenNot, syntax.TokenTilde:
		return true
	}
	return false
}

var typeAnchors = []syntax.TokenKind{
	syntax.TokenParenR, syntax.TokenBracketR, syntax.TokenCurlyR,
	syntax.TokenComma, syntax.TokenSemi, syntax.TokenEqual, syntax.TokenArrowThick,
	syntax.TokenAs, syntax.TokenWith, syntax.TokenDef,
}

// typeAndEffect parses a type with an optional effect: T \ E or T \ {E1, E2}.
func (p *Parser) typeAndEffect() Closed {
	lhs := p.typ()
	if p.at(syntax.TokenBackslash) {
		m := p.openBefore(lhs)
		p.advance()
		if p.at(syntax.TokenCurlyL) {
			p.effectSet()
		} else {
			p.typ()
		}
		lhs = p.close(m, KindTypeWithEffect)
	}
	return lhs
}

func (p *Parser) typ() Closed {
	return p.binaryType(syntax.TokenEOF, false)
}

func (p *Parser) binaryType(left syntax.TokenKind, leftIsUnary bool) Closed {
	lhs := p.delimitedType()
	for {
		p.comments()
		right := p.nth(0)
		if !typeTightness.rightBindsTighter(left, right, leftIsUnary) {
			return lhs
		}
		m := p.openBefore(lhs)
		p.operator()
		if right == syntax.TokenArrowThin {
			p.typeAndEffect()
			lhs = p.close(m, KindTypeFunction)
			continue
		}
		p.binaryType(right, false)
		lhs = p.close(m, KindTypeBinary)
	}
}

func (p *Parser) delimitedType() Closed {
	p.comments()
	switch p.nth(0) {
	case syntax.TokenNameUpper:
		m := p.open()
		p.qname()
		return p.typeApplication(p.close(m, KindTypeName))
	case syntax.TokenNameLower:
		m := p.open()
		p.advance()
		return p.typeApplication(p.close(m, KindTypeVar))
	case syntax.TokenUnderscore:
		return p.leaf(KindTypeWildcard)
	case syntax.TokenNameJava:
		return p.leaf(KindTypeNative)
	case syntax.TokenTrue, syntax.TokenFalse:
		return p.leaf(KindTypeConstant)
	case syntax.TokenParenL:
		m := p.open()
		items := p.separated(list{
			open: syntax.TokenParenL, close: syntax.TokenParenR, sep: syntax.TokenComma,
			what:   "type",
			item:   func() { p.typ() },
			isItem: isTypeStart,
		})
		if items == 1 {
			return p.close(m, KindTypeParen)
		}
		return p.close(m, KindTypeTuple)
	case syntax.TokenCurlyL:
		if p.nthNonComment(1) == syntax.TokenNameUpper {
			return p.effectSet()
		}
		return p.recordType()
	case syntax.TokenNot, syntax.TokenTilde:
		m := p.open()
		op := p.nth(0)
		p.operator()
		p.binaryType(op, true)
		return p.close(m, KindTypeUnary)
	}

	if p.atAny(typeAnchors...) || p.eof() {
		return p.errorMissing("type")
	}
	return p.errorUnexpected("type")
}

func (p *Parser) leaf(kind NodeKind) Closed {
	m := p.open()
	p.advance()
	return p.close(m, kind)
}

func (p *Parser) typeApplication(lhs Closed) Closed {
	if !p.at(syntax.TokenBracketL) {
		return lhs
	}
	m := p.openBefore(lhs)
	p.typeArguments()
	return p.close(m, KindTypeApply)
}

func (p *Parser) typeArguments() {
	m := p.open()
	p.separated(list{
		open: syntax.TokenBracketL, close: syntax.TokenBracketR, sep: syntax.TokenComma,
		what:   "type argument",
		item:   func() { p.typ() },
		isItem: isTypeStart,
	})
	p.close(m, KindTypeArguments)
}

func (p *Parser) effectSet() Closed {
	m := p.open()
	p.separated(list{
		open: syntax.TokenCurlyL, close: syntax.TokenCurlyR, sep: syntax.TokenComma,
		what:   "effect",
		item:   func() { p.typ() },
		isItem: isTypeStart,
	})
	return p.close(m, KindEffectSet)
}

// recordType parses { x = T, y = U | r }.
func (p *Parser) recordType() Closed {
	m := p.open()
	p.separated(list{
		open: syntax.TokenCurlyL, close: syntax.TokenCurlyR, sep: syntax.TokenComma,
		what: "record field",
		item: func() {
			f := p.open()
			p.name(syntax.TokenNameLower)
			p.expect(syntax.TokenEqual)
			p.typ()
			p.close(f, KindTypeRecordField)
		},
		isItem: func(k syntax.TokenKind) bool { return k == syntax.TokenNameLower },
		tail:   func() { p.typ() },
	})
	return p.close(m, KindTypeRecord)
}

// kind parses Type, Eff, (K) and K -> K, the arrow associating to the right.
func (p *Parser) kind() Closed {
	var lhs Closed
	switch {
	case p.at(syntax.TokenNameUpper):
		lhs = p.leaf(KindKindName)
	case p.at(syntax.TokenParenL):
		m := p.open()
		p.advance()
		p.kind()
		p.expect(syntax.TokenParenR)
		lhs = p.close(m, KindKindParen)
	default:
		lhs = p.errorMissing("kind")
	}
	if p.at(syntax.TokenArrowThin) {
		m := p.openBefore(lhs)
		p.advance()
		p.kind()
		lhs = p.close(m, KindKindArrow)
	}
	return lhs
}
