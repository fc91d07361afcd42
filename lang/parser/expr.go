package parser

import "github.com/dhamidi/weft/lang/syntax"

func isLiteral(kind syntax.TokenKind) bool {
	switch kind {
	case syntax.TokenInt, syntax.TokenFloat, syntax.TokenString, syntax.TokenChar,
		syntax.TokenTrue, syntax.TokenFalse, syntax.TokenNull:
		return true
	}
	return false
}

func isExprStart(kind syntax.TokenKind) bool {
	if isLiteral(kind) {
		return true
	}
	switch kind {
	case syntax.TokenNameLower, syntax.TokenNameUpper, syntax.TokenUnderscore,
		syntax.TokenHoleNamed, syntax.TokenHoleAnonymous,
		syntax.TokenParenL, syntax.TokenCurlyL,
		syntax.TokenIf, syntax.TokenMatch, syntax.TokenTry, syntax.TokenDo,
		syntax.TokenForeach, syntax.TokenForM, syntax.TokenForA,
		syntax.TokenCheckedCast, syntax.TokenCheckedECast, syntax.TokenUncheckedCast,
		syntax.TokenListHash, syntax.TokenSetHash, syntax.TokenVectorHash,
		syntax.TokenArrayHash, syntax.TokenMapHash,
		syntax.TokenMinus, syntax.TokenPlus, syntax.TokenNot, syntax.TokenTripleTilde,
		syntax.TokenLazy, syntax.TokenForce, syntax.TokenDiscard,
		syntax.TokenNew:
		return true
	}
	return false
}

// exprAnchors are tokens an enclosing rule is waiting for. A missing
// expression in front of one of them is reported without consuming it.
var exprAnchors = []syntax.TokenKind{
	syntax.TokenParenR, syntax.TokenBracketR, syntax.TokenCurlyR,
	syntax.TokenComma, syntax.TokenSemi, syntax.TokenArrowThick,
	syntax.TokenElse, syntax.TokenCase, syntax.TokenYield, syntax.TokenCatch, syntax.TokenWith,
	syntax.TokenDef, syntax.TokenEnum, syntax.TokenTrait, syntax.TokenInstance,
	syntax.TokenMod, syntax.TokenUse, syntax.TokenImport, syntax.TokenEff,
}

// expression parses an expression followed by an optional type ascription.
func (p *Parser) expression() Closed {
	lhs := p.binaryExpr(syntax.TokenEOF, false)
	if p.at(syntax.TokenColon) {
		m := p.openBefore(lhs)
		p.advance()
		p.typeAndEffect()
		lhs = p.close(m, KindExprAscribe)
	}
	return lhs
}

// binaryExpr parses an operand and folds following binary operators that
// bind tighter than left into it.
func (p *Parser) binaryExpr(left syntax.TokenKind, leftIsUnary bool) Closed {
	lhs := p.suffixes(p.delimited())
	for {
		p.comments()
		right := p.nth(0)
		if !exprTightness.rightBindsTighter(left, right, leftIsUnary) {
			return lhs
		}
		m := p.openBefore(lhs)
		p.operator()
		p.binaryExpr(right, false)
		lhs = p.close(m, KindExprBinary)
	}
}

func (p *Parser) operator() {
	m := p.open()
	p.advance()
	p.close(m, KindOperator)
}

func (p *Parser) suffixes(lhs Closed) Closed {
	for {
		switch {
		case p.at(syntax.TokenDot) && p.nthNonComment(1) == syntax.TokenNameLower:
			m := p.openBefore(lhs)
			p.advance()
			p.name(syntax.TokenNameLower)
			lhs = p.close(m, KindExprSelect)
		case p.at(syntax.TokenParenL):
			m := p.openBefore(lhs)
			p.arguments()
			lhs = p.close(m, KindExprApply)
		default:
			return lhs
		}
	}
}

func (p *Parser) arguments() {
	m := p.open()
	p.separated(list{
		open: syntax.TokenParenL, close: syntax.TokenParenR, sep: syntax.TokenComma,
		what: "argument",
		item: func() {
			a := p.open()
			p.expression()
			p.close(a, KindArgument)
		},
		isItem: isExprStart,
	})
	p.close(m, KindArguments)
}

func (p *Parser) delimited() Closed {
	p.comments()
	kind := p.nth(0)
	if isLiteral(kind) {
		m := p.open()
		p.advance()
		return p.close(m, KindExprLiteral)
	}

	switch kind {
	case syntax.TokenParenL:
		return p.parenExpr()
	case syntax.TokenCurlyL:
		if p.nthNonComment(1) == syntax.TokenNameLower && p.nthNonComment(2) == syntax.TokenEqual {
			return p.recordExpr()
		}
		return p.block()
	case syntax.TokenIf:
		return p.ifExpr()
	case syntax.TokenMatch:
		return p.matchExpr()
	case syntax.TokenTry:
		return p.tryExpr()
	case syntax.TokenDo:
		return p.doExpr()
	case syntax.TokenForeach:
		return p.forExpr(KindExprForeach)
	case syntax.TokenForM:
		return p.forExpr(KindExprForM)
	case syntax.TokenForA:
		return p.forExpr(KindExprForA)
	case syntax.TokenCheckedCast:
		return p.checkedCast(KindExprCheckedCast)
	case syntax.TokenCheckedECast:
		return p.checkedCast(KindExprCheckedEffectCast)
	case syntax.TokenUncheckedCast:
		return p.uncheckedCast()
	case syntax.TokenListHash:
		return p.collection(KindExprList)
	case syntax.TokenSetHash:
		return p.collection(KindExprSet)
	case syntax.TokenVectorHash:
		return p.collection(KindExprVector)
	case syntax.TokenArrayHash:
		return p.collection(KindExprArray)
	case syntax.TokenMapHash:
		return p.mapExpr()
	case syntax.TokenHoleNamed, syntax.TokenHoleAnonymous:
		m := p.open()
		p.advance()
		return p.close(m, KindExprHole)
	case syntax.TokenMinus, syntax.TokenPlus, syntax.TokenNot, syntax.TokenTripleTilde,
		syntax.TokenLazy, syntax.TokenForce, syntax.TokenDiscard:
		return p.unaryExpr()
	case syntax.TokenNew:
		return p.newObject()
	case syntax.TokenNameLower, syntax.TokenUnderscore:
		if p.nthNonComment(1) == syntax.TokenArrowThin {
			return p.lambdaSingle()
		}
		if kind == syntax.TokenUnderscore {
			m := p.open()
			p.advance()
			return p.close(m, KindExprName)
		}
		return p.exprName()
	case syntax.TokenNameUpper:
		return p.exprName()
	}

	if p.atAny(exprAnchors...) || p.eof() {
		return p.errorMissing("expression")
	}
	return p.errorUnexpected("expression")
}

func (p *Parser) exprName() Closed {
	m := p.open()
	p.qname()
	return p.close(m, KindExprName)
}

func (p *Parser) unaryExpr() Closed {
	m := p.open()
	op := p.nth(0)
	p.operator()
	p.binaryExpr(op, true)
	return p.close(m, KindExprUnary)
}

// parenExpr handles everything that starts with '(':
//
//	()           unit
//	() -> e      lambda without parameters
//	(x, y) -> e  lambda
//	(e)          grouping
//	(e1, e2)     tuple
func (p *Parser) parenExpr() Closed {
	if p.nthNonComment(1) == syntax.TokenParenR {
		m := p.open()
		if p.nthNonComment(2) == syntax.TokenArrowThin {
			params := p.open()
			p.advance()
			p.expect(syntax.TokenParenR)
			p.close(params, KindParameters)
			p.expect(syntax.TokenArrowThin)
			p.expression()
			return p.close(m, KindExprLambda)
		}
		p.advance()
		p.expect(syntax.TokenParenR)
		return p.close(m, KindExprTuple)
	}

	if p.arrowAfterParens() {
		m := p.open()
		p.parameters()
		p.expect(syntax.TokenArrowThin)
		p.expression()
		return p.close(m, KindExprLambda)
	}

	m := p.open()
	items := p.separated(list{
		open: syntax.TokenParenL, close: syntax.TokenParenR, sep: syntax.TokenComma,
		what:   "expression",
		item:   func() { p.expression() },
		isItem: isExprStart,
	})
	if items == 1 {
		return p.close(m, KindExprParen)
	}
	return p.close(m, KindExprTuple)
}

// arrowAfterParens scans to the ')' matching the current '(' and reports
// whether '->' follows it.
func (p *Parser) arrowAfterParens() bool {
	p.spend()
	depth := 0
	for k := 0; ; k++ {
		switch p.peekKind(k) {
		case syntax.TokenParenL:
			depth++
		case syntax.TokenParenR:
			depth--
			if depth == 0 {
				return p.nextNonComment(k+1) == syntax.TokenArrowThin
			}
		case syntax.TokenEOF:
			return false
		}
	}
}

// nextNonComment returns the first non-comment kind at or after offset k.
func (p *Parser) nextNonComment(k int) syntax.TokenKind {
	for {
		kind := p.peekKind(k)
		if !kind.IsComment() {
			return kind
		}
		k++
	}
}

func (p *Parser) lambdaSingle() Closed {
	m := p.open()
	param := p.open()
	p.advance()
	p.close(param, KindParameter)
	p.expect(syntax.TokenArrowThin)
	p.expression()
	return p.close(m, KindExprLambda)
}

func (p *Parser) recordExpr() Closed {
	m := p.open()
	p.separated(list{
		open: syntax.TokenCurlyL, close: syntax.TokenCurlyR, sep: syntax.TokenComma,
		what: "record field",
		item: func() {
			f := p.open()
			p.name(syntax.TokenNameLower)
			p.expect(syntax.TokenEqual)
			p.expression()
			p.close(f, KindRecordField)
		},
		isItem: func(k syntax.TokenKind) bool { return k == syntax.TokenNameLower },
		tail:   func() { p.expression() },
	})
	return p.close(m, KindExprRecord)
}

// block parses '{' statement (';' statement)* '}'. Statements are let
// bindings, local definitions and expressions.
func (p *Parser) block() Closed {
	m := p.open()
	p.expect(syntax.TokenCurlyL)
	for {
		p.comments()
		if p.at(syntax.TokenCurlyR) || p.eof() {
			break
		}
		progress := p.mustProgress("statement")
		p.statement()
		if !p.at(syntax.TokenCurlyR) && !p.eof() {
			p.expect(syntax.TokenSemi)
		}
		progress()
	}
	p.expect(syntax.TokenCurlyR)
	return p.close(m, KindExprBlock)
}

func (p *Parser) statement() {
	m := p.open()
	p.annotations()
	switch {
	case p.at(syntax.TokenLet):
		p.advance()
		p.pattern()
		if p.eat(syntax.TokenColon) {
			p.typeAndEffect()
		}
		p.expect(syntax.TokenEqual)
		p.expression()
		p.close(m, KindStmtLet)
	case p.at(syntax.TokenDef):
		p.defDecl(m, KindStmtDef, true)
	default:
		p.expression()
		p.close(m, KindStmtExpr)
	}
}

func (p *Parser) ifExpr() Closed {
	m := p.open()
	p.expect(syntax.TokenIf)
	p.expect(syntax.TokenParenL)
	p.expression()
	p.expect(syntax.TokenParenR)
	p.expression()
	p.expect(syntax.TokenElse)
	p.expression()
	return p.close(m, KindExprIf)
}

func (p *Parser) matchExpr() Closed {
	if p.isMatchLambda() {
		m := p.open()
		p.expect(syntax.TokenMatch)
		p.pattern()
		p.expect(syntax.TokenArrowThin)
		p.expression()
		return p.close(m, KindExprMatchLambda)
	}

	m := p.open()
	p.expect(syntax.TokenMatch)
	p.expression()
	p.expect(syntax.TokenCurlyL)
	for {
		p.comments()
		if p.at(syntax.TokenCurlyR) || p.eof() {
			break
		}
		if p.atAny(listStops...) {
			break
		}
		if !p.at(syntax.TokenCase) {
			p.errorUnexpected("'case'")
			continue
		}
		p.matchRule()
	}
	p.expect(syntax.TokenCurlyR)
	return p.close(m, KindExprMatch)
}

// isMatchLambda scans forward from 'match'. Seeing 'case' first means an
// ordinary match; seeing '->' outside of parentheses first means a
// match-lambda.
func (p *Parser) isMatchLambda() bool {
	p.spend()
	depth := 0
	for k := 1; ; k++ {
		switch p.peekKind(k) {
		case syntax.TokenCase, syntax.TokenEOF:
			return false
		case syntax.TokenParenL:
			depth++
		case syntax.TokenParenR:
			depth--
		case syntax.TokenArrowThin:
			if depth <= 0 {
				return true
			}
		}
	}
}

func (p *Parser) matchRule() {
	m := p.open()
	p.expect(syntax.TokenCase)
	p.pattern()
	if p.eat(syntax.TokenIf) {
		p.expression()
	}
	p.expect(syntax.TokenArrowThick)
	p.expression()
	p.close(m, KindMatchRule)
}

func (p *Parser) tryExpr() Closed {
	m := p.open()
	p.expect(syntax.TokenTry)
	p.expression()
	switch {
	case p.at(syntax.TokenCatch):
		p.advance()
		p.expect(syntax.TokenCurlyL)
		for p.at(syntax.TokenCase) {
			r := p.open()
			p.advance()
			p.expectAny(syntax.TokenNameLower, syntax.TokenUnderscore)
			p.expect(syntax.TokenColon)
			p.typ()
			p.expect(syntax.TokenArrowThick)
			p.expression()
			p.close(r, KindCatchRule)
		}
		p.expect(syntax.TokenCurlyR)
		return p.close(m, KindExprTryCatch)
	case p.at(syntax.TokenWith):
		for p.at(syntax.TokenWith) {
			h := p.open()
			p.advance()
			p.qname()
			p.members("handler operation")
			p.close(h, KindWithHandler)
		}
		return p.close(m, KindExprTryWith)
	}
	p.expectAny(syntax.TokenCatch, syntax.TokenWith)
	return p.close(m, KindExprTryCatch)
}

func (p *Parser) doExpr() Closed {
	m := p.open()
	p.expect(syntax.TokenDo)
	p.qname()
	if p.at(syntax.TokenParenL) {
		p.arguments()
	} else {
		p.expect(syntax.TokenParenL)
	}
	return p.close(m, KindExprDo)
}

// forExpr covers foreach, forM and forA. The monadic forms need a yield.
func (p *Parser) forExpr(kind NodeKind) Closed {
	m := p.open()
	p.advance()
	gens := p.open()
	p.separated(list{
		open: syntax.TokenParenL, close: syntax.TokenParenR, sep: syntax.TokenSemi,
		what: "generator",
		item: p.generator,
		isItem: func(k syntax.TokenKind) bool {
			return k == syntax.TokenIf || isPatternStart(k)
		},
	})
	p.close(gens, KindGenerators)
	if kind != KindExprForeach {
		p.expect(syntax.TokenYield)
	}
	p.expression()
	return p.close(m, kind)
}

func (p *Parser) generator() {
	m := p.open()
	if p.eat(syntax.TokenIf) {
		p.expression()
		p.close(m, KindGuard)
		return
	}
	p.pattern()
	p.expect(syntax.TokenArrowLeft)
	p.expression()
	p.close(m, KindGenerator)
}

func (p *Parser) checkedCast(kind NodeKind) Closed {
	m := p.open()
	p.advance()
	p.expect(syntax.TokenParenL)
	p.expression()
	p.expect(syntax.TokenParenR)
	return p.close(m, kind)
}

func (p *Parser) uncheckedCast() Closed {
	m := p.open()
	p.advance()
	p.expect(syntax.TokenParenL)
	p.expression()
	p.expect(syntax.TokenAs)
	p.typeAndEffect()
	p.expect(syntax.TokenParenR)
	return p.close(m, KindExprUncheckedCast)
}

func (p *Parser) collection(kind NodeKind) Closed {
	m := p.open()
	p.advance()
	p.curlyExprList("element", func() { p.expression() })
	if kind == KindExprArray && p.eat(syntax.TokenAt) {
		p.delimited()
	}
	return p.close(m, kind)
}

func (p *Parser) mapExpr() Closed {
	m := p.open()
	p.advance()
	p.curlyExprList("map entry", func() {
		e := p.open()
		p.expression()
		p.expect(syntax.TokenArrowThick)
		p.expression()
		p.close(e, KindMapEntry)
	})
	return p.close(m, KindExprMap)
}

func (p *Parser) curlyExprList(what string, item func()) {
	p.separated(list{
		open: syntax.TokenCurlyL, close: syntax.TokenCurlyR, sep: syntax.TokenComma,
		what: what, item: item, isItem: isExprStart,
	})
}

// newObject parses an anonymous JVM object: new ##java.lang.Runnable { defs }.
func (p *Parser) newObject() Closed {
	m := p.open()
	p.expect(syntax.TokenNew)
	p.typ()
	if p.at(syntax.TokenCurlyL) {
		p.members("method")
	}
	return p.close(m, KindExprNewObject)
}
