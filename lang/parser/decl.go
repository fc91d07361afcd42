package parser

import "github.com/dhamidi/weft/lang/syntax"

// declStarts are keywords that can only begin a declaration. Member and
// case loops stop in front of them.
var declStarts = []syntax.TokenKind{
	syntax.TokenEnum, syntax.TokenTrait, syntax.TokenInstance, syntax.TokenMod,
	syntax.TokenUse, syntax.TokenImport, syntax.TokenEff,
}

var modifierKinds = []syntax.TokenKind{
	syntax.TokenPub, syntax.TokenInline, syntax.TokenOverride,
	syntax.TokenSealed, syntax.TokenLawful,
}

func (p *Parser) parseRoot() {
	m := p.openBare()
	for p.nextNonComment(0) != syntax.TokenEOF {
		progress := p.mustProgress("declaration")
		p.declaration()
		progress()
	}
	p.advanceEOF()
	p.close(m, KindRoot)
}

// declaration parses one top-level or module-level declaration. Doc
// comments in front of it are absorbed by open.
func (p *Parser) declaration() {
	m := p.open()
	switch {
	case p.at(syntax.TokenUse):
		p.useDecl(m)
		return
	case p.at(syntax.TokenImport):
		p.importDecl(m)
		return
	}

	start := p.pos
	p.annotations()
	p.modifiers()
	switch p.nth(0) {
	case syntax.TokenDef:
		p.defDecl(m, KindDef, true)
	case syntax.TokenEnum:
		p.enumDecl(m)
	case syntax.TokenType:
		p.typeDecl(m)
	case syntax.TokenTrait:
		p.traitDecl(m)
	case syntax.TokenInstance:
		p.instanceDecl(m)
	case syntax.TokenEff:
		p.effectDecl(m)
	case syntax.TokenMod:
		p.moduleDecl(m)
	default:
		found := p.current()
		// Modifiers in front of '}' leave the brace to the enclosing rule.
		if !(p.pos > start && p.at(syntax.TokenCurlyR)) {
			p.advance()
		}
		p.closeWithError(m, unexpected("declaration", found))
	}
}

func (p *Parser) annotations() {
	if !p.at(syntax.TokenAt) {
		return
	}
	m := p.open()
	for p.eat(syntax.TokenAt) {
		p.expectAny(syntax.TokenNameUpper, syntax.TokenNameLower)
	}
	p.close(m, KindAnnotations)
}

func (p *Parser) modifiers() {
	if !p.atAny(modifierKinds...) {
		return
	}
	m := p.open()
	for p.atAny(modifierKinds...) {
		p.advance()
	}
	p.close(m, KindModifiers)
}

// name wraps a single identifier token of one of the given kinds.
func (p *Parser) name(kinds ...syntax.TokenKind) Closed {
	m := p.open()
	p.expectAny(kinds...)
	return p.close(m, KindName)
}

// qname parses A.B.c: any number of upper-case segments optionally ending
// in one lower-case segment.
func (p *Parser) qname() Closed {
	m := p.open()
	upper := p.at(syntax.TokenNameUpper)
	p.expectAny(syntax.TokenNameUpper, syntax.TokenNameLower)
	for upper && p.at(syntax.TokenDot) {
		next := p.nthNonComment(1)
		if next != syntax.TokenNameUpper && next != syntax.TokenNameLower {
			break
		}
		p.advance()
		p.expect(next)
		upper = next == syntax.TokenNameUpper
	}
	return p.close(m, KindQName)
}

// defDecl parses def name[tparams](params): Type \ Eff with ... = body.
// Without a body the node becomes a signature, unless the body is required.
func (p *Parser) defDecl(m Opened, kind NodeKind, bodyRequired bool) {
	p.expect(syntax.TokenDef)
	p.name(syntax.TokenNameLower, syntax.TokenNameUpper)
	if p.at(syntax.TokenBracketL) {
		p.typeParameters()
	}
	p.parameters()
	switch {
	case p.eat(syntax.TokenColon):
		p.typeAndEffect()
	case p.at(syntax.TokenEqual):
		// Handler and anonymous-object methods may omit the result type.
	default:
		p.expect(syntax.TokenColon)
	}
	if p.at(syntax.TokenWith) {
		p.withClause()
	}
	if !bodyRequired && !p.at(syntax.TokenEqual) {
		p.close(m, KindSignature)
		return
	}
	p.expect(syntax.TokenEqual)
	p.expression()
	p.close(m, kind)
}

func (p *Parser) parameters() {
	m := p.open()
	p.separated(list{
		open: syntax.TokenParenL, close: syntax.TokenParenR, sep: syntax.TokenComma,
		what: "parameter",
		item: func() {
			param := p.open()
			p.advance()
			if p.eat(syntax.TokenColon) {
				p.typeAndEffect()
			}
			p.close(param, KindParameter)
		},
		isItem: func(k syntax.TokenKind) bool {
			return k == syntax.TokenNameLower || k == syntax.TokenUnderscore
		},
	})
	p.close(m, KindParameters)
}

func (p *Parser) typeParameters() {
	m := p.open()
	p.separated(list{
		open: syntax.TokenBracketL, close: syntax.TokenBracketR, sep: syntax.TokenComma,
		what: "type parameter",
		item: func() {
			tp := p.open()
			p.advance()
			param := p.close(tp, KindTypeParameter)
			if p.at(syntax.TokenColon) {
				a := p.openBefore(param)
				p.advance()
				p.kind()
				p.close(a, KindKindAscription)
			}
		},
		isItem: func(k syntax.TokenKind) bool {
			return k == syntax.TokenNameLower || k == syntax.TokenNameUpper
		},
	})
	p.close(m, KindTypeParameters)
}

// withClause parses the constraint list after 'with': Eq[a], Order[a].
func (p *Parser) withClause() {
	m := p.open()
	p.expect(syntax.TokenWith)
	p.typ()
	for p.eat(syntax.TokenComma) {
		p.typ()
	}
	p.close(m, KindWithClause)
}

func (p *Parser) enumDecl(m Opened) {
	p.expect(syntax.TokenEnum)
	p.name(syntax.TokenNameUpper)
	if p.at(syntax.TokenBracketL) {
		p.typeParameters()
	}
	if p.at(syntax.TokenParenL) {
		p.caseTerms()
	}
	if p.at(syntax.TokenWith) {
		d := p.open()
		p.advance()
		p.qname()
		for p.eat(syntax.TokenComma) {
			p.qname()
		}
		p.close(d, KindDerivations)
	}
	if p.at(syntax.TokenCurlyL) {
		p.advance()
		for {
			p.comments()
			if p.at(syntax.TokenCurlyR) || p.eof() || p.atAny(declStarts...) {
				break
			}
			switch {
			case p.atAny(syntax.TokenCase, syntax.TokenNameUpper):
				c := p.open()
				p.eat(syntax.TokenCase)
				p.name(syntax.TokenNameUpper)
				if p.at(syntax.TokenParenL) {
					p.caseTerms()
				}
				p.close(c, KindEnumCase)
			case p.at(syntax.TokenComma):
				p.advance()
			default:
				p.errorUnexpected("enum case")
			}
		}
		p.expect(syntax.TokenCurlyR)
	}
	p.close(m, KindEnum)
}

func (p *Parser) caseTerms() {
	m := p.open()
	p.separated(list{
		open: syntax.TokenParenL, close: syntax.TokenParenR, sep: syntax.TokenComma,
		what:   "type",
		item:   func() { p.typ() },
		isItem: isTypeStart,
	})
	p.close(m, KindCaseTerms)
}

// typeDecl covers 'type alias' and associated type signatures and
// definitions inside traits and instances.
func (p *Parser) typeDecl(m Opened) {
	p.expect(syntax.TokenType)
	if p.eat(syntax.TokenAlias) {
		p.name(syntax.TokenNameUpper)
		if p.at(syntax.TokenBracketL) {
			p.typeParameters()
		}
		p.expect(syntax.TokenEqual)
		p.typ()
		p.close(m, KindTypeAlias)
		return
	}

	p.name(syntax.TokenNameUpper)
	if p.at(syntax.TokenBracketL) {
		p.typeArguments()
	}
	if p.eat(syntax.TokenColon) {
		p.kind()
	}
	if p.eat(syntax.TokenEqual) {
		p.typ()
		p.close(m, KindAssocTypeDef)
		return
	}
	p.close(m, KindAssocTypeSig)
}

func (p *Parser) traitDecl(m Opened) {
	p.expect(syntax.TokenTrait)
	p.name(syntax.TokenNameUpper)
	p.typeParameters()
	if p.at(syntax.TokenWith) {
		p.withClause()
	}
	p.members("trait member")
	p.close(m, KindTrait)
}

func (p *Parser) instanceDecl(m Opened) {
	p.expect(syntax.TokenInstance)
	p.qname()
	p.typeArguments()
	if p.at(syntax.TokenWith) {
		p.withClause()
	}
	p.members("instance member")
	p.close(m, KindInstance)
}

func (p *Parser) effectDecl(m Opened) {
	p.expect(syntax.TokenEff)
	p.name(syntax.TokenNameUpper)
	if p.at(syntax.TokenBracketL) {
		p.typeParameters()
	}
	p.members("effect operation")
	p.close(m, KindEffect)
}

func (p *Parser) moduleDecl(m Opened) {
	p.expect(syntax.TokenMod)
	p.qname()
	p.expect(syntax.TokenCurlyL)
	for {
		p.comments()
		if p.at(syntax.TokenCurlyR) || p.eof() {
			break
		}
		progress := p.mustProgress("declaration")
		p.declaration()
		progress()
	}
	p.expect(syntax.TokenCurlyR)
	p.close(m, KindModule)
}

// members parses '{' member* '}' where a member is a def (with or without a
// body) or an associated type, each with optional annotations and modifiers.
func (p *Parser) members(what string) {
	p.expect(syntax.TokenCurlyL)
	for {
		p.comments()
		if p.at(syntax.TokenCurlyR) || p.eof() {
			break
		}
		m := p.open()
		p.annotations()
		p.modifiers()
		switch {
		case p.at(syntax.TokenDef):
			p.defDecl(m, KindDef, false)
		case p.at(syntax.TokenType):
			p.typeDecl(m)
		case p.atAny(declStarts...):
			p.closeWithError(m, unexpected(what, p.current()))
			p.expect(syntax.TokenCurlyR)
			return
		default:
			found := p.current()
			if !p.at(syntax.TokenCurlyR) {
				p.advance()
			}
			p.closeWithError(m, unexpected(what, found))
		}
	}
	p.expect(syntax.TokenCurlyR)
}

func (p *Parser) useDecl(m Opened) {
	p.expect(syntax.TokenUse)
	p.qname()
	if p.at(syntax.TokenDot) && p.nthNonComment(1) == syntax.TokenCurlyL {
		p.advance()
		p.aliasedNames(KindUseMany)
	}
	p.eat(syntax.TokenSemi)
	p.close(m, KindUse)
}

// aliasedNames parses {a, b => c}.
func (p *Parser) aliasedNames(kind NodeKind) {
	m := p.open()
	p.separated(list{
		open: syntax.TokenCurlyL, close: syntax.TokenCurlyR, sep: syntax.TokenComma,
		what: "name",
		item: func() {
			a := p.open()
			p.advance()
			if p.eat(syntax.TokenArrowThick) {
				p.expectAny(syntax.TokenNameUpper, syntax.TokenNameLower)
			}
			p.close(a, KindAliasedName)
		},
		isItem: func(k syntax.TokenKind) bool {
			return k == syntax.TokenNameUpper || k == syntax.TokenNameLower
		},
	})
	p.close(m, kind)
}
