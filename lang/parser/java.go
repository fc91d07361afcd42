package parser

import "github.com/dhamidi/weft/lang/syntax"

// importDecl parses the Java interop imports:
//
//	import java.lang.StringBuilder
//	import java.util.{List => JList, Map}
//	import new java.lang.StringBuilder(): ##java.lang.StringBuilder \ IO as newSb
//	import java.lang.String.length(): Int32 as length
//	import static java.lang.Math.abs(Int32): Int32 as abs
//	import [static] get java.awt.Point.x: Int32 \ IO as getX
//
// The node kind is chosen once the shape has been seen.
func (p *Parser) importDecl(m Opened) {
	p.expect(syntax.TokenImport)
	isStatic := p.eat(syntax.TokenStatic)
	isNew := !isStatic && p.eat(syntax.TokenNew)

	accessor := ""
	if !isNew && p.at(syntax.TokenNameLower) {
		lit := p.current().Literal
		next := p.nthNonComment(1)
		if (lit == "get" || lit == "set") && (next == syntax.TokenNameLower || next == syntax.TokenNameUpper) {
			accessor = lit
			p.advance()
		}
	}

	p.javaName()

	var kind NodeKind
	switch {
	case isNew:
		p.jvmSignature()
		p.jvmResult()
		kind = KindJvmConstructorImport
	case accessor != "":
		p.expect(syntax.TokenColon)
		p.typeAndEffect()
		p.jvmAlias()
		kind = fieldImportKind(accessor, isStatic)
	case p.at(syntax.TokenParenL):
		p.jvmSignature()
		p.jvmResult()
		kind = KindJvmMethodImport
		if isStatic {
			kind = KindJvmStaticMethodImport
		}
	case p.at(syntax.TokenDot) && p.nthNonComment(1) == syntax.TokenCurlyL:
		p.advance()
		p.aliasedNames(KindImportMany)
		kind = KindImport
	default:
		if isStatic {
			p.expect(syntax.TokenParenL)
		}
		kind = KindImport
	}
	p.eat(syntax.TokenSemi)
	p.close(m, kind)
}

func fieldImportKind(accessor string, isStatic bool) NodeKind {
	switch {
	case accessor == "get" && isStatic:
		return KindJvmStaticGetFieldImport
	case accessor == "get":
		return KindJvmGetFieldImport
	case isStatic:
		return KindJvmStaticPutFieldImport
	}
	return KindJvmPutFieldImport
}

// javaName parses a dotted Java name such as java.lang.String. A trailing
// ".{" is left for the aliased list.
func (p *Parser) javaName() {
	m := p.open()
	p.expectAny(syntax.TokenNameLower, syntax.TokenNameUpper)
	for p.at(syntax.TokenDot) {
		next := p.nthNonComment(1)
		if next != syntax.TokenNameLower && next != syntax.TokenNameUpper {
			break
		}
		p.advance()
		p.expect(next)
	}
	p.close(m, KindJavaName)
}

func (p *Parser) jvmSignature() {
	m := p.open()
	p.separated(list{
		open: syntax.TokenParenL, close: syntax.TokenParenR, sep: syntax.TokenComma,
		what:   "parameter type",
		item:   func() { p.typ() },
		isItem: isTypeStart,
	})
	p.close(m, KindJvmSignature)
}

// jvmResult parses ": Type \ Eff as name".
func (p *Parser) jvmResult() {
	p.expect(syntax.TokenColon)
	p.typeAndEffect()
	p.jvmAlias()
}

func (p *Parser) jvmAlias() {
	p.expect(syntax.TokenAs)
	p.name(syntax.TokenNameLower)
}
