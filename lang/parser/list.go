package parser

import "github.com/dhamidi/weft/lang/syntax"

// list describes a delimited, separated sequence such as an argument list.
type list struct {
	open, close, sep syntax.TokenKind
	// what names an item in diagnostics ("argument", "pattern").
	what   string
	item   func()
	isItem func(syntax.TokenKind) bool
	// tail, when set, is parsed after a '|' just before the close delimiter
	// (record extension).
	tail func()
}

// listStops are tokens that end a list even though they are not its close
// delimiter; the missing close is then reported once.
var listStops = []syntax.TokenKind{
	syntax.TokenParenR, syntax.TokenBracketR, syntax.TokenCurlyR, syntax.TokenSemi,
	syntax.TokenDef, syntax.TokenEnum, syntax.TokenTrait, syntax.TokenInstance,
	syntax.TokenMod, syntax.TokenUse, syntax.TokenImport, syntax.TokenEff,
}

// separated parses l and returns how many real items it saw. The caller
// opens and closes the surrounding node, so the kind can depend on the
// count.
func (p *Parser) separated(l list) int {
	if !p.expect(l.open) {
		return 0
	}
	items := 0
	needSep := false
	for {
		p.comments()
		if p.at(l.close) || p.eof() {
			break
		}
		if l.tail != nil && p.at(syntax.TokenBar) {
			p.advance()
			l.tail()
			break
		}
		if needSep {
			if p.at(l.sep) {
				if p.nthNonComment(1) == l.close {
					m := p.open()
					p.advance()
					p.closeWithError(m, &Diagnostic{
						Message:  "trailing '" + l.sep.String() + "' before '" + l.close.String() + "'",
						Expected: []syntax.TokenKind{l.close},
						Found:    p.tokens[p.pos-1],
					})
					break
				}
				p.advance()
				needSep = false
				continue
			}
			if p.atAny(listStops...) {
				break
			}
			p.expect(l.sep)
		}
		needSep = true
		if p.isItemStart(l) {
			l.item()
			items++
			continue
		}
		if p.atAny(listStops...) {
			break
		}
		p.errorUnexpected(l.what)
	}
	p.expect(l.close)
	return items
}

func (p *Parser) isItemStart(l list) bool {
	if l.isItem == nil {
		return true
	}
	p.comments()
	return l.isItem(p.nth(0))
}
