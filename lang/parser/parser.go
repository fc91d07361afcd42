package parser

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/weft/lang/syntax"
)

var log = commonlog.GetLogger("weft.parser")

// defaultFuel bounds how many lookahead queries may happen without consuming
// a token or closing a node before the parser declares itself stuck.
const defaultFuel = 256

type Option func(*Parser)

// WithFile sets the file name reported in diagnostics and in the zero
// position of the root span.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithFuel overrides the lookahead budget. Values below one are ignored.
func WithFuel(fuel int) Option {
	return func(p *Parser) {
		if fuel > 0 {
			p.maxFuel = fuel
		}
	}
}

type entryFunc func(*Parser)

// Parser is the per-file parsing context. The token array is borrowed and
// never modified; everything else is owned by the parser and discarded once
// the tree has been built.
type Parser struct {
	file        string
	tokens      []syntax.Token
	pos         int
	fuel        int
	maxFuel     int
	events      []Event
	diagnostics []*Diagnostic
}

func newParser(tokens []syntax.Token, opts []Option) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != syntax.TokenEOF {
		tokens = withEOF(tokens)
	}
	p := &Parser{
		tokens:  tokens,
		maxFuel: defaultFuel,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.file == "" {
		p.file = tokens[0].Span.Start.File
	}
	p.fuel = p.maxFuel
	p.events = make([]Event, 0, len(tokens)*2)
	return p
}

// withEOF returns a copy of tokens terminated by an EOF sentinel placed at
// the end of the last token.
func withEOF(tokens []syntax.Token) []syntax.Token {
	var end syntax.Position
	if len(tokens) > 0 {
		end = tokens[len(tokens)-1].Span.End
	} else {
		end = syntax.Position{Line: 1, Column: 1}
	}
	out := make([]syntax.Token, len(tokens), len(tokens)+1)
	copy(out, tokens)
	return append(out, syntax.Token{Kind: syntax.TokenEOF, Span: syntax.Span{Start: end, End: end}})
}

// Parse parses a whole source file. It always returns a tree for recoverable
// problems; err is non-nil only for an *InternalError, in which case no tree
// is returned.
func Parse(tokens []syntax.Token, opts ...Option) (*Node, []*Diagnostic, error) {
	return run(tokens, (*Parser).parseRoot, opts)
}

// ParseExpression parses a single expression, used by tests and the REPL
// style `weft parse --expr` mode.
func ParseExpression(tokens []syntax.Token, opts ...Option) (*Node, []*Diagnostic, error) {
	return run(tokens, (*Parser).parseExpressionRoot, opts)
}

func ParseType(tokens []syntax.Token, opts ...Option) (*Node, []*Diagnostic, error) {
	return run(tokens, (*Parser).parseTypeRoot, opts)
}

// ParseSource tokenizes src and parses it as a file.
func ParseSource(src syntax.Source, opts ...Option) (*Node, []*Diagnostic, error) {
	tokens := syntax.Tokenize(src.Text, src.Name)
	return Parse(tokens, append([]Option{WithFile(src.Name)}, opts...)...)
}

func run(tokens []syntax.Token, entry entryFunc, opts []Option) (root *Node, diags []*Diagnostic, err error) {
	p := newParser(tokens, opts)
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			log.Errorf("%s: %s", p.file, ie.Error())
			root, diags, err = nil, nil, ie
		}
	}()

	entry(p)
	root = p.buildTree()
	log.Debugf("%s: %d tokens, %d events, %d diagnostics", p.file, len(p.tokens), len(p.events), len(p.diagnostics))
	return root, p.diagnostics, nil
}

func (p *Parser) parseExpressionRoot() {
	m := p.open()
	p.expression()
	p.trailing("expression")
	p.advanceEOF()
	p.close(m, KindRoot)
}

func (p *Parser) parseTypeRoot() {
	m := p.open()
	p.typeAndEffect()
	p.trailing("type")
	p.advanceEOF()
	p.close(m, KindRoot)
}

// trailing wraps everything left before EOF into a single error node.
func (p *Parser) trailing(what string) {
	p.comments()
	if p.eof() {
		return
	}
	m := p.open()
	found := p.current()
	for !p.eof() {
		p.advance()
	}
	p.closeWithError(m, unexpected("end of "+what, found))
}

// current returns the token at the cursor without spending fuel.
func (p *Parser) current() syntax.Token {
	return p.tokens[min(p.pos, len(p.tokens)-1)]
}

// peekKind reads k tokens ahead without spending fuel. Only bounded scans use
// it; they charge a single unit of fuel up front through spend.
func (p *Parser) peekKind(k int) syntax.TokenKind {
	i := p.pos + k
	if i >= len(p.tokens) {
		return syntax.TokenEOF
	}
	return p.tokens[i].Kind
}

func (p *Parser) spend() {
	if p.fuel <= 0 {
		panic(p.internalError("parser is stuck"))
	}
	p.fuel--
}

// nth returns the kind of the token k positions ahead, counting comments.
// Every call spends one unit of fuel. Grammar rules only use it for k == 0,
// after comments have been absorbed; further lookahead uses nthNonComment.
func (p *Parser) nth(k int) syntax.TokenKind {
	p.spend()
	return p.peekKind(k)
}

// nthNonComment is like nth but skips comment tokens while counting.
func (p *Parser) nthNonComment(k int) syntax.TokenKind {
	p.spend()
	for i := p.pos; i < len(p.tokens); i++ {
		kind := p.tokens[i].Kind
		if kind.IsComment() {
			continue
		}
		if k == 0 {
			return kind
		}
		k--
	}
	return syntax.TokenEOF
}

// eof reports whether only the EOF sentinel is left. It is free.
func (p *Parser) eof() bool {
	return p.pos >= len(p.tokens)-1
}

func (p *Parser) at(kind syntax.TokenKind) bool {
	p.comments()
	return p.nth(0) == kind
}

func (p *Parser) atAny(kinds ...syntax.TokenKind) bool {
	p.comments()
	current := p.nth(0)
	for _, kind := range kinds {
		if current == kind {
			return true
		}
	}
	return false
}

func (p *Parser) eat(kind syntax.TokenKind) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given kind, or records a zero-width error
// node without consuming anything.
func (p *Parser) expect(kind syntax.TokenKind) bool {
	if p.eat(kind) {
		return true
	}
	m := p.open()
	p.closeWithError(m, expected(p.current(), kind))
	return false
}

// expectAny consumes one token of any of the given kinds.
func (p *Parser) expectAny(kinds ...syntax.TokenKind) bool {
	if p.atAny(kinds...) {
		p.advance()
		return true
	}
	m := p.open()
	p.closeWithError(m, expected(p.current(), kinds...))
	return false
}

// errorUnexpected consumes the current token into an error node. At EOF the
// error node is zero-width.
func (p *Parser) errorUnexpected(what string) Closed {
	m := p.open()
	found := p.current()
	p.advance()
	return p.closeWithError(m, unexpected(what, found))
}

// errorMissing records a zero-width error node without consuming.
func (p *Parser) errorMissing(what string) Closed {
	m := p.open()
	return p.closeWithError(m, unexpected(what, p.current()))
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end: when nothing was consumed it swallows one token into an error
// node so the loop cannot spin.
func (p *Parser) mustProgress(what string) func() bool {
	saved := p.pos
	return func() bool {
		if p.pos != saved {
			return true
		}
		if !p.eof() {
			p.errorUnexpected(what)
		}
		return false
	}
}

// comments moves pending comment tokens into a comment-list node.
func (p *Parser) comments() {
	if !p.current().Kind.IsComment() {
		return
	}
	m := p.openBare()
	for p.current().Kind.IsComment() {
		p.advance()
	}
	p.close(m, KindCommentList)
}

func (p *Parser) internalError(msg string) *InternalError {
	lo := max(0, p.pos-5)
	hi := min(len(p.tokens), p.pos+3)
	window := make([]syntax.Token, hi-lo)
	copy(window, p.tokens[lo:hi])
	return &InternalError{
		File:    p.file,
		Message: msg,
		Pos:     p.pos,
		Window:  window,
	}
}
