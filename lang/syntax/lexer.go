package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer turns source text into tokens. Whitespace is dropped; comments are
// kept as tokens so the parser can attach them to the tree.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

// Tokenize runs a fresh lexer over src and returns every token, ending with
// exactly one TokenEOF.
func Tokenize(src []byte, file string) []Token {
	l := NewLexer(src, file)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// advanceRune consumes one UTF-8 encoded rune and returns it.
func (l *Lexer) advanceRune() rune {
	r, size := utf8.DecodeRune(l.input[l.pos:])
	l.advanceN(size)
	return r
}

func (l *Lexer) peekRune() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	start := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()

	switch {
	case ch == '/' && l.peekN(1) == '/':
		return l.scanLineComment(start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case ch == '#' && l.peekN(1) == '#':
		return l.scanJavaName(start)
	case ch == '?':
		return l.scanHole(start)
	case ch == '`':
		return l.scanInfixFunction(start)
	case ch == '"':
		return l.scanQuoted(start, '"', TokenString)
	case ch == '\'':
		return l.scanQuoted(start, '\'', TokenChar)
	case isDigit(ch):
		return l.scanNumber(start)
	case isLetter(l.peekRune()):
		return l.scanIdentOrKeyword(start)
	}

	if kind, ok := punctuation[ch]; ok {
		l.advance()
		return l.token(kind, start)
	}
	if isOperatorChar(ch) {
		return l.scanOperator(start)
	}

	l.advanceRune()
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanLineComment(start Position) Token {
	kind := TokenCommentLine
	if l.peekN(2) == '/' {
		kind = TokenCommentDoc
	}
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(kind, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for {
		if l.pos >= len(l.input) {
			return l.token(TokenError, start)
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			return l.token(TokenCommentBlock, start)
		}
		l.advance()
	}
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	first := l.advanceRune()
	for isLetterOrDigit(l.peekRune()) {
		l.advanceRune()
	}
	literal := string(l.input[start.Offset:l.pos])

	if literal == "_" {
		return l.token(TokenUnderscore, start)
	}
	if l.peek() == '#' {
		if kind, ok := collectionPrefixes[literal]; ok {
			l.advance()
			return l.token(kind, start)
		}
	}
	if kind, ok := LookupKeyword(literal); ok {
		return l.token(kind, start)
	}
	if unicode.IsUpper(first) {
		return l.token(TokenNameUpper, start)
	}
	return l.token(TokenNameLower, start)
}

// scanJavaName reads ##java.lang.String style names. A trailing dot is left
// for the parser.
func (l *Lexer) scanJavaName(start Position) Token {
	l.advanceN(2)
	for {
		ch := l.peek()
		if isJavaNameChar(ch) {
			l.advance()
			continue
		}
		if ch == '.' && isJavaNameChar(l.peekN(1)) {
			l.advance()
			continue
		}
		break
	}
	if l.pos-start.Offset == 2 {
		return l.token(TokenError, start)
	}
	return l.token(TokenNameJava, start)
}

func (l *Lexer) scanHole(start Position) Token {
	if l.peekN(1) == '?' && l.peekN(2) == '?' {
		l.advanceN(3)
		return l.token(TokenHoleAnonymous, start)
	}
	if isLetter(rune(l.peekN(1))) {
		l.advance()
		for isLetterOrDigit(l.peekRune()) {
			l.advanceRune()
		}
		return l.token(TokenHoleNamed, start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanInfixFunction(start Position) Token {
	l.advance()
	for l.peek() != '`' {
		if l.peek() == 0 || l.peek() == '\n' {
			return l.token(TokenError, start)
		}
		l.advance()
	}
	l.advance()
	return l.token(TokenInfixFunction, start)
}

func (l *Lexer) scanQuoted(start Position, quote byte, kind TokenKind) Token {
	l.advance()
	for {
		switch l.peek() {
		case 0, '\n':
			return l.token(TokenError, start)
		case '\\':
			l.advanceN(2)
		case quote:
			l.advance()
			return l.token(kind, start)
		default:
			l.advance()
		}
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	kind := TokenInt
	l.scanDigits()
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		kind = TokenFloat
		l.advance()
		l.scanDigits()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			kind = TokenFloat
			l.advanceN(2)
			l.scanDigits()
		}
	}
	// Width suffixes: 42i64, 1.0f32, 10ii, 3.0ff.
	if l.peek() == 'i' || l.peek() == 'f' {
		if l.peek() == 'f' {
			kind = TokenFloat
		}
		for isLetterOrDigit(rune(l.peek())) {
			l.advance()
		}
	}
	return l.token(kind, start)
}

func (l *Lexer) scanDigits() {
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
}

func (l *Lexer) scanOperator(start Position) Token {
	for isOperatorChar(l.peek()) {
		l.advance()
	}
	literal := string(l.input[start.Offset:l.pos])
	if kind, ok := operators[literal]; ok {
		return l.token(kind, start)
	}
	return l.token(TokenUserOperator, start)
}

var punctuation = map[byte]TokenKind{
	'(': TokenParenL,
	')': TokenParenR,
	'{': TokenCurlyL,
	'}': TokenCurlyR,
	'[': TokenBracketL,
	']': TokenBracketR,
	',': TokenComma,
	';': TokenSemi,
	'.': TokenDot,
	'@': TokenAt,
	'\\': TokenBackslash,
}

var operators = map[string]TokenKind{
	":":   TokenColon,
	"::":  TokenColonColon,
	":::": TokenTripleColon,
	":=":  TokenColonEqual,
	"=":   TokenEqual,
	"->":  TokenArrowThin,
	"=>":  TokenArrowThick,
	"<-":  TokenArrowLeft,
	"|":   TokenBar,
	"==":  TokenEqualEqual,
	"!=":  TokenBangEqual,
	"<=>": TokenAngledEqual,
	"<":   TokenAngleL,
	">":   TokenAngleR,
	"<=":  TokenAngleLEqual,
	">=":  TokenAngleREqual,
	"+":   TokenPlus,
	"-":   TokenMinus,
	"*":   TokenStar,
	"**":  TokenStarStar,
	"/":   TokenSlash,
	"%":   TokenPercent,
	"&":   TokenAmpersand,
	"~":   TokenTilde,
	"&&&": TokenTripleAmpersand,
	"|||": TokenTripleBar,
	"^^^": TokenTripleCaret,
	"~~~": TokenTripleTilde,
	"<<<": TokenTripleAngleL,
	">>>": TokenTripleAngleR,
	"<+>": TokenAngledPlus,
}

var collectionPrefixes = map[string]TokenKind{
	"List":   TokenListHash,
	"Set":    TokenSetHash,
	"Map":    TokenMapHash,
	"Vector": TokenVectorHash,
	"Array":  TokenArrayHash,
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isLetterOrDigit(r rune) bool {
	return isLetter(r) || unicode.IsDigit(r)
}

func isJavaNameChar(ch byte) bool {
	return ch == '_' || ch == '$' || isDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isOperatorChar(ch byte) bool {
	return ch != 0 && strings.IndexByte("+-*/<>=!&|^~:%?$", ch) >= 0
}
