package syntax

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// Contains reports whether other lies within s, comparing byte offsets.
func (s Span) Contains(other Span) bool {
	return s.Start.Offset <= other.Start.Offset && other.End.Offset <= s.End.Offset
}

func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError

	// Comments
	TokenCommentLine
	TokenCommentBlock
	TokenCommentDoc

	// Literals
	TokenInt
	TokenFloat
	TokenString
	TokenChar
	TokenTrue
	TokenFalse
	TokenNull

	// Names
	TokenNameLower
	TokenNameUpper
	TokenNameJava
	TokenUnderscore
	TokenHoleNamed
	TokenHoleAnonymous
	TokenInfixFunction
	TokenUserOperator

	// Collection literal prefixes
	TokenListHash
	TokenSetHash
	TokenMapHash
	TokenVectorHash
	TokenArrayHash

	// Keywords
	TokenAlias
	TokenAnd
	TokenAs
	TokenCase
	TokenCatch
	TokenCheckedCast
	TokenCheckedECast
	TokenDef
	TokenDiscard
	TokenDo
	TokenEff
	TokenElse
	TokenEnum
	TokenForA
	TokenForM
	TokenForce
	TokenForeach
	TokenIf
	TokenImport
	TokenInline
	TokenInstance
	TokenLawful
	TokenLazy
	TokenLet
	TokenMatch
	TokenMod
	TokenNew
	TokenNot
	TokenOr
	TokenOverride
	TokenPub
	TokenSealed
	TokenStatic
	TokenTrait
	TokenTry
	TokenType
	TokenUncheckedCast
	TokenUse
	TokenWith
	TokenYield

	// Punctuation
	TokenParenL
	TokenParenR
	TokenCurlyL
	TokenCurlyR
	TokenBracketL
	TokenBracketR
	TokenComma
	TokenSemi
	TokenDot
	TokenAt
	TokenColon
	TokenColonColon
	TokenTripleColon
	TokenColonEqual
	TokenEqual
	TokenArrowThin
	TokenArrowThick
	TokenArrowLeft
	TokenBackslash
	TokenBar

	// Operators
	TokenEqualEqual
	TokenBangEqual
	TokenAngledEqual
	TokenAngleL
	TokenAngleR
	TokenAngleLEqual
	TokenAngleREqual
	TokenPlus
	TokenMinus
	TokenStar
	TokenStarStar
	TokenSlash
	TokenPercent
	TokenAmpersand
	TokenTilde
	TokenTripleAmpersand
	TokenTripleBar
	TokenTripleCaret
	TokenTripleTilde
	TokenTripleAngleL
	TokenTripleAngleR
	TokenAngledPlus
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:             "EOF",
	TokenError:           "Error",
	TokenCommentLine:     "LineComment",
	TokenCommentBlock:    "BlockComment",
	TokenCommentDoc:      "DocComment",
	TokenInt:             "Int",
	TokenFloat:           "Float",
	TokenString:          "String",
	TokenChar:            "Char",
	TokenTrue:            "true",
	TokenFalse:           "false",
	TokenNull:            "null",
	TokenNameLower:       "Name",
	TokenNameUpper:       "UpperName",
	TokenNameJava:        "JavaName",
	TokenUnderscore:      "_",
	TokenHoleNamed:       "Hole",
	TokenHoleAnonymous:   "???",
	TokenInfixFunction:   "InfixFunction",
	TokenUserOperator:    "Operator",
	TokenListHash:        "List#",
	TokenSetHash:         "Set#",
	TokenMapHash:         "Map#",
	TokenVectorHash:      "Vector#",
	TokenArrayHash:       "Array#",
	TokenAlias:           "alias",
	TokenAnd:             "and",
	TokenAs:              "as",
	TokenCase:            "case",
	TokenCatch:           "catch",
	TokenCheckedCast:     "checked_cast",
	TokenCheckedECast:    "checked_ecast",
	TokenDef:             "def",
	TokenDiscard:         "discard",
	TokenDo:              "do",
	TokenEff:             "eff",
	TokenElse:            "else",
	TokenEnum:            "enum",
	TokenForA:            "forA",
	TokenForM:            "forM",
	TokenForce:           "force",
	TokenForeach:         "foreach",
	TokenIf:              "if",
	TokenImport:          "import",
	TokenInline:          "inline",
	TokenInstance:        "instance",
	TokenLawful:          "lawful",
	TokenLazy:            "lazy",
	TokenLet:             "let",
	TokenMatch:           "match",
	TokenMod:             "mod",
	TokenNew:             "new",
	TokenNot:             "not",
	TokenOr:              "or",
	TokenOverride:        "override",
	TokenPub:             "pub",
	TokenSealed:          "sealed",
	TokenStatic:          "static",
	TokenTrait:           "trait",
	TokenTry:             "try",
	TokenType:            "type",
	TokenUncheckedCast:   "unchecked_cast",
	TokenUse:             "use",
	TokenWith:            "with",
	TokenYield:           "yield",
	TokenParenL:          "(",
	TokenParenR:          ")",
	TokenCurlyL:          "{",
	TokenCurlyR:          "}",
	TokenBracketL:        "[",
	TokenBracketR:        "]",
	TokenComma:           ",",
	TokenSemi:            ";",
	TokenDot:             ".",
	TokenAt:              "@",
	TokenColon:           ":",
	TokenColonColon:      "::",
	TokenTripleColon:     ":::",
	TokenColonEqual:      ":=",
	TokenEqual:           "=",
	TokenArrowThin:       "->",
	TokenArrowThick:      "=>",
	TokenArrowLeft:       "<-",
	TokenBackslash:       "\\",
	TokenBar:             "|",
	TokenEqualEqual:      "==",
	TokenBangEqual:       "!=",
	TokenAngledEqual:     "<=>",
	TokenAngleL:          "<",
	TokenAngleR:          ">",
	TokenAngleLEqual:     "<=",
	TokenAngleREqual:     ">=",
	TokenPlus:            "+",
	TokenMinus:           "-",
	TokenStar:            "*",
	TokenStarStar:        "**",
	TokenSlash:           "/",
	TokenPercent:         "%",
	TokenAmpersand:       "&",
	TokenTilde:           "~",
	TokenTripleAmpersand: "&&&",
	TokenTripleBar:       "|||",
	TokenTripleCaret:     "^^^",
	TokenTripleTilde:     "~~~",
	TokenTripleAngleL:    "<<<",
	TokenTripleAngleR:    ">>>",
	TokenAngledPlus:      "<+>",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsComment reports whether tokens of kind k are comments. Comments are real
// tokens: the parser attaches them to the tree instead of dropping them.
func (k TokenKind) IsComment() bool {
	return k == TokenCommentLine || k == TokenCommentBlock || k == TokenCommentDoc
}

func (k TokenKind) IsKeyword() bool {
	return k >= TokenAlias && k <= TokenYield
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// Text is the literal when present, otherwise the canonical spelling of the
// kind. Used in diagnostics ("found 'x'").
func (t Token) Text() string {
	if t.Literal != "" {
		return t.Literal
	}
	if t.Kind == TokenEOF {
		return "<eof>"
	}
	return t.Kind.String()
}

var keywords = map[string]TokenKind{
	"alias":          TokenAlias,
	"and":            TokenAnd,
	"as":             TokenAs,
	"case":           TokenCase,
	"catch":          TokenCatch,
	"checked_cast":   TokenCheckedCast,
	"checked_ecast":  TokenCheckedECast,
	"def":            TokenDef,
	"discard":        TokenDiscard,
	"do":             TokenDo,
	"eff":            TokenEff,
	"else":           TokenElse,
	"enum":           TokenEnum,
	"false":          TokenFalse,
	"forA":           TokenForA,
	"forM":           TokenForM,
	"force":          TokenForce,
	"foreach":        TokenForeach,
	"if":             TokenIf,
	"import":         TokenImport,
	"inline":         TokenInline,
	"instance":       TokenInstance,
	"lawful":         TokenLawful,
	"lazy":           TokenLazy,
	"let":            TokenLet,
	"match":          TokenMatch,
	"mod":            TokenMod,
	"new":            TokenNew,
	"not":            TokenNot,
	"null":           TokenNull,
	"or":             TokenOr,
	"override":       TokenOverride,
	"pub":            TokenPub,
	"sealed":         TokenSealed,
	"static":         TokenStatic,
	"trait":          TokenTrait,
	"true":           TokenTrue,
	"try":            TokenTry,
	"type":           TokenType,
	"unchecked_cast": TokenUncheckedCast,
	"use":            TokenUse,
	"with":           TokenWith,
	"yield":          TokenYield,
}

func LookupKeyword(ident string) (TokenKind, bool) {
	kind, ok := keywords[ident]
	return kind, ok
}

// Source is the metadata a caller hands over alongside the token array. It
// is only used to format diagnostic locations.
type Source struct {
	Name string
	Text []byte
}
