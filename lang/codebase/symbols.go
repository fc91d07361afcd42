package codebase

import (
	"strings"

	"github.com/dhamidi/weft/lang/parser"
	"github.com/dhamidi/weft/lang/syntax"
)

type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolSignature
	SymbolEnum
	SymbolCase
	SymbolTypeAlias
	SymbolAssocType
	SymbolTrait
	SymbolInstance
	SymbolEffect
	SymbolModule
)

var symbolKinds = map[parser.NodeKind]SymbolKind{
	parser.KindDef:          SymbolFunction,
	parser.KindSignature:    SymbolSignature,
	parser.KindEnum:         SymbolEnum,
	parser.KindEnumCase:     SymbolCase,
	parser.KindTypeAlias:    SymbolTypeAlias,
	parser.KindAssocTypeSig: SymbolAssocType,
	parser.KindAssocTypeDef: SymbolAssocType,
	parser.KindTrait:        SymbolTrait,
	parser.KindInstance:     SymbolInstance,
	parser.KindEffect:       SymbolEffect,
	parser.KindModule:       SymbolModule,
}

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "def"
	case SymbolSignature:
		return "signature"
	case SymbolEnum:
		return "enum"
	case SymbolCase:
		return "case"
	case SymbolTypeAlias:
		return "type alias"
	case SymbolAssocType:
		return "associated type"
	case SymbolTrait:
		return "trait"
	case SymbolInstance:
		return "instance"
	case SymbolEffect:
		return "eff"
	case SymbolModule:
		return "mod"
	}
	return "unknown"
}

// Symbol is a named declaration. NameSpan covers only the name; Span the
// whole declaration including its doc comments.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Span     syntax.Span
	NameSpan syntax.Span
	Children []Symbol
}

// Symbols collects the declarations of a file tree. Declarations whose name
// is missing are skipped, their members are not.
func Symbols(root *parser.Node) []Symbol {
	var out []Symbol
	for _, n := range root.Nodes() {
		out = append(out, symbolsOf(n)...)
	}
	return out
}

func symbolsOf(n *parser.Node) []Symbol {
	kind, ok := symbolKinds[n.Kind]
	if !ok {
		return nil
	}
	var children []Symbol
	for _, child := range n.Nodes() {
		children = append(children, symbolsOf(child)...)
	}
	nameNode := n.FirstChildOfKind(parser.KindName)
	if nameNode == nil {
		nameNode = n.FirstChildOfKind(parser.KindQName)
	}
	if nameNode == nil || nameNode.Span.Len() == 0 {
		return children
	}
	return []Symbol{{
		Name:     joinLiterals(nameNode),
		Kind:     kind,
		Span:     n.Span,
		NameSpan: nameNode.Span,
		Children: children,
	}}
}

// joinLiterals spells a name node without the spaces Node.Text inserts, so
// that qualified names read A.B.c.
func joinLiterals(n *parser.Node) string {
	var sb strings.Builder
	for _, tok := range n.Tokens() {
		if tok.Kind.IsComment() {
			continue
		}
		sb.WriteString(tok.Literal)
	}
	return sb.String()
}
