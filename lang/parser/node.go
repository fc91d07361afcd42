package parser

import (
	"strings"

	"github.com/dhamidi/weft/lang/syntax"
)

type NodeKind int

const (
	KindError NodeKind = iota
	KindToken
	KindRoot
	KindCommentList

	// Shared pieces
	KindName
	KindQName
	KindJavaName
	KindOperator
	KindAnnotations
	KindModifiers

	// Declarations
	KindUse
	KindUseMany
	KindAliasedName
	KindImport
	KindImportMany
	KindJvmConstructorImport
	KindJvmMethodImport
	KindJvmStaticMethodImport
	KindJvmGetFieldImport
	KindJvmPutFieldImport
	KindJvmStaticGetFieldImport
	KindJvmStaticPutFieldImport
	KindJvmSignature
	KindDef
	KindSignature
	KindEnum
	KindEnumCase
	KindCaseTerms
	KindDerivations
	KindTypeAlias
	KindAssocTypeSig
	KindAssocTypeDef
	KindTrait
	KindInstance
	KindEffect
	KindModule
	KindTypeParameters
	KindTypeParameter
	KindKindAscription
	KindParameters
	KindParameter
	KindWithClause

	// Expressions
	KindExprLiteral
	KindExprName
	KindExprHole
	KindExprParen
	KindExprTuple
	KindExprLambda
	KindExprBlock
	KindStmtLet
	KindStmtDef
	KindStmtExpr
	KindExprRecord
	KindRecordField
	KindExprIf
	KindExprMatch
	KindExprMatchLambda
	KindMatchRule
	KindExprTryCatch
	KindExprTryWith
	KindCatchRule
	KindWithHandler
	KindExprDo
	KindExprForeach
	KindExprForM
	KindExprForA
	KindGenerators
	KindGenerator
	KindGuard
	KindExprCheckedCast
	KindExprCheckedEffectCast
	KindExprUncheckedCast
	KindExprList
	KindExprSet
	KindExprVector
	KindExprArray
	KindExprMap
	KindMapEntry
	KindExprNewObject
	KindExprUnary
	KindExprBinary
	KindExprApply
	KindArguments
	KindArgument
	KindExprSelect
	KindExprAscribe

	// Patterns
	KindPatternWildcard
	KindPatternVar
	KindPatternLiteral
	KindPatternTag
	KindPatternTerms
	KindPatternParen
	KindPatternTuple
	KindPatternRecord
	KindPatternRecordField
	KindPatternCons

	// Types
	KindTypeName
	KindTypeVar
	KindTypeWildcard
	KindTypeNative
	KindTypeConstant
	KindTypeApply
	KindTypeArguments
	KindTypeParen
	KindTypeTuple
	KindTypeRecord
	KindTypeRecordField
	KindTypeFunction
	KindTypeBinary
	KindTypeUnary
	KindTypeWithEffect
	KindEffectSet

	// Kinds
	KindKindName
	KindKindParen
	KindKindArrow
)

var nodeKindNames = map[NodeKind]string{
	KindError:                   "Error",
	KindToken:                   "Token",
	KindRoot:                    "Root",
	KindCommentList:             "CommentList",
	KindName:                    "Name",
	KindQName:                   "QName",
	KindJavaName:                "JavaName",
	KindOperator:                "Operator",
	KindAnnotations:             "Annotations",
	KindModifiers:               "Modifiers",
	KindUse:                     "Use",
	KindUseMany:                 "UseMany",
	KindAliasedName:             "AliasedName",
	KindImport:                  "Import",
	KindImportMany:              "ImportMany",
	KindJvmConstructorImport:    "JvmConstructorImport",
	KindJvmMethodImport:         "JvmMethodImport",
	KindJvmStaticMethodImport:   "JvmStaticMethodImport",
	KindJvmGetFieldImport:       "JvmGetFieldImport",
	KindJvmPutFieldImport:       "JvmPutFieldImport",
	KindJvmStaticGetFieldImport: "JvmStaticGetFieldImport",
	KindJvmStaticPutFieldImport: "JvmStaticPutFieldImport",
	KindJvmSignature:            "JvmSignature",
	KindDef:                     "Def",
	KindSignature:               "Signature",
	KindEnum:                    "Enum",
	KindEnumCase:                "EnumCase",
	KindCaseTerms:               "CaseTerms",
	KindDerivations:             "Derivations",
	KindTypeAlias:               "TypeAlias",
	KindAssocTypeSig:            "AssocTypeSig",
	KindAssocTypeDef:            "AssocTypeDef",
	KindTrait:                   "Trait",
	KindInstance:                "Instance",
	KindEffect:                  "Effect",
	KindModule:                  "Module",
	KindTypeParameters:          "TypeParameters",
	KindTypeParameter:           "TypeParameter",
	KindKindAscription:          "KindAscription",
	KindParameters:              "Parameters",
	KindParameter:               "Parameter",
	KindWithClause:              "WithClause",
	KindExprLiteral:             "ExprLiteral",
	KindExprName:                "ExprName",
	KindExprHole:                "ExprHole",
	KindExprParen:               "ExprParen",
	KindExprTuple:               "ExprTuple",
	KindExprLambda:              "ExprLambda",
	KindExprBlock:               "ExprBlock",
	KindStmtLet:                 "StmtLet",
	KindStmtDef:                 "StmtDef",
	KindStmtExpr:                "StmtExpr",
	KindExprRecord:              "ExprRecord",
	KindRecordField:             "RecordField",
	KindExprIf:                  "ExprIf",
	KindExprMatch:               "ExprMatch",
	KindExprMatchLambda:         "ExprMatchLambda",
	KindMatchRule:               "MatchRule",
	KindExprTryCatch:            "ExprTryCatch",
	KindExprTryWith:             "ExprTryWith",
	KindCatchRule:               "CatchRule",
	KindWithHandler:             "WithHandler",
	KindExprDo:                  "ExprDo",
	KindExprForeach:             "ExprForeach",
	KindExprForM:                "ExprForM",
	KindExprForA:                "ExprForA",
	KindGenerators:              "Generators",
	KindGenerator:               "Generator",
	KindGuard:                   "Guard",
	KindExprCheckedCast:         "ExprCheckedCast",
	KindExprCheckedEffectCast:   "ExprCheckedEffectCast",
	KindExprUncheckedCast:       "ExprUncheckedCast",
	KindExprList:                "ExprList",
	KindExprSet:                 "ExprSet",
	KindExprVector:              "ExprVector",
	KindExprArray:               "ExprArray",
	KindExprMap:                 "ExprMap",
	KindMapEntry:                "MapEntry",
	KindExprNewObject:           "ExprNewObject",
	KindExprUnary:               "ExprUnary",
	KindExprBinary:              "ExprBinary",
	KindExprApply:               "ExprApply",
	KindArguments:               "Arguments",
	KindArgument:                "Argument",
	KindExprSelect:              "ExprSelect",
	KindExprAscribe:             "ExprAscribe",
	KindPatternWildcard:         "PatternWildcard",
	KindPatternVar:              "PatternVar",
	KindPatternLiteral:          "PatternLiteral",
	KindPatternTag:              "PatternTag",
	KindPatternTerms:            "PatternTerms",
	KindPatternParen:            "PatternParen",
	KindPatternTuple:            "PatternTuple",
	KindPatternRecord:           "PatternRecord",
	KindPatternRecordField:      "PatternRecordField",
	KindPatternCons:             "PatternCons",
	KindTypeName:                "TypeName",
	KindTypeVar:                 "TypeVar",
	KindTypeWildcard:            "TypeWildcard",
	KindTypeNative:              "TypeNative",
	KindTypeConstant:            "TypeConstant",
	KindTypeApply:               "TypeApply",
	KindTypeArguments:           "TypeArguments",
	KindTypeParen:               "TypeParen",
	KindTypeTuple:               "TypeTuple",
	KindTypeRecord:              "TypeRecord",
	KindTypeRecordField:         "TypeRecordField",
	KindTypeFunction:            "TypeFunction",
	KindTypeBinary:              "TypeBinary",
	KindTypeUnary:               "TypeUnary",
	KindTypeWithEffect:          "TypeWithEffect",
	KindEffectSet:               "EffectSet",
	KindKindName:                "KindName",
	KindKindParen:               "KindParen",
	KindKindArrow:               "KindArrow",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is one vertex of the concrete syntax tree. Leaves have Kind ==
// KindToken and carry Token; error nodes have Kind == KindError and carry
// Error, which is the same value that appears in the diagnostic list.
type Node struct {
	Kind     NodeKind
	Span     syntax.Span
	Children []*Node
	Token    *syntax.Token
	Error    *Diagnostic
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) IsToken() bool {
	return n.Kind == KindToken
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// Nodes returns the direct children that are not token leaves.
func (n *Node) Nodes() []*Node {
	var result []*Node
	for _, child := range n.Children {
		if !child.IsToken() {
			result = append(result, child)
		}
	}
	return result
}

// Walk visits n and its descendants in preorder. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Tokens returns the leaf tokens of the subtree in preorder.
func (n *Node) Tokens() []syntax.Token {
	var toks []syntax.Token
	n.Walk(func(c *Node) bool {
		if c.Token != nil {
			toks = append(toks, *c.Token)
		}
		return true
	})
	return toks
}

// Find returns every node of the given kind in the subtree, in preorder.
func (n *Node) Find(kind NodeKind) []*Node {
	var result []*Node
	n.Walk(func(c *Node) bool {
		if c.Kind == kind {
			result = append(result, c)
		}
		return true
	})
	return result
}

func (n *Node) Errors() []*Diagnostic {
	var result []*Diagnostic
	n.Walk(func(c *Node) bool {
		if c.Error != nil {
			result = append(result, c.Error)
		}
		return true
	})
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Text concatenates the literals of all leaves with single spaces.
func (n *Node) Text() string {
	var parts []string
	for _, tok := range n.Tokens() {
		if tok.Kind == syntax.TokenEOF || tok.Kind.IsComment() {
			continue
		}
		parts = append(parts, tok.Literal)
	}
	return strings.Join(parts, " ")
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, true)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	if n.Token != nil {
		sb.WriteString(n.Token.Kind.String())
	} else {
		sb.WriteString(n.Kind.String())
	}
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil && n.Token.Literal != "" {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}
