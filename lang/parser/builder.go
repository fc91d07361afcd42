package parser

import "github.com/dhamidi/weft/lang/syntax"

// buildTree replays the event log into a tree. The final Close belongs to
// the root and is left on the stack instead of being popped.
func (p *Parser) buildTree() *Node {
	events := p.events
	if len(events) == 0 || events[len(events)-1].Kind != EventClose {
		panic(p.internalError("event log does not end with Close"))
	}

	var stack []*Node
	tok := 0
	for _, ev := range events[:len(events)-1] {
		switch ev.Kind {
		case EventOpen:
			n := &Node{Kind: ev.Node}
			if ev.Diag > 0 {
				n.Error = p.diagnostics[ev.Diag-1]
			}
			stack = append(stack, n)

		case EventClose:
			if len(stack) < 2 {
				panic(p.internalError("unbalanced Close in event log"))
			}
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n.Span = p.spanOf(n, tok)
			if n.Error != nil {
				n.Error.Span = n.Span
			}
			stack[len(stack)-1].AddChild(n)

		case EventAdvance:
			if len(stack) == 0 || tok >= len(p.tokens) {
				panic(p.internalError("Advance outside of any node"))
			}
			t := &p.tokens[tok]
			stack[len(stack)-1].AddChild(&Node{Kind: KindToken, Span: t.Span, Token: t})
			tok++
		}
	}

	if len(stack) != 1 {
		panic(p.internalError("event log left unclosed nodes"))
	}
	if tok != len(p.tokens) {
		panic(p.internalError("event log did not consume every token"))
	}

	root := stack[0]
	root.Span = syntax.Span{
		Start: syntax.Position{File: p.file, Offset: 0, Line: 1, Column: 1},
		End:   p.tokens[len(p.tokens)-1].Span.End,
	}
	return root
}

// spanOf covers the children of n, or is zero-width right after the most
// recently consumed token when n has none.
func (p *Parser) spanOf(n *Node, consumed int) syntax.Span {
	if len(n.Children) > 0 {
		return syntax.Span{
			Start: n.Children[0].Span.Start,
			End:   n.Children[len(n.Children)-1].Span.End,
		}
	}
	at := syntax.Position{File: p.file, Offset: 0, Line: 1, Column: 1}
	if consumed > 0 {
		at = p.tokens[consumed-1].Span.End
	}
	return syntax.Span{Start: at, End: at}
}
