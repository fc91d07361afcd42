package parser

import "encoding/json"

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Token    string      `json:"token,omitempty"`
	Error    *jsonError  `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonError struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Found    string   `json:"found,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON(true))
}

// MarshalJSONCompact omits spans.
func (n *Node) MarshalJSONCompact() ([]byte, error) {
	return json.Marshal(n.toJSON(false))
}

func (n *Node) toJSON(positions bool) *jsonNode {
	jn := &jsonNode{
		Kind: n.Kind.String(),
	}
	if n.Token != nil {
		jn.Kind = n.Token.Kind.String()
		jn.Token = n.Token.Literal
	}

	if positions {
		jn.Span = &jsonSpan{
			Start: jsonPosition{Offset: n.Span.Start.Offset, Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   jsonPosition{Offset: n.Span.End.Offset, Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	if n.Error != nil {
		jn.Error = &jsonError{
			Message: n.Error.Message,
			Found:   n.Error.Found.Literal,
		}
		for _, exp := range n.Error.Expected {
			jn.Error.Expected = append(jn.Error.Expected, exp.String())
		}
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON(positions)
		}
	}

	return jn
}
