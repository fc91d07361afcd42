package resilience

import (
	"strconv"

	"github.com/dhamidi/weft/lang/parser"
)

// Linearize flattens a tree in preorder. Interior nodes contribute their kind
// name, leaves their quoted literal, so a leaf can never collide with a kind.
func Linearize(root *parser.Node) []string {
	if root == nil {
		return nil
	}
	var out []string
	root.Walk(func(n *parser.Node) bool {
		if n.Token != nil {
			out = append(out, strconv.Quote(n.Token.Literal))
			return true
		}
		out = append(out, n.Kind.String())
		return true
	})
	return out
}
