// Package parser is an error-resilient parser for Flix-style source code.
//
// # Overview
//
// The parser takes a token array (see package syntax) and always produces a
// concrete syntax tree together with a list of diagnostics. Malformed input
// never aborts a parse: missing tokens become zero-width error nodes, stray
// tokens are wrapped in error nodes, and every token, comments and the final
// EOF included, ends up as a leaf of the tree in source order.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Tokens    │────▶│   Grammar   │────▶│  Event log  │
//	│ (borrowed)  │     │   rules     │     │ Open/Close/ │
//	└─────────────┘     └─────────────┘     │  Advance    │
//	                                        └──────┬──────┘
//	                                               ▼
//	                                        ┌─────────────┐
//	                                        │ Tree builder│
//	                                        │   (CST)     │
//	                                        └─────────────┘
//
// Grammar rules never build nodes directly. They append events to a flat log
// through a handful of primitives:
//
//	m := p.open()          // placeholder Open event, kind decided later
//	p.advance()            // consume the current token
//	c := p.close(m, kind)  // fix the kind, append Close
//	m2 := p.openBefore(c)  // wrap an already closed node (binary operators)
//
// Deciding the kind at close time lets a rule parse first and classify later,
// for example a parenthesized expression that turns out to be a tuple, or an
// import that turns out to be a JVM method import.
//
// # Fuel
//
// Every lookahead query spends one unit of fuel and every consumed token
// refills it. A grammar bug that loops without consuming runs out of fuel and
// is reported as an *InternalError instead of hanging.
//
// # Operators
//
// Binary expressions are folded with a tightness table ordered from loosest
// (:=) to tightest (user-defined operators). Only :: and ::: associate to the
// right. Unary operators carry their own tightness so that -a * b parses as
// (-a) * b.
//
// # Usage
//
//	tokens := syntax.Tokenize(src, "Main.flix")
//	root, diags, err := parser.Parse(tokens, parser.WithFile("Main.flix"))
//	if err != nil {
//	    // internal error, no tree
//	}
//	for _, d := range diags {
//	    parser.PrintDiagnostic(os.Stderr, d, syntax.Source{Name: "Main.flix", Text: src})
//	}
//	fmt.Print(root)
package parser
