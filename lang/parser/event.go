package parser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dhamidi/weft/lang/syntax"
)

type EventKind int

const (
	EventOpen EventKind = iota
	EventClose
	EventAdvance
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "Open"
	case EventClose:
		return "Close"
	case EventAdvance:
		return "Advance"
	}
	return "Unknown"
}

// Event is one entry of the flat log the grammar writes. Node and Diag are
// only meaningful on Open events; Diag is a 1-based index into the
// diagnostic list, zero meaning none.
type Event struct {
	Kind EventKind
	Node NodeKind
	Diag int
}

// Opened marks an Open event whose kind is not yet known. pos is the cursor
// at the time the mark was taken.
type Opened struct {
	index int
	pos   int
}

// Closed marks a finished node so it can later be wrapped with openBefore.
type Closed struct {
	index int
}

// open appends a placeholder Open event and absorbs pending comments as the
// node's first child.
func (p *Parser) open() Opened {
	m := p.openBare()
	p.comments()
	return m
}

// openBare is open without comment absorption.
func (p *Parser) openBare() Opened {
	m := Opened{index: len(p.events), pos: p.pos}
	p.events = append(p.events, Event{Kind: EventOpen, Node: KindError})
	return m
}

// close fixes the kind of m and ends it. A node that consumed a token after
// it was opened refills fuel, so unwinding a deep stack of unfinished rules
// in front of one bad token is bounded by the nesting depth, not by the
// budget. Closing nodes that consumed nothing never refills.
func (p *Parser) close(m Opened, kind NodeKind) Closed {
	p.events[m.index].Node = kind
	p.events = append(p.events, Event{Kind: EventClose})
	if p.pos > m.pos {
		p.fuel = p.maxFuel
	}
	return Closed{index: m.index}
}

// openBefore starts a node that encloses the already closed node c, so that
// c becomes its first child. Marks taken after c are invalidated.
func (p *Parser) openBefore(c Closed) Opened {
	p.events = slices.Insert(p.events, c.index, Event{Kind: EventOpen, Node: KindError})
	return Opened{index: c.index, pos: p.pos}
}

// advance consumes the current token. It is a no-op on the EOF sentinel,
// which only advanceEOF may consume.
func (p *Parser) advance() {
	if p.eof() {
		return
	}
	p.events = append(p.events, Event{Kind: EventAdvance})
	p.pos++
	p.fuel = p.maxFuel
}

// advanceEOF consumes the EOF sentinel. Only root rules call it, as their
// last step, so that the leaves of the tree are exactly the token array.
func (p *Parser) advanceEOF() {
	p.comments()
	if p.pos != len(p.tokens)-1 {
		panic(p.internalError("EOF consumed before the end of input"))
	}
	p.events = append(p.events, Event{Kind: EventAdvance})
	p.pos++
}

func (p *Parser) closeWithError(m Opened, d *Diagnostic) Closed {
	p.diagnostics = append(p.diagnostics, d)
	p.events[m.index].Diag = len(p.diagnostics)
	return p.close(m, KindError)
}

// InternalError reports a broken parser invariant: the grammar stopped
// making progress, or the event log is malformed. It is never caused by bad
// input alone.
type InternalError struct {
	File    string
	Message string
	Pos     int
	Window  []syntax.Token
}

func (e *InternalError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "internal parser error at token %d", e.Pos)
	if e.File != "" {
		fmt.Fprintf(&sb, " in %s", e.File)
	}
	sb.WriteString(": " + e.Message)
	if len(e.Window) > 0 {
		texts := make([]string, len(e.Window))
		for i, tok := range e.Window {
			texts[i] = tok.Text()
		}
		sb.WriteString(" (near: " + strings.Join(texts, " ") + ")")
	}
	return sb.String()
}
