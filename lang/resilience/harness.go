package resilience

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/weft/lang/parser"
	"github.com/dhamidi/weft/lang/syntax"
)

// DefaultThreshold is the ratio under which a trial counts as a poor
// recovery in reports.
const DefaultThreshold = 0.9

// Harness measures parser recovery by re-parsing perturbed token streams and
// comparing the resulting trees with the tree of the original.
type Harness struct {
	Cutoff    int
	Threshold float64
	Workers   int
	// ParseOptions are passed to every parse, e.g. parser.WithFuel.
	ParseOptions []parser.Option
}

func NewHarness() *Harness {
	return &Harness{
		Cutoff:    DefaultCutoff,
		Threshold: DefaultThreshold,
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// Trial is one perturbation: the token at index Deleted was removed.
type Trial struct {
	Deleted int
	Token   syntax.Token
	Score   Score
}

// Measure parses both token streams and scores the perturbed tree against
// the well-formed one. The parser never fails on bad input, so an error here
// is always an *parser.InternalError.
func (h *Harness) Measure(good, bad []syntax.Token) (Score, error) {
	goodTree, _, err := parser.Parse(good, h.ParseOptions...)
	if err != nil {
		return Score{}, fmt.Errorf("parse original: %w", err)
	}
	return h.measureAgainst(Linearize(goodTree), bad)
}

func (h *Harness) measureAgainst(good []string, bad []syntax.Token) (Score, error) {
	badTree, _, err := parser.Parse(bad, h.ParseOptions...)
	if err != nil {
		return Score{}, fmt.Errorf("parse perturbed: %w", err)
	}
	return Compare(good, Linearize(badTree), WithCutoff(h.Cutoff)), nil
}

// Run deletes each significant token of src in turn and scores the recovery
// of every resulting stream. Comments and the EOF sentinel are left alone.
func (h *Harness) Run(ctx context.Context, name string, src []byte) (*Report, error) {
	tokens := syntax.Tokenize(src, name)
	goodTree, _, err := parser.Parse(tokens, h.ParseOptions...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	good := Linearize(goodTree)

	var targets []int
	for i, tok := range tokens {
		if tok.Kind == syntax.TokenEOF || tok.Kind.IsComment() {
			continue
		}
		targets = append(targets, i)
	}

	trials := make([]Trial, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	if h.Workers > 0 {
		g.SetLimit(h.Workers)
	}
	for slot, index := range targets {
		slot, index := slot, index
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bad := make([]syntax.Token, 0, len(tokens)-1)
			bad = append(bad, tokens[:index]...)
			bad = append(bad, tokens[index+1:]...)
			score, err := h.measureAgainst(good, bad)
			if err != nil {
				return fmt.Errorf("%s: deleting token %d %q: %w", name, index, tokens[index].Text(), err)
			}
			trials[slot] = Trial{Deleted: index, Token: tokens[index], Score: score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := newReport(name, trials, h.Threshold)
	log.Infof("%s: %d trials, mean %.3f, min %.3f", name, len(trials), report.Mean, report.Min)
	return report, nil
}
