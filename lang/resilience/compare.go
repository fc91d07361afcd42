package resilience

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("weft.resilience")

// DefaultCutoff is the largest middle region, in elements, for which the
// quadratic LCS table is still built.
const DefaultCutoff = 2000

// Score describes how much of a well-formed tree survives in the tree of a
// perturbed input.
type Score struct {
	Ratio   float64
	Prefix  int
	Suffix  int
	LCS     int
	GoodLen int
	// Skipped is set when a middle region exceeded the cutoff and the LCS
	// contributed nothing to Ratio.
	Skipped bool
}

type CompareOption func(*comparer)

// WithCutoff overrides DefaultCutoff. Values below one are ignored.
func WithCutoff(n int) CompareOption {
	return func(c *comparer) {
		if n > 0 {
			c.cutoff = n
		}
	}
}

type comparer struct {
	cutoff int
}

// Compare scores bad against good: the common prefix and suffix are matched
// first, then the longest common subsequence of what lies between them. An
// empty good sequence scores 1.
func Compare(good, bad []string, opts ...CompareOption) Score {
	c := &comparer{cutoff: DefaultCutoff}
	for _, opt := range opts {
		opt(c)
	}

	score := Score{GoodLen: len(good)}
	if len(good) == 0 {
		score.Ratio = 1
		return score
	}

	limit := min(len(good), len(bad))
	for score.Prefix < limit && good[score.Prefix] == bad[score.Prefix] {
		score.Prefix++
	}
	// The suffix may not reach back into the prefix of either sequence.
	limit -= score.Prefix
	for score.Suffix < limit && good[len(good)-1-score.Suffix] == bad[len(bad)-1-score.Suffix] {
		score.Suffix++
	}

	goodMid := good[score.Prefix : len(good)-score.Suffix]
	badMid := bad[score.Prefix : len(bad)-score.Suffix]
	if len(goodMid) > c.cutoff || len(badMid) > c.cutoff {
		log.Warningf("skipping LCS of %d x %d elements, cutoff is %d", len(goodMid), len(badMid), c.cutoff)
		score.Skipped = true
	} else {
		score.LCS = lcs(goodMid, badMid)
	}

	score.Ratio = float64(score.Prefix+score.Suffix+score.LCS) / float64(len(good))
	return score
}

// lcs fills the classic dynamic programming table bottom-up. memo[i][j] is
// the LCS length of a[i:] and b[j:].
func lcs(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	memo := make([][]int, len(a)+1)
	for i := range memo {
		memo[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				memo[i][j] = memo[i+1][j+1] + 1
			} else {
				memo[i][j] = max(memo[i+1][j], memo[i][j+1])
			}
		}
	}
	return memo[0][0]
}
