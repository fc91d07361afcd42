// Package resilience scores how well the parser recovers from damage.
//
// A well-formed tree and the tree of a perturbed input are both flattened in
// preorder (Linearize). Compare matches their common prefix and suffix and
// then the longest common subsequence of the remaining middle regions; the
// ratio of matched elements to the length of the well-formed sequence is the
// score. Middle regions above the cutoff are not compared and contribute
// nothing.
//
// Harness runs the single-token deletion experiment over a file:
//
//	h := resilience.NewHarness()
//	report, err := h.Run(ctx, "main.flix", src)
//	report.RenderTrials(os.Stdout, 10)
package resilience
