package resilience

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"
)

type Report struct {
	File           string
	Trials         []Trial
	Mean           float64
	Min            float64
	Threshold      float64
	BelowThreshold int
	Skipped        int
}

func newReport(file string, trials []Trial, threshold float64) *Report {
	r := &Report{File: file, Trials: trials, Threshold: threshold, Min: 1}
	if len(trials) == 0 {
		r.Mean = 1
		return r
	}
	var sum float64
	for _, trial := range trials {
		ratio := trial.Score.Ratio
		sum += ratio
		r.Min = min(r.Min, ratio)
		if ratio < threshold {
			r.BelowThreshold++
		}
		if trial.Score.Skipped {
			r.Skipped++
		}
	}
	r.Mean = sum / float64(len(trials))
	return r
}

// Worst returns up to n trials with the lowest ratio, worst first.
func (r *Report) Worst(n int) []Trial {
	sorted := make([]Trial, len(r.Trials))
	copy(sorted, r.Trials)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score.Ratio < sorted[j].Score.Ratio
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// RenderTrials writes the n worst trials of r as a table.
func (r *Report) RenderTrials(w io.Writer, n int) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Position", "Deleted", "Ratio", "Prefix", "Suffix", "LCS", "Length"})
	for _, trial := range r.Worst(n) {
		s := trial.Score
		lcsCell := fmt.Sprint(s.LCS)
		if s.Skipped {
			lcsCell = "skipped"
		}
		table.Append([]string{
			trial.Token.Span.Start.String(),
			trial.Token.Text(),
			fmt.Sprintf("%.3f", s.Ratio),
			fmt.Sprint(s.Prefix),
			fmt.Sprint(s.Suffix),
			lcsCell,
			fmt.Sprint(s.GoodLen),
		})
	}
	table.Render()
}

// RenderSummary writes one row per report.
func RenderSummary(w io.Writer, reports []*Report) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"File", "Trials", "Mean", "Min", "Below", "Skipped"})
	for _, r := range reports {
		table.Append([]string{
			r.File,
			fmt.Sprint(len(r.Trials)),
			fmt.Sprintf("%.3f", r.Mean),
			fmt.Sprintf("%.3f", r.Min),
			fmt.Sprintf("%d (< %.2f)", r.BelowThreshold, r.Threshold),
			fmt.Sprint(r.Skipped),
		})
	}
	table.Render()
}
