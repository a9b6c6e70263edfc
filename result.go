package recotarget

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Result is the score of one testing target.
type Result struct {
	// Target is the 0-based label.
	Target int
	// Score is the fraction of correctly classified profiles.
	Score float64
}

// String renders the result as printed on the console, with the label
// shown 1-based.
func (r Result) String() string {
	return fmt.Sprintf("Target %d -> %.6g", r.Target+1, r.Score)
}

// FormatResults writes one line per result.
func FormatResults(w io.Writer, results []Result) error {
	for _, r := range results {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}

// Summary aggregates the scores of a run.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes aggregate statistics over the scores of results.
// StdDev is the sample standard deviation and is zero for fewer than two
// results.
func Summarize(results []Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = r.Score
	}

	s := Summary{
		Count: len(scores),
		Mean:  stat.Mean(scores, nil),
		Min:   floats.Min(scores),
		Max:   floats.Max(scores),
	}
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)
	}
	return s
}
