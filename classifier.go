package recotarget

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/recotarget/distance"
	"github.com/hupe1980/recotarget/event"
	"github.com/hupe1980/recotarget/geometry"
	"github.com/hupe1980/recotarget/profile"
)

// NumTargets is the number of target labels known to the classifier.
const NumTargets = 5

// neighborBytes is the in-memory size of one profile.Neighbor.
const neighborBytes = 16

// Classifier cross-compares testing and learning collections and scores the
// testing targets by kNN vote.
type Classifier struct {
	opts   options
	runID  string
	logger *Logger
}

// New creates a Classifier.
func New(optFns ...Option) *Classifier {
	o := applyOptions(optFns)
	id := uuid.NewString()

	return &Classifier{
		opts:   o,
		runID:  id,
		logger: o.logger.WithRunID(id),
	}
}

// RunID returns the identifier attached to every log record of this
// classifier.
func (c *Classifier) RunID() string {
	return c.runID
}

// Fill fills collection col from src, reading event start+i*stride into
// profile i, and records the fill.
func (c *Classifier) Fill(ctx context.Context, col *profile.Collection, src event.Source, start, stride int, geo *geometry.Geometry) error {
	begin := time.Now()
	err := col.Fill(src, start, stride, geo)
	c.opts.metricsCollector.RecordFill(col.Len(), time.Since(begin), err)

	if err != nil {
		c.logger.ErrorContext(ctx, "fill failed",
			"target", col.Target()+1,
			"role", col.Role().String(),
			"error", err,
		)
		return err
	}

	c.logger.DebugContext(ctx, "collection filled",
		"target", col.Target()+1,
		"role", col.Role().String(),
		"profiles", col.Len(),
		"start", start,
		"stride", stride,
	)
	return nil
}

// Classify compares every testing collection with every learning collection
// under metric m and scores each testing target with k nearest neighbors.
//
// Nil entries are skipped. All learning comparisons of a testing target
// complete before it is scored. Results are ordered by target label.
func (c *Classifier) Classify(ctx context.Context, testing, learning []*profile.Collection, m distance.Metric, k int) ([]Result, error) {
	if _, err := distance.Provider(m); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k=%d", profile.ErrInvalidK, k)
	}

	tests := compact(testing)
	if len(tests) == 0 {
		return nil, ErrNoTestingTargets
	}
	refs := compact(learning)
	if len(refs) == 0 {
		return nil, ErrNoLearningTargets
	}

	var refProfiles int
	for _, l := range refs {
		refProfiles += l.Len()
	}

	log := c.logger.WithMetric(m.String()).WithK(k)
	log.InfoContext(ctx, "classification started",
		"testing", len(tests),
		"learning", len(refs),
		"workers", c.opts.workers,
	)

	// Neighbor memory is accounted only while Classify runs, so a
	// Classifier can be reused under the same limit.
	var reserved int64
	defer func() { c.opts.rc.ReleaseMemory(reserved) }()

	results := make([]Result, 0, len(tests))
	for _, t := range tests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		need := int64(t.Len()) * int64(refProfiles) * neighborBytes
		if err := c.opts.rc.ReserveMemory(need); err != nil {
			return nil, &ErrTargetFailed{Target: t.Target(), Op: "reserve neighbors", cause: err}
		}
		reserved += need
		log.DebugContext(ctx, "neighbor memory reserved",
			"target", t.Target()+1,
			"bytes", need,
			"in_use", c.opts.rc.MemoryUsage(),
		)

		for _, l := range refs {
			if err := c.compare(ctx, log, t, l, m); err != nil {
				return nil, &ErrTargetFailed{Target: t.Target(), Op: "compare", cause: err}
			}
		}

		score, err := t.Score(t.Target(), k)
		c.opts.metricsCollector.RecordScore(t.Target(), score, err)
		log.LogScore(ctx, t.Target(), score, err)
		if err != nil {
			return nil, &ErrTargetFailed{Target: t.Target(), Op: "score", cause: err}
		}

		results = append(results, Result{Target: t.Target(), Score: score})
	}

	log.LogSummary(ctx, Summarize(results))
	return results, nil
}

func (c *Classifier) compare(ctx context.Context, log *Logger, t, l *profile.Collection, m distance.Metric) error {
	begin := time.Now()

	var err error
	if c.opts.workers > 1 {
		err = t.FillNeighborsParallel(ctx, l, m, c.opts.workers)
	} else {
		err = t.FillNeighbors(l, m)
	}

	pairs := int64(t.Len()) * int64(l.Len())
	elapsed := time.Since(begin)
	c.opts.metricsCollector.RecordCompare(pairs, elapsed, err)
	log.LogCompare(ctx, t.Target(), l.Target(), pairs, elapsed, err)
	return err
}

// compact drops nil collections and orders the rest by target label. The
// sort is stable so collections sharing a label keep their given order.
func compact(cols []*profile.Collection) []*profile.Collection {
	out := make([]*profile.Collection, 0, len(cols))
	for _, col := range cols {
		if col != nil {
			out = append(out, col)
		}
	}
	slices.SortStableFunc(out, func(a, b *profile.Collection) int {
		return cmp.Compare(a.Target(), b.Target())
	})
	return out
}
