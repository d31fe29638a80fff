package quality

import (
	"context"
	"fmt"
	"time"

	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
	"github.com/xyz-asif/civic-connect/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Gate scores proof photos concurrently and aggregates the results
type Gate struct {
	scorer      Scorer
	timeout     time.Duration
	concurrency int
	now         func() time.Time
	log         *logger.Logger
}

func NewGate(scorer Scorer, timeout time.Duration, concurrency int, log *logger.Logger) *Gate {
	if scorer == nil {
		scorer = HeuristicScorer{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = logger.Default().Named("quality")
	}
	return &Gate{
		scorer:      scorer,
		timeout:     timeout,
		concurrency: concurrency,
		now:         time.Now,
		log:         log,
	}
}

// Assess never fails: a photo that cannot be scored in time counts as unassessed.
func (g *Gate) Assess(ctx context.Context, photos []Photo, category string) QualityCheck {
	assessments := make([]Assessment, len(photos))

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i, photo := range photos {
		eg.Go(func() error {
			assessments[i] = g.scoreOne(ctx, photo, category)
			return nil
		})
	}
	_ = eg.Wait()

	results := make([]PhotoResult, len(photos))
	for i, photo := range photos {
		results[i] = resultOf(photo.URI, assessments[i])
	}

	status, confidence := Aggregate(assessments)
	metrics.QualityChecks.WithLabelValues(status).Inc()

	return QualityCheck{
		Status:     status,
		Confidence: confidence,
		Summary:    Summary(status),
		Photos:     results,
		CheckedAt:  g.now().UTC(),
	}
}

type scoreOutcome struct {
	assessed Assessed
	err      error
}

func (g *Gate) scoreOne(parent context.Context, photo Photo, category string) Assessment {
	ctx, cancel := context.WithTimeout(parent, g.timeout)
	defer cancel()

	done := make(chan scoreOutcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- scoreOutcome{err: fmt.Errorf("scorer panic: %v", p)}
			}
		}()
		a, err := g.scorer.Score(ctx, photo, category)
		done <- scoreOutcome{assessed: a, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			g.log.Warn("photo %s unassessed: %v", photo.URI, out.err)
			return Unassessed{Reason: out.err.Error()}
		}
		return out.assessed
	case <-ctx.Done():
		g.log.Warn("photo %s unassessed: scoring timed out after %s", photo.URI, g.timeout)
		return Unassessed{Reason: "scoring timed out"}
	}
}
