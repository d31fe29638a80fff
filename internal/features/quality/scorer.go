package quality

import (
	"context"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
)

// Scorer rates one photo. It returns an error when the photo cannot be assessed.
type Scorer interface {
	Score(ctx context.Context, photo Photo, category string) (Assessed, error)
}

// ScorerFunc adapts a plain function to Scorer
type ScorerFunc func(ctx context.Context, photo Photo, category string) (Assessed, error)

func (f ScorerFunc) Score(ctx context.Context, photo Photo, category string) (Assessed, error) {
	return f(ctx, photo, category)
}

// HeuristicScorer derives a confidence from file size and name. It is a
// placeholder for a real detector and makes no accuracy claim.
type HeuristicScorer struct{}

var resolvedHints = []string{"fixed", "after", "clean", "resolved", "done"}

func (HeuristicScorer) Score(ctx context.Context, photo Photo, category string) (Assessed, error) {
	if err := ctx.Err(); err != nil {
		return Assessed{}, err
	}
	if photo.Size <= 0 {
		return Assessed{}, apperrors.Wrap(apperrors.KindUnavailable, "photo could not be read",
			fmt.Errorf("photo %q has no content", photo.URI))
	}

	confidence := round2(math.Min(0.8, 0.3+float64(photo.Size)/1e6))
	detected := confidence > DetectionThreshold

	name := strings.ToLower(photo.Filename)
	for _, hint := range resolvedHints {
		if strings.Contains(name, hint) {
			detected = false
			break
		}
	}

	a := Assessed{Detected: detected, Confidence: confidence}
	switch {
	case !detected:
		a.Severity, a.Priority = "low", "low"
		a.Recommendation = "No further action needed"
	case confidence >= 0.7:
		a.Severity, a.Priority = "high", "high"
		a.Recommendation = fmt.Sprintf("%s issue still visible, schedule another visit", category)
	default:
		a.Severity, a.Priority = "medium", "medium"
		a.Recommendation = "Manual review recommended"
	}
	return a, nil
}
