package quality

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
)

func quietLogger() *logger.Logger {
	l := logger.New(logger.ERROR)
	l.SetOutput(io.Discard)
	return l
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name       string
		in         []Assessment
		status     string
		confidence float64
	}{
		{
			name:       "detected above threshold fails",
			in:         []Assessment{Assessed{Detected: true, Confidence: 0.6}, Assessed{Detected: false, Confidence: 0.1}},
			status:     StatusFail,
			confidence: 0.35,
		},
		{
			name:       "detected below threshold passes",
			in:         []Assessment{Assessed{Detected: true, Confidence: 0.4}},
			status:     StatusPass,
			confidence: 0.4,
		},
		{
			name:       "detected at threshold fails",
			in:         []Assessment{Assessed{Detected: true, Confidence: 0.5}},
			status:     StatusFail,
			confidence: 0.5,
		},
		{
			name:       "all unassessed is unknown",
			in:         []Assessment{Unassessed{Reason: "missing"}, Unassessed{Reason: "timeout"}},
			status:     StatusUnknown,
			confidence: 0,
		},
		{
			name:       "no photos is unknown",
			status:     StatusUnknown,
			confidence: 0,
		},
		{
			name:       "unassessed ignored in mean",
			in:         []Assessment{Assessed{Confidence: 0.2}, Unassessed{}, Assessed{Confidence: 0.3}},
			status:     StatusPass,
			confidence: 0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, confidence := Aggregate(tt.in)
			require.Equal(t, tt.status, status)
			require.InDelta(t, tt.confidence, confidence, 1e-9)
		})
	}
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	a := Assessed{Detected: true, Confidence: 0.73}
	b := Assessed{Detected: false, Confidence: 0.18}
	c := Unassessed{Reason: "x"}

	s1, c1 := Aggregate([]Assessment{a, b, c})
	s2, c2 := Aggregate([]Assessment{c, b, a})
	s3, c3 := Aggregate([]Assessment{b, a})

	require.Equal(t, s1, s2)
	require.Equal(t, s1, s3)
	require.Equal(t, c1, c2)
	require.Equal(t, c1, c3)
}

func TestHeuristicScorer(t *testing.T) {
	s := HeuristicScorer{}
	ctx := context.Background()

	_, err := s.Score(ctx, Photo{URI: "a.jpg"}, "Road")
	require.True(t, apperrors.Is(err, apperrors.ErrUnavailable))

	small, err := s.Score(ctx, Photo{URI: "b.jpg", Size: 100_000}, "Road")
	require.NoError(t, err)
	require.Equal(t, 0.4, small.Confidence)
	require.False(t, small.Detected)

	large, err := s.Score(ctx, Photo{URI: "c.jpg", Size: 5_000_000}, "Road")
	require.NoError(t, err)
	require.Equal(t, 0.8, large.Confidence)
	require.True(t, large.Detected)
	require.Equal(t, "high", large.Severity)

	hinted, err := s.Score(ctx, Photo{URI: "d.jpg", Filename: "road_fixed.jpg", Size: 5_000_000}, "Road")
	require.NoError(t, err)
	require.False(t, hinted.Detected)
}

func TestGateAssess(t *testing.T) {
	scores := map[string]Assessed{
		"a": {Detected: true, Confidence: 0.6},
		"b": {Detected: false, Confidence: 0.1},
	}
	scorer := ScorerFunc(func(ctx context.Context, p Photo, _ string) (Assessed, error) {
		a, ok := scores[p.URI]
		if !ok {
			return Assessed{}, errors.New("not found")
		}
		return a, nil
	})

	g := NewGate(scorer, time.Second, 2, quietLogger())

	check := g.Assess(context.Background(), []Photo{{URI: "a"}, {URI: "b"}, {URI: "missing"}}, "Road")
	require.Equal(t, StatusFail, check.Status)
	require.Equal(t, 0.35, check.Confidence)
	require.Equal(t, Summary(StatusFail), check.Summary)
	require.Len(t, check.Photos, 3)
	require.Equal(t, OutcomeAssessed, check.Photos[0].Outcome)
	require.Equal(t, OutcomeUnassessed, check.Photos[2].Outcome)
	require.NotNil(t, check.Photos[2].Unassessed)

	reversed := g.Assess(context.Background(), []Photo{{URI: "missing"}, {URI: "b"}, {URI: "a"}}, "Road")
	require.Equal(t, check.Status, reversed.Status)
	require.Equal(t, check.Confidence, reversed.Confidence)
}

func TestGateTimeoutIsUnassessed(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	scorer := ScorerFunc(func(ctx context.Context, p Photo, _ string) (Assessed, error) {
		if p.URI == "slow" {
			<-block
		}
		return Assessed{Detected: false, Confidence: 0.2}, nil
	})

	g := NewGate(scorer, 20*time.Millisecond, 4, quietLogger())
	check := g.Assess(context.Background(), []Photo{{URI: "slow"}, {URI: "fast"}}, "Water")

	require.Equal(t, StatusPass, check.Status)
	require.Equal(t, 0.2, check.Confidence)
	require.Equal(t, OutcomeUnassessed, check.Photos[0].Outcome)
	require.Equal(t, "scoring timed out", check.Photos[0].Unassessed.Reason)
}

func TestGateScorerPanicIsUnassessed(t *testing.T) {
	scorer := ScorerFunc(func(context.Context, Photo, string) (Assessed, error) {
		panic("boom")
	})

	g := NewGate(scorer, time.Second, 1, quietLogger())
	check := g.Assess(context.Background(), []Photo{{URI: "x"}}, "Road")
	require.Equal(t, StatusUnknown, check.Status)
	require.Equal(t, 0.0, check.Confidence)
}

func TestPhotoResultRoundTrip(t *testing.T) {
	r := resultOf("x", Assessed{Detected: true, Confidence: 0.9})
	require.Equal(t, Assessed{Detected: true, Confidence: 0.9}, r.Assessment())

	u := resultOf("y", Unassessed{Reason: "gone"})
	require.Equal(t, Unassessed{Reason: "gone"}, u.Assessment())
}
