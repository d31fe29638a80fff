package quality

import "math"

// Aggregate folds per-photo assessments into a gate status and mean confidence.
// The result does not depend on the order of assessments.
func Aggregate(assessments []Assessment) (string, float64) {
	var (
		valid    int
		sum      float64
		detected bool
	)

	for _, a := range assessments {
		v, ok := a.(Assessed)
		if !ok {
			continue
		}
		valid++
		sum += v.Confidence
		if v.Detected && v.Confidence >= DetectionThreshold {
			detected = true
		}
	}

	if valid == 0 {
		return StatusUnknown, 0
	}

	confidence := round2(sum / float64(valid))
	if detected {
		return StatusFail, confidence
	}
	return StatusPass, confidence
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
