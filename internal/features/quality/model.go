package quality

import "time"

// Gate outcomes
const (
	StatusPass    = "pass"
	StatusFail    = "fail"
	StatusUnknown = "unknown"
)

// DetectionThreshold is the minimum confidence at which a positive detection fails the gate
const DetectionThreshold = 0.5

var summaries = map[string]string{
	StatusPass:    "Automated review found no remaining issue in the proof photos.",
	StatusFail:    "Automated review detected the issue may still be present in the proof photos.",
	StatusUnknown: "Automated review could not assess the proof photos.",
}

// Summary returns the canned sentence for a gate status
func Summary(status string) string {
	return summaries[status]
}

// Photo is the part of a proof photo the scorer needs
type Photo struct {
	URI      string
	Filename string
	Size     int64
}

// Assessment is the per-photo scoring outcome. It is either Assessed or Unassessed.
type Assessment interface {
	assessment()
}

// Assessed is a photo the scorer could read
type Assessed struct {
	Detected       bool    `bson:"detected" json:"detected"`
	Confidence     float64 `bson:"confidence" json:"confidence"`
	Severity       string  `bson:"severity,omitempty" json:"severity,omitempty"`
	Priority       string  `bson:"priority,omitempty" json:"priority,omitempty"`
	Recommendation string  `bson:"recommendation,omitempty" json:"recommendation,omitempty"`
}

// Unassessed is a photo the scorer could not read, failed on, or timed out on
type Unassessed struct {
	Reason string `bson:"reason" json:"reason"`
}

func (Assessed) assessment()   {}
func (Unassessed) assessment() {}

// Outcome tags for persisted photo results
const (
	OutcomeAssessed   = "assessed"
	OutcomeUnassessed = "unassessed"
)

// PhotoResult is the stored form of one photo's assessment. Exactly one of
// Assessed and Unassessed is set, matching Outcome.
type PhotoResult struct {
	URI        string      `bson:"uri" json:"uri"`
	Outcome    string      `bson:"outcome" json:"outcome"`
	Assessed   *Assessed   `bson:"assessed,omitempty" json:"assessed,omitempty"`
	Unassessed *Unassessed `bson:"unassessed,omitempty" json:"unassessed,omitempty"`
}

// Assessment rebuilds the variant from its stored form
func (r PhotoResult) Assessment() Assessment {
	if r.Outcome == OutcomeAssessed && r.Assessed != nil {
		return *r.Assessed
	}
	if r.Unassessed != nil {
		return *r.Unassessed
	}
	return Unassessed{Reason: "missing result"}
}

func resultOf(uri string, a Assessment) PhotoResult {
	switch v := a.(type) {
	case Assessed:
		return PhotoResult{URI: uri, Outcome: OutcomeAssessed, Assessed: &v}
	case Unassessed:
		return PhotoResult{URI: uri, Outcome: OutcomeUnassessed, Unassessed: &v}
	default:
		return PhotoResult{URI: uri, Outcome: OutcomeUnassessed, Unassessed: &Unassessed{Reason: "unknown result"}}
	}
}

// QualityCheck is the gate's verdict over a proof photo set
type QualityCheck struct {
	Status     string        `bson:"status" json:"status"`
	Confidence float64       `bson:"confidence" json:"confidence"`
	Summary    string        `bson:"summary" json:"summary"`
	Photos     []PhotoResult `bson:"photos" json:"photos"`
	CheckedAt  time.Time     `bson:"checkedAt" json:"checkedAt"`
}
