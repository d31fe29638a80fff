package reports

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xyz-asif/civic-connect/internal/features/departments"
	"github.com/xyz-asif/civic-connect/internal/features/notifications"
	"github.com/xyz-asif/civic-connect/internal/features/quality"
	"github.com/xyz-asif/civic-connect/internal/pkg/idgen"
	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
	"github.com/xyz-asif/civic-connect/internal/pkg/metrics"
	"github.com/xyz-asif/civic-connect/internal/pkg/pagination"
	"github.com/xyz-asif/civic-connect/internal/pkg/retry"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
)

const (
	reportIDPrefix     = "RPT"
	trackingCodePrefix = "TRK"

	maxAllocateAttempts = 5
	maxSaveAttempts     = 3

	summaryDays = 30
)

// Notifier receives report lifecycle events after they are persisted.
// Implementations must not block on delivery.
type Notifier interface {
	ReportSubmitted(ev notifications.ReportEvent)
	StatusChanged(ev notifications.ReportEvent, from, to string)
	ResolutionSubmitted(ev notifications.ReportEvent, photos []string, check quality.QualityCheck)
	ResolutionReviewed(ev notifications.ReportEvent, approved bool, reason string)
}

// Assessor runs the quality gate over a photo set
type Assessor interface {
	Assess(ctx context.Context, photos []quality.Photo, category string) quality.QualityCheck
}

// Service orchestrates report workflows. Each mutating operation validates
// against the state machine, persists one document update, then notifies.
type Service struct {
	store    Store
	ids      idgen.Allocator
	gate     Assessor
	notifier Notifier
	now      func() time.Time
	log      *logger.Logger
}

func NewService(store Store, ids idgen.Allocator, gate Assessor, notifier Notifier, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Default().Named("reports")
	}
	return &Service{
		store:    store,
		ids:      ids,
		gate:     gate,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

// SubmitInput is a validated report submission
type SubmitInput struct {
	Reporter Reporter
	Issue    Issue
	Location Location
	Priority string
	Severity string
}

func (s *Service) SubmitReport(ctx context.Context, in SubmitInput) (*Report, error) {
	now := s.now()

	report := &Report{
		Status:      StatusSubmitted,
		Priority:    in.Priority,
		Severity:    in.Severity,
		Reporter:    in.Reporter,
		Issue:       in.Issue,
		Location:    in.Location,
		Notes:       []Note{},
		Likes:       []string{},
		Dislikes:    []string{},
		Comments:    []Comment{},
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if report.Issue.Photos == nil {
		report.Issue.Photos = []Photo{}
	}
	if dept := departments.ForCategory(in.Issue.Category); dept != "" {
		report.Assignment = &Assignment{Department: dept, AssignedAt: now}
	}

	if len(report.Issue.Photos) > 0 && s.gate != nil {
		check := s.gate.Assess(ctx, gatePhotos(report.Issue.Photos), report.Issue.Category)
		report.Issue.Analysis = &check
		priority, severity := strongest(check)
		if report.Priority == "" {
			report.Priority = priority
		}
		if report.Severity == "" {
			report.Severity = severity
		}
	}
	if report.Priority == "" {
		report.Priority = "medium"
	}
	if report.Severity == "" {
		report.Severity = "low"
	}

	err := retry.Do(ctx, maxAllocateAttempts, isDuplicateID, func(attempt int) error {
		var err error
		if report.ReportID, err = s.ids.Allocate(reportIDPrefix); err != nil {
			return err
		}
		if report.TrackingCode, err = s.ids.Allocate(trackingCodePrefix); err != nil {
			return err
		}
		if attempt > 1 {
			s.log.Warn("report id collision, retrying allocation (attempt %d)", attempt)
		}
		return s.store.Create(ctx, report)
	})
	if err != nil {
		var exhausted *retry.ErrExhausted
		if errors.As(err, &exhausted) {
			return nil, apperrors.Wrap(apperrors.KindConflict, "Report ID already exists, please try again", err)
		}
		return nil, err
	}

	s.log.Info("report %s submitted by %s, assigned to %q", report.ReportID, report.Reporter.Email, report.Department())
	s.notifier.ReportSubmitted(eventOf(report))
	return report, nil
}

func isDuplicateID(err error) bool {
	return errors.Is(err, ErrDuplicateReportID)
}

// mutate re-reads the report and retries when another writer won the version race.
// apply validates and mutates the in-memory report, returning the stored change.
func (s *Service) mutate(ctx context.Context, reportID string, apply func(r *Report) (Change, error)) (*Report, error) {
	var report *Report
	err := retry.Do(ctx, maxSaveAttempts, isVersionConflict, func(int) error {
		r, err := s.store.FindByReportID(ctx, reportID)
		if err != nil {
			return err
		}
		ch, err := apply(r)
		if err != nil {
			return err
		}
		if err := s.store.Update(ctx, r.ReportID, r.Version, ch); err != nil {
			return err
		}
		r.Version++
		r.UpdatedAt = s.now()
		report = r
		return nil
	})
	if err != nil {
		var exhausted *retry.ErrExhausted
		if errors.As(err, &exhausted) {
			return nil, apperrors.Wrap(apperrors.KindConflict, "report is being updated, please try again", err)
		}
		return nil, err
	}
	return report, nil
}

func isVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// UpdateStatus moves a report along the generic path. It never reaches resolved.
func (s *Service) UpdateStatus(ctx context.Context, reportID, status, note string, actor Actor) (*Report, error) {
	if status == StatusResolved {
		return nil, apperrors.ErrResolutionProofRequired
	}

	var from string
	report, err := s.mutate(ctx, reportID, func(r *Report) (Change, error) {
		if err := checkDepartment(r, actor); err != nil {
			return Change{}, err
		}
		if err := checkStatusUpdate(r, status); err != nil {
			return Change{}, err
		}
		from = r.Status
		return applyStatusUpdate(r, status, note, actor, s.now()), nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ReportTransitions.WithLabelValues(from, status).Inc()
	s.log.Info("report %s moved %s -> %s by %s %s", reportID, from, status, actor.Role, actor.ID)
	s.notifier.StatusChanged(eventOf(report), from, status)
	return report, nil
}

// SubmitResolution records a department's proof of work and opens a pending review
func (s *Service) SubmitResolution(ctx context.Context, reportID string, in ResolutionInput, actor Actor) (*Report, error) {
	if len(in.Photos) == 0 {
		return nil, apperrors.ErrProofRequired
	}

	current, err := s.store.FindByReportID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := checkResolutionSubmit(current, actor, in.Photos); err != nil {
		return nil, err
	}

	// scored once, outside the save retry loop
	check := s.gate.Assess(ctx, gatePhotos(in.Photos), current.Issue.Category)

	var from string
	report, err := s.mutate(ctx, reportID, func(r *Report) (Change, error) {
		if err := checkResolutionSubmit(r, actor, in.Photos); err != nil {
			return Change{}, err
		}
		from = r.Status
		return applyResolution(r, in, check, actor, s.now()), nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ReportTransitions.WithLabelValues(from, StatusResolved).Inc()
	s.log.Info("report %s resolution cycle %d submitted by %s, quality %s", reportID, report.Resolution.Cycle, actor.ID, check.Status)

	ev := eventOf(report)
	s.notifier.StatusChanged(ev, from, StatusResolved)
	s.notifier.ResolutionSubmitted(ev, photoURIs(in.Photos), check)
	return report, nil
}

// ReviewResolution applies the reporter's decision on the pending resolution
func (s *Service) ReviewResolution(ctx context.Context, reportID, decision, reason string, actor Actor) (*Report, error) {
	decision = strings.ToLower(strings.TrimSpace(decision))

	var from string
	report, err := s.mutate(ctx, reportID, func(r *Report) (Change, error) {
		if err := checkReview(r, decision, actor); err != nil {
			return Change{}, err
		}
		from = r.Status
		return applyReview(r, decision, reason, actor, s.now()), nil
	})
	if err != nil {
		return nil, err
	}

	approved := decision == DecisionApprove
	s.log.Info("report %s resolution %sd by reporter", reportID, decision)

	ev := eventOf(report)
	if !approved {
		metrics.ReportTransitions.WithLabelValues(from, report.Status).Inc()
		s.notifier.StatusChanged(ev, from, report.Status)
	}
	s.notifier.ResolutionReviewed(ev, approved, reason)
	return report, nil
}

func (s *Service) Get(ctx context.Context, reportID string) (*Report, error) {
	return s.store.FindByReportID(ctx, reportID)
}

func (s *Service) GetByTracking(ctx context.Context, trackingCode string) (*Report, error) {
	return s.store.FindByTrackingCode(ctx, strings.ToUpper(strings.TrimSpace(trackingCode)))
}

func (s *Service) ListMine(ctx context.Context, email string, req pagination.Request) (*ReportListResponse, error) {
	reports, total, err := s.store.ListByReporter(ctx, email, req)
	if err != nil {
		return nil, err
	}
	return &ReportListResponse{Reports: reports, Pagination: pagination.New(req, total)}, nil
}

func (s *Service) ListForDepartment(ctx context.Context, department, status string, req pagination.Request) (*ReportListResponse, error) {
	if status != "" && !statuses[status] {
		return nil, apperrors.Validation("invalid status filter")
	}
	reports, total, err := s.store.ListByDepartment(ctx, department, status, req)
	if err != nil {
		return nil, err
	}
	return &ReportListResponse{Reports: reports, Pagination: pagination.New(req, total)}, nil
}

// Summary breaks down the department's reports from the last summaryDays days
// by submission day and current status
func (s *Service) Summary(ctx context.Context, department string) (*SummaryResponse, error) {
	since := s.now().AddDate(0, 0, -summaryDays)
	rows, err := s.store.DailySummary(ctx, department, since)
	if err != nil {
		return nil, err
	}

	out := &SummaryResponse{
		Department: department,
		Since:      since,
		Days:       summaryDays,
		ByDay:      map[string]map[string]int64{},
		ByStatus:   zeroCounts(),
	}
	for _, row := range rows {
		day, ok := out.ByDay[row.Day]
		if !ok {
			day = zeroCounts()
			out.ByDay[row.Day] = day
		}
		day[row.Status] += row.Count
		out.ByStatus[row.Status] += row.Count
		out.Total += row.Count
	}
	return out, nil
}

func zeroCounts() map[string]int64 {
	counts := make(map[string]int64, len(statuses))
	for status := range statuses {
		counts[status] = 0
	}
	return counts
}

func eventOf(r *Report) notifications.ReportEvent {
	return notifications.ReportEvent{
		ReportID:      r.ReportID,
		TrackingID:    r.TrackingCode,
		Category:      r.Issue.Category,
		Priority:      r.Priority,
		Department:    r.Department(),
		ReporterName:  r.Reporter.Name,
		ReporterEmail: r.Reporter.Email,
	}
}

func gatePhotos(photos []Photo) []quality.Photo {
	out := make([]quality.Photo, len(photos))
	for i, p := range photos {
		out[i] = quality.Photo{URI: p.URI, Filename: p.Filename, Size: p.Size}
	}
	return out
}

func photoURIs(photos []Photo) []string {
	out := make([]string, len(photos))
	for i, p := range photos {
		out[i] = p.URI
	}
	return out
}

// strongest picks the highest priority and severity any assessed photo reported.
// Both are empty when nothing was assessed.
func strongest(check quality.QualityCheck) (string, string) {
	var priority, severity string
	for _, res := range check.Photos {
		a, ok := res.Assessment().(quality.Assessed)
		if !ok {
			continue
		}
		if rank, ok := priorities[a.Priority]; ok && (priority == "" || rank > priorities[priority]) {
			priority = a.Priority
		}
		if rank, ok := severities[a.Severity]; ok && (severity == "" || rank > severities[severity]) {
			severity = a.Severity
		}
	}
	return priority, severity
}
