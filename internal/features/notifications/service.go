package notifications

import (
	"context"
	"fmt"

	"github.com/xyz-asif/civic-connect/internal/features/quality"
	"github.com/xyz-asif/civic-connect/internal/pkg/detached"
	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
	"github.com/xyz-asif/civic-connect/internal/pkg/queue"
)

// Fanout delivers report lifecycle events to the reporter and the owning department.
// Callers invoke it only after the report change has been persisted. Every delivery
// runs detached: a failed delivery is logged and lost, never returned to the caller.
type Fanout struct {
	store     Store
	runner    *detached.Runner
	publisher queue.Publisher
	log       *logger.Logger
}

func NewFanout(store Store, runner *detached.Runner, publisher queue.Publisher, log *logger.Logger) *Fanout {
	if publisher == nil {
		publisher = queue.Noop{}
	}
	if log == nil {
		log = logger.Default().Named("fanout")
	}
	return &Fanout{store: store, runner: runner, publisher: publisher, log: log}
}

// Notify appends n to one inbox synchronously
func (f *Fanout) Notify(ctx context.Context, to Recipient, n Notification) error {
	if to.Key == "" {
		return fmt.Errorf("empty %s recipient", to.Kind)
	}
	if err := f.store.Append(ctx, to, &n); err != nil {
		return fmt.Errorf("notify %s %s: %w", to.Kind, to.Key, err)
	}
	return nil
}

type delivery struct {
	to Recipient
	n  Notification
}

type publishedNotification struct {
	RecipientKind string       `json:"recipientKind"`
	RecipientKey  string       `json:"recipientKey"`
	Notification  Notification `json:"notification"`
}

func (f *Fanout) dispatch(deliveries ...delivery) {
	for _, d := range deliveries {
		if d.to.Key == "" {
			continue
		}
		f.runner.Go("notify:"+d.n.Type+":"+d.to.Key, func(ctx context.Context) error {
			if err := f.Notify(ctx, d.to, d.n); err != nil {
				return err
			}
			f.log.Debug("notification %s sent to %s %s for %s", d.n.Type, d.to.Kind, d.to.Key, d.n.ReportID)

			payload := publishedNotification{RecipientKind: d.to.Kind, RecipientKey: d.to.Key, Notification: d.n}
			if err := f.publisher.Publish(ctx, "notification."+d.n.Type, payload); err != nil {
				f.log.Warn("failed to publish %s event for %s: %v", d.n.Type, d.n.ReportID, err)
			}
			return nil
		})
	}
}

func trackingOf(ev ReportEvent) string {
	if ev.TrackingID != "" {
		return ev.TrackingID
	}
	return ev.ReportID
}

// ReportSubmitted notifies the reporter and, when assigned, the owning department
func (f *Fanout) ReportSubmitted(ev ReportEvent) {
	trackingID := trackingOf(ev)

	out := []delivery{{
		to: User(ev.ReporterEmail),
		n: Notification{
			Type:       TypeReportSubmitted,
			Title:      "Report Submitted Successfully",
			Message:    fmt.Sprintf("Your report has been submitted with tracking ID: %s. You can track its progress using this ID.", trackingID),
			ReportID:   ev.ReportID,
			TrackingID: trackingID,
		},
	}}

	if ev.Department != "" {
		out = append(out, delivery{
			to: Department(ev.Department),
			n: Notification{
				Type:       TypeNewReport,
				Title:      "New Report Received",
				Message:    fmt.Sprintf("New %s report submitted by %s. Tracking ID: %s", ev.Category, ev.ReporterName, trackingID),
				ReportID:   ev.ReportID,
				TrackingID: trackingID,
				Priority:   ev.Priority,
				Category:   ev.Category,
			},
		})
	}

	f.dispatch(out...)
}

// StatusChanged notifies the reporter of old and new status, and the department if assigned
func (f *Fanout) StatusChanged(ev ReportEvent, from, to string) {
	trackingID := trackingOf(ev)

	out := []delivery{{
		to: User(ev.ReporterEmail),
		n: Notification{
			Type:       TypeStatusUpdate,
			Title:      "Report Status Updated",
			Message:    fmt.Sprintf("Your report (%s) status has been updated from %s to %s.", trackingID, from, to),
			ReportID:   ev.ReportID,
			TrackingID: trackingID,
		},
	}}

	if ev.Department != "" {
		out = append(out, delivery{
			to: Department(ev.Department),
			n: Notification{
				Type:       TypeStatusUpdate,
				Title:      "Report Status Updated",
				Message:    fmt.Sprintf("Report %s status updated to %s.", trackingID, to),
				ReportID:   ev.ReportID,
				TrackingID: trackingID,
			},
		})
	}

	f.dispatch(out...)
}

// ResolutionSubmitted sends the reporter the proof photos and quality verdict for review
func (f *Fanout) ResolutionSubmitted(ev ReportEvent, photos []string, check quality.QualityCheck) {
	trackingID := trackingOf(ev)

	f.dispatch(delivery{
		to: User(ev.ReporterEmail),
		n: Notification{
			Type:         TypeResolutionPending,
			Title:        "Resolution Awaiting Your Approval",
			Message:      fmt.Sprintf("The %s department marked your report (%s) as resolved. %s Please review the proof photos and approve or reject the resolution.", ev.Department, trackingID, check.Summary),
			ReportID:     ev.ReportID,
			TrackingID:   trackingID,
			Photos:       photos,
			QualityCheck: &check,
		},
	})
}

// ResolutionReviewed tells the owning department what the reporter decided
func (f *Fanout) ResolutionReviewed(ev ReportEvent, approved bool, reason string) {
	if ev.Department == "" {
		return
	}
	trackingID := trackingOf(ev)

	n := Notification{
		Type:       TypeResolutionApproved,
		Title:      "Resolution Approved",
		Message:    fmt.Sprintf("The reporter approved the resolution of report %s.", trackingID),
		ReportID:   ev.ReportID,
		TrackingID: trackingID,
	}
	if !approved {
		n.Type = TypeResolutionRejected
		n.Title = "Resolution Rejected"
		n.Message = fmt.Sprintf("The reporter rejected the resolution of report %s: %s", trackingID, reason)
	}

	f.dispatch(delivery{to: Department(ev.Department), n: n})
}
