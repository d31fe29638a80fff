package reports

import (
	"fmt"
	"time"

	"github.com/xyz-asif/civic-connect/internal/features/quality"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
)

// transitions are the edges the generic status update may take. resolved is
// never a target here: it is reached only by submitting a resolution.
var transitions = map[string][]string{
	StatusDraft:      {StatusSubmitted},
	StatusSubmitted:  {StatusInProgress, StatusClosed},
	StatusInProgress: {StatusClosed},
	StatusResolved:   {StatusClosed},
}

// Change is a single-document update. Set holds dotted field paths; Push holds
// array paths to append one element to. The two never share a path.
type Change struct {
	Set  map[string]interface{}
	Push map[string]interface{}
}

func newChange() Change {
	return Change{Set: map[string]interface{}{}, Push: map[string]interface{}{}}
}

func invalidTransition(from, to string) error {
	return apperrors.New(apperrors.KindInvalidTransition, fmt.Sprintf("cannot move report from %s to %s", from, to))
}

// checkStatusUpdate validates the generic path. Resolution is refused first,
// whatever the current status.
func checkStatusUpdate(r *Report, to string) error {
	if to == StatusResolved {
		return apperrors.ErrResolutionProofRequired
	}
	if !statuses[to] {
		return apperrors.Validation("invalid status value")
	}

	allowed := false
	for _, next := range transitions[r.Status] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return invalidTransition(r.Status, to)
	}

	if r.Status == StatusResolved && to == StatusClosed &&
		(r.Resolution == nil || r.Resolution.ApprovalStatus != ApprovalApproved) {
		return apperrors.New(apperrors.KindInvalidTransition, "a resolved report can only be closed after the reporter approves the resolution")
	}
	return nil
}

// applyStatusUpdate moves r to status to and records the optional note
func applyStatusUpdate(r *Report, to, note string, actor Actor, now time.Time) Change {
	ch := newChange()
	r.Status = to
	ch.Set["status"] = to
	addNote(r, &ch, note, actor, now)
	return ch
}

// checkResolutionSubmit validates a department's resolution claim
func checkResolutionSubmit(r *Report, actor Actor, photos []Photo) error {
	if len(photos) == 0 {
		return apperrors.ErrProofRequired
	}
	if r.Status != StatusSubmitted && r.Status != StatusInProgress {
		return invalidTransition(r.Status, StatusResolved)
	}
	return checkDepartment(r, actor)
}

// checkDepartment lets a department act on its own reports and on reports
// routing left unassigned. Other actors pass through to their own checks.
func checkDepartment(r *Report, actor Actor) error {
	if actor.Role != ActorDepartment {
		return nil
	}
	if dept := r.Department(); dept != "" && dept != actor.Department {
		return apperrors.New(apperrors.KindForbidden, "report is assigned to another department")
	}
	return nil
}

// ResolutionInput is what a department submits as proof of work
type ResolutionInput struct {
	Photos      []Photo
	Description string
	Note        string
	ResolvedBy  string
}

// applyResolution opens a fresh pending cycle. The previous cycle's history is kept.
func applyResolution(r *Report, in ResolutionInput, check quality.QualityCheck, actor Actor, now time.Time) Change {
	ch := newChange()

	res := r.Resolution
	if res == nil {
		res = &Resolution{}
		r.Resolution = res
	}
	res.Description = in.Description
	res.ResolvedBy = in.ResolvedBy
	if res.ResolvedBy == "" {
		res.ResolvedBy = actor.ID
	}
	res.Photos = in.Photos
	res.ApprovalStatus = ApprovalPending
	res.QualityCheck = check
	res.RejectionReason = ""
	res.Cycle++
	res.SubmittedAt = now
	res.ReviewedAt = nil

	entry := HistoryEntry{Status: ApprovalPending, Actor: actor.ID, Role: actor.Role, Notes: in.Note, At: now}
	res.ApprovalHistory = append(res.ApprovalHistory, entry)

	r.Status = StatusResolved
	r.PendingApproval = true

	ch.Set["status"] = StatusResolved
	ch.Set["pendingApproval"] = true
	ch.Set["resolution.description"] = res.Description
	ch.Set["resolution.resolvedBy"] = res.ResolvedBy
	ch.Set["resolution.photos"] = res.Photos
	ch.Set["resolution.approvalStatus"] = ApprovalPending
	ch.Set["resolution.qualityCheck"] = check
	ch.Set["resolution.rejectionReason"] = ""
	ch.Set["resolution.cycle"] = res.Cycle
	ch.Set["resolution.submittedAt"] = now
	ch.Set["resolution.reviewedAt"] = nil
	ch.Push["resolution.approvalHistory"] = entry

	addNote(r, &ch, in.Note, actor, now)
	return ch
}

// checkReview validates a reporter's decision on the pending resolution
func checkReview(r *Report, decision string, actor Actor) error {
	if decision != DecisionApprove && decision != DecisionReject {
		return apperrors.Validation("decision must be approve or reject")
	}
	if r.Resolution == nil || r.Resolution.ApprovalStatus != ApprovalPending {
		return apperrors.New(apperrors.KindInvalidTransition, "no resolution is awaiting approval")
	}
	if actor.Role != ActorCitizen || actor.ID != r.Reporter.Email {
		return apperrors.New(apperrors.KindForbidden, "only the reporter can review this resolution")
	}
	return nil
}

// applyReview closes the pending cycle. A rejection sends the report back to in_progress.
func applyReview(r *Report, decision, reason string, actor Actor, now time.Time) Change {
	ch := newChange()
	res := r.Resolution

	status := ApprovalApproved
	if decision == DecisionReject {
		status = ApprovalRejected
	}

	res.ApprovalStatus = status
	res.ReviewedAt = &now
	entry := HistoryEntry{Status: status, Actor: actor.ID, Role: actor.Role, Notes: reason, At: now}
	res.ApprovalHistory = append(res.ApprovalHistory, entry)
	r.PendingApproval = false

	ch.Set["resolution.approvalStatus"] = status
	ch.Set["resolution.reviewedAt"] = now
	ch.Set["pendingApproval"] = false
	ch.Push["resolution.approvalHistory"] = entry

	if status == ApprovalRejected {
		res.RejectionReason = reason
		r.Status = StatusInProgress
		ch.Set["resolution.rejectionReason"] = reason
		ch.Set["status"] = StatusInProgress
	}

	addNote(r, &ch, reason, actor, now)
	return ch
}

func addNote(r *Report, ch *Change, text string, actor Actor, now time.Time) {
	if text == "" {
		return
	}
	n := Note{Note: text, AddedBy: actor.Role, AddedByID: actor.ID, AddedAt: now}
	r.Notes = append(r.Notes, n)
	ch.Push["notes"] = n
}
