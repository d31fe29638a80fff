package reports

import (
	"time"

	"github.com/xyz-asif/civic-connect/internal/features/quality"
	"github.com/xyz-asif/civic-connect/internal/pkg/pagination"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report statuses
const (
	StatusDraft      = "draft"
	StatusSubmitted  = "submitted"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Resolution approval statuses
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Review decisions
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Actor roles recorded in history and notes
const (
	ActorCitizen    = "citizen"
	ActorDepartment = "department"
	ActorSystem     = "system"
)

var (
	priorities = map[string]int{"low": 0, "medium": 1, "high": 2, "urgent": 3}
	severities = map[string]int{"low": 0, "medium": 1, "high": 2, "critical": 3}
	statuses   = map[string]bool{StatusDraft: true, StatusSubmitted: true, StatusInProgress: true, StatusResolved: true, StatusClosed: true}
)

// Actor is whoever drives a workflow operation
type Actor struct {
	Role string
	// ID is the citizen email, department code, or a system name
	ID string
	// Department is set for department actors
	Department string
}

type Reporter struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Photo is a stored image reference
type Photo struct {
	URI        string    `bson:"uri" json:"uri"`
	PublicID   string    `bson:"publicId,omitempty" json:"publicId,omitempty"`
	Filename   string    `bson:"filename,omitempty" json:"filename,omitempty"`
	Size       int64     `bson:"size,omitempty" json:"size,omitempty"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

type Issue struct {
	Category    string                `bson:"category" json:"category"`
	Subcategory string                `bson:"subcategory" json:"subcategory"`
	Description string                `bson:"description" json:"description"`
	Photos      []Photo               `bson:"photos" json:"photos"`
	Analysis    *quality.QualityCheck `bson:"analysis,omitempty" json:"analysis,omitempty"`
}

type Location struct {
	Latitude  float64  `bson:"latitude" json:"latitude"`
	Longitude float64  `bson:"longitude" json:"longitude"`
	Address   string   `bson:"address,omitempty" json:"address,omitempty"`
	Accuracy  *float64 `bson:"accuracy,omitempty" json:"accuracy,omitempty"`
}

type Assignment struct {
	Department string    `bson:"department" json:"department"`
	AssignedAt time.Time `bson:"assignedAt" json:"assignedAt"`
}

// HistoryEntry records one approval status change
type HistoryEntry struct {
	Status string    `bson:"status" json:"status"`
	Actor  string    `bson:"actor" json:"actor"`
	Role   string    `bson:"role" json:"role"`
	Notes  string    `bson:"notes,omitempty" json:"notes,omitempty"`
	At     time.Time `bson:"at" json:"at"`
}

// Resolution is the department's claim of completed work. It is kept across
// rejection so its history stays as the audit trail.
type Resolution struct {
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	ResolvedBy      string               `bson:"resolvedBy" json:"resolvedBy"`
	Photos          []Photo              `bson:"photos" json:"photos"`
	ApprovalStatus  string               `bson:"approvalStatus" json:"approvalStatus"`
	QualityCheck    quality.QualityCheck `bson:"qualityCheck" json:"qualityCheck"`
	ApprovalHistory []HistoryEntry       `bson:"approvalHistory" json:"approvalHistory"`
	RejectionReason string               `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Cycle           int                  `bson:"cycle" json:"cycle"`
	SubmittedAt     time.Time            `bson:"submittedAt" json:"submittedAt"`
	ReviewedAt      *time.Time           `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
}

// Note is a free-text remark. AddedBy is the author's role and AddedByID the
// citizen email, department code, or system name.
type Note struct {
	Note      string    `bson:"note" json:"note"`
	AddedBy   string    `bson:"addedBy" json:"addedBy"`
	AddedByID string    `bson:"addedById,omitempty" json:"addedById,omitempty"`
	AddedAt   time.Time `bson:"addedAt" json:"addedAt"`
}

// Comment is a citizen's public remark on a report
type Comment struct {
	ByEmail   string    `bson:"byEmail" json:"byEmail"`
	ByName    string    `bson:"byName" json:"byName"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Report is the aggregate every workflow operation reads and writes as one document
type Report struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ReportID        string             `bson:"reportId" json:"reportId"`
	TrackingCode    string             `bson:"trackingCode" json:"trackingCode"`
	Status          string             `bson:"status" json:"status"`
	Priority        string             `bson:"priority" json:"priority"`
	Severity        string             `bson:"severity" json:"severity"`
	Reporter        Reporter           `bson:"reporter" json:"reporter"`
	Issue           Issue              `bson:"issue" json:"issue"`
	Location        Location           `bson:"location" json:"location"`
	Assignment      *Assignment        `bson:"assignment,omitempty" json:"assignment,omitempty"`
	Resolution      *Resolution        `bson:"resolution,omitempty" json:"resolution,omitempty"`
	PendingApproval bool               `bson:"pendingApproval" json:"pendingApproval"`
	Notes           []Note             `bson:"notes" json:"notes"`
	Likes           []string           `bson:"likes" json:"likes"`
	Dislikes        []string           `bson:"dislikes" json:"dislikes"`
	Comments        []Comment          `bson:"comments" json:"comments"`
	Version         int64              `bson:"version" json:"version"`
	SubmittedAt     time.Time          `bson:"submittedAt" json:"submittedAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Department returns the assigned department code, or ""
func (r *Report) Department() string {
	if r.Assignment == nil {
		return ""
	}
	return r.Assignment.Department
}

// Request DTOs

type PhotoInput struct {
	URI      string `json:"uri" binding:"required"`
	PublicID string `json:"publicId"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type SubmitReportRequest struct {
	Reporter struct {
		Name  string `json:"name" binding:"required"`
		Phone string `json:"phone"`
	} `json:"reporter"`
	Issue struct {
		Category    string       `json:"category" binding:"required"`
		Subcategory string       `json:"subcategory"`
		Description string       `json:"description" binding:"required"`
		Photos      []PhotoInput `json:"photos"`
	} `json:"issue"`
	Location struct {
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
		Address   string   `json:"address"`
		Accuracy  *float64 `json:"accuracy"`
	} `json:"location"`
	Priority string `json:"priority"`
	Severity string `json:"severity"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type SubmitResolutionRequest struct {
	Photos      []PhotoInput `json:"photos"`
	Description string       `json:"description"`
	Note        string       `json:"note"`
	ResolvedBy  string       `json:"resolvedBy"`
}

type ReviewResolutionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Reason   string `json:"reason"`
}

type ListQuery struct {
	Page     string `form:"page"`
	Limit    string `form:"limit"`
	Status   string `form:"status"`
	Priority string `form:"priority"`
}

type CommentRequest struct {
	Text   string `json:"text"`
	ByName string `json:"byName"`
}

// Response DTOs

type SubmitReportResponse struct {
	ReportID     string `json:"reportId"`
	TrackingCode string `json:"trackingCode"`
	Status       string `json:"status"`
	Department   string `json:"department,omitempty"`
}

// TrackingView is safe to show to anyone holding the tracking code
type TrackingView struct {
	TrackingCode   string    `json:"trackingCode"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	Category       string    `json:"category"`
	Subcategory    string    `json:"subcategory"`
	Description    string    `json:"description"`
	Address        string    `json:"address,omitempty"`
	Department     string    `json:"department,omitempty"`
	ApprovalStatus string    `json:"approvalStatus,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (r *Report) TrackingView() TrackingView {
	v := TrackingView{
		TrackingCode: r.TrackingCode,
		Status:       r.Status,
		Priority:     r.Priority,
		Category:     r.Issue.Category,
		Subcategory:  r.Issue.Subcategory,
		Description:  r.Issue.Description,
		Address:      r.Location.Address,
		Department:   r.Department(),
		SubmittedAt:  r.SubmittedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Resolution != nil {
		v.ApprovalStatus = r.Resolution.ApprovalStatus
	}
	return v
}

// PublicView is a report as listed to everyone. Reporter contact details and
// comment authors' emails are left out.
type PublicView struct {
	ReportID string `json:"reportId"`
	TrackingView
	Likes    int             `json:"likes"`
	Dislikes int             `json:"dislikes"`
	Comments []PublicComment `json:"comments"`
}

type PublicComment struct {
	ByName    string    `json:"byName"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *Report) PublicView() PublicView {
	return PublicView{
		ReportID:     r.ReportID,
		TrackingView: r.TrackingView(),
		Likes:        len(r.Likes),
		Dislikes:     len(r.Dislikes),
		Comments:     publicComments(r.Comments),
	}
}

type PublicListResponse struct {
	Reports    []PublicView           `json:"reports"`
	Pagination *pagination.Pagination `json:"pagination"`
}

// ReactionSummary is the like and dislike count after a reaction
type ReactionSummary struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

type CommentsResponse struct {
	Comments []PublicComment `json:"comments"`
}

type ReportListResponse struct {
	Reports    []Report               `json:"reports"`
	Pagination *pagination.Pagination `json:"pagination"`
}

// DayCount is the number of reports submitted on Day (YYYY-MM-DD, UTC) that
// are currently in Status
type DayCount struct {
	Day    string
	Status string
	Count  int64
}

// SummaryResponse covers reports submitted in the last Days days
type SummaryResponse struct {
	Department string                      `json:"department"`
	Since      time.Time                   `json:"since"`
	Days       int                         `json:"days"`
	ByDay      map[string]map[string]int64 `json:"byDay"`
	ByStatus   map[string]int64            `json:"byStatus"`
	Total      int64                       `json:"total"`
}
