package notifications

import (
	"time"

	"github.com/xyz-asif/civic-connect/internal/features/quality"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification type constants
const (
	TypeReportSubmitted    = "report_submitted"
	TypeNewReport          = "new_report"
	TypeStatusUpdate       = "status_update"
	TypeResolutionPending  = "resolution_pending"
	TypeResolutionApproved = "resolution_approved"
	TypeResolutionRejected = "resolution_rejected"
)

// Recipient kinds
const (
	RecipientUser       = "user"
	RecipientDepartment = "department"
)

// Recipient identifies a notification inbox: a user by email or a department by code
type Recipient struct {
	Kind string
	Key  string
}

func User(email string) Recipient       { return Recipient{Kind: RecipientUser, Key: email} }
func Department(code string) Recipient { return Recipient{Kind: RecipientDepartment, Key: code} }

// Notification is embedded in the recipient's document
type Notification struct {
	ID           primitive.ObjectID    `bson:"_id" json:"id"`
	Type         string                `bson:"type" json:"type"`
	Title        string                `bson:"title" json:"title"`
	Message      string                `bson:"message" json:"message"`
	ReportID     string                `bson:"reportId,omitempty" json:"reportId,omitempty"`
	TrackingID   string                `bson:"trackingId,omitempty" json:"trackingId,omitempty"`
	Category     string                `bson:"category,omitempty" json:"category,omitempty"`
	Priority     string                `bson:"priority,omitempty" json:"priority,omitempty"`
	Photos       []string              `bson:"photos,omitempty" json:"photos,omitempty"`
	QualityCheck *quality.QualityCheck `bson:"qualityCheck,omitempty" json:"qualityCheck,omitempty"`
	Read         bool                  `bson:"read" json:"read"`
	ReadAt       *time.Time            `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt    time.Time             `bson:"createdAt" json:"createdAt"`
}

// ReportEvent carries the report fields every notification needs
type ReportEvent struct {
	ReportID      string
	TrackingID    string
	Category      string
	Priority      string
	Department    string
	ReporterName  string
	ReporterEmail string
}

// Request DTOs

type NotificationListQuery struct {
	Page       int  `form:"page,default=1" binding:"min=1"`
	Limit      int  `form:"limit,default=20" binding:"min=1,max=50"`
	UnreadOnly bool `form:"unreadOnly"`
}

// Response DTOs

type PaginatedNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	Pagination    struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
		HasMore    bool  `json:"hasMore"`
	} `json:"pagination"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}

type MarkReadResponse struct {
	ID   primitive.ObjectID `json:"id"`
	Read bool               `json:"read"`
}

type MarkAllReadResponse struct {
	MarkedCount int64 `json:"markedCount"`
}
