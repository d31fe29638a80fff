package auth

import (
	"time"

	"github.com/xyz-asif/civic-connect/internal/features/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Code purposes
const (
	PurposeLogin  = "login"
	PurposeSignup = "signup"
)

// CodeLength is the number of digits in a one-time code
const CodeLength = 6

// OtpToken is one issued code. It is valid while unconsumed and unexpired and
// never becomes valid again once either stops holding.
type OtpToken struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Target     string             `bson:"target" json:"target"`
	Channel    string             `bson:"channel" json:"channel"`
	Purpose    string             `bson:"purpose" json:"purpose"`
	Code       string             `bson:"code" json:"-"`
	ExpiresAt  time.Time          `bson:"expiresAt" json:"expiresAt"`
	ConsumedAt *time.Time         `bson:"consumedAt" json:"consumedAt,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Request DTOs

type RequestCodeRequest struct {
	Target  string `json:"target" binding:"required"`
	Purpose string `json:"purpose" binding:"required"`
}

// VerifyCodeRequest carries the profile fields used when purpose is signup
type VerifyCodeRequest struct {
	Target  string `json:"target" binding:"required"`
	Purpose string `json:"purpose" binding:"required"`
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
}

// Response DTOs

// RequestCodeResponse echoes Code only when the server is configured to expose it
type RequestCodeResponse struct {
	ExpiresAt time.Time `json:"expiresAt"`
	Code      string    `json:"code,omitempty"`
}

type VerifyCodeResponse struct {
	Token     string                 `json:"token"`
	ExpiresAt time.Time              `json:"expiresAt"`
	User      *users.ProfileResponse `json:"user,omitempty"`
}
