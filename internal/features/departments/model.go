package departments

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department is a department account. Notifications live in the same document.
type Department struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Code         string             `bson:"code" json:"code"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Active       bool               `bson:"active" json:"active"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Request DTOs

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest identifies the department by code or email
type LoginRequest struct {
	Code     string `json:"code"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// Response DTOs

type DepartmentResponse struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Code  string             `json:"code"`
	Email string             `json:"email"`
}

type AuthResponse struct {
	Token      string             `json:"token"`
	ExpiresAt  time.Time          `json:"expiresAt"`
	Department DepartmentResponse `json:"department"`
}

func (d *Department) Response() DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Name: d.Name, Code: d.Code, Email: d.Email}
}
