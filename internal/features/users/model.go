package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a citizen account. Notifications live in the same document and are
// owned by the notifications feature.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Avatar    string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UpdateProfileRequest changes only the fields that are present
type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=2,max=50"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar" binding:"omitempty,url"`
}

type ProfileResponse struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone,omitempty"`
	Avatar      string             `json:"avatar,omitempty"`
	MemberSince time.Time          `json:"memberSince"`
}

func (u *User) Profile() ProfileResponse {
	return ProfileResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Avatar:      u.Avatar,
		MemberSince: u.CreatedAt,
	}
}
