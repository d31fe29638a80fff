package users

import (
	"errors"
	"strings"

	"github.com/xyz-asif/civic-connect/internal/pkg/validator"
	"go.mongodb.org/mongo-driver/bson"
)

const maxNameLength = 50

// ValidateProfileUpdate returns the fields to set. An empty phone or avatar clears it.
func ValidateProfileUpdate(req *UpdateProfileRequest) (bson.M, error) {
	fields := bson.M{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !validator.IsValidName(name) || len(name) > maxNameLength {
			return nil, errors.New("name must be 2 to 50 letters")
		}
		fields["name"] = name
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != "" && !validator.IsValidPhone(phone) {
			return nil, errors.New("invalid phone number")
		}
		fields["phone"] = phone
	}
	if req.Avatar != nil {
		fields["avatar"] = strings.TrimSpace(*req.Avatar)
	}

	if len(fields) == 0 {
		return nil, errors.New("nothing to update")
	}
	return fields, nil
}
