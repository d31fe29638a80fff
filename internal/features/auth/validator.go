package auth

import (
	"errors"
	"strings"

	"github.com/xyz-asif/civic-connect/internal/features/users"
	"github.com/xyz-asif/civic-connect/internal/pkg/validator"
)

func validatePurpose(purpose string) error {
	if purpose != PurposeLogin && purpose != PurposeSignup {
		return errors.New("purpose must be login or signup")
	}
	return nil
}

// ValidateRequestCode normalizes and checks a code request
func ValidateRequestCode(req *RequestCodeRequest) error {
	req.Target = users.NormalizeEmail(req.Target)
	req.Purpose = strings.ToLower(strings.TrimSpace(req.Purpose))

	if !validator.IsValidEmail(req.Target) {
		return errors.New("valid email is required")
	}
	return validatePurpose(req.Purpose)
}

// ValidateVerifyCode normalizes and checks a verification request
func ValidateVerifyCode(req *VerifyCodeRequest) error {
	req.Target = users.NormalizeEmail(req.Target)
	req.Purpose = strings.ToLower(strings.TrimSpace(req.Purpose))
	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Target == "" {
		return errors.New("target is required")
	}
	if err := validatePurpose(req.Purpose); err != nil {
		return err
	}
	if !validator.IsValidOTPCode(req.Code) {
		return errors.New("code must be 6 digits")
	}
	if req.Name != "" && !validator.IsValidName(req.Name) {
		return errors.New("name contains invalid characters")
	}
	if req.Phone != "" && !validator.IsValidPhone(req.Phone) {
		return errors.New("invalid phone number")
	}
	return nil
}
