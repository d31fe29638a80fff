package departments

import (
	"errors"
	"regexp"
	"strings"

	"github.com/xyz-asif/civic-connect/internal/pkg/validator"
)

var codeRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,31}$`)

// ValidateSignup normalizes and checks a signup request
func ValidateSignup(req *SignupRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if len(req.Name) < 2 || len(req.Name) > 100 {
		return errors.New("name must be between 2 and 100 characters")
	}
	if !codeRegex.MatchString(req.Code) {
		return errors.New("code must be upper case letters, digits or underscores")
	}
	if !validator.IsValidEmail(req.Email) {
		return errors.New("invalid email address")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// ValidateLogin normalizes and checks a login request
func ValidateLogin(req *LoginRequest) error {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Code == "" && req.Email == "" {
		return errors.New("code or email is required")
	}
	if req.Password == "" {
		return errors.New("password is required")
	}
	return nil
}
