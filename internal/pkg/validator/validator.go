package validator

import (
	"math"
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	codeRegex  = regexp.MustCompile(`^\d{6}$`)
	nameRegex  = regexp.MustCompile(`^[\p{L}\s\-'\.]+$`)
)

// IsValidEmail checks if the email format is valid
func IsValidEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidPhone checks if the phone number format is valid
func IsValidPhone(phone string) bool {
	if strings.TrimSpace(phone) == "" {
		return false
	}
	return phoneRegex.MatchString(phone)
}

// IsValidName checks if the name contains only letters, spaces, and common punctuation
func IsValidName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 2 && nameRegex.MatchString(name)
}

// IsValidOTPCode checks for exactly six digits
func IsValidOTPCode(code string) bool {
	return codeRegex.MatchString(code)
}

// IsValidCoordinates checks latitude and longitude ranges
func IsValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
