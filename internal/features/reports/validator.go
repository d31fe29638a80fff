package reports

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xyz-asif/civic-connect/internal/pkg/validator"
)

const (
	maxDescriptionLength = 2000
	maxPhotos            = 10
)

// ValidateSubmit normalizes a submission and converts it for the service.
// reporterEmail comes from the bearer credential, never from the body.
func ValidateSubmit(req *SubmitReportRequest, reporterEmail string, now time.Time) (SubmitInput, error) {
	req.Reporter.Name = strings.TrimSpace(req.Reporter.Name)
	req.Reporter.Phone = strings.TrimSpace(req.Reporter.Phone)
	req.Issue.Category = strings.TrimSpace(req.Issue.Category)
	req.Issue.Subcategory = strings.TrimSpace(req.Issue.Subcategory)
	req.Issue.Description = strings.TrimSpace(req.Issue.Description)
	req.Priority = strings.ToLower(strings.TrimSpace(req.Priority))
	req.Severity = strings.ToLower(strings.TrimSpace(req.Severity))

	if !validator.IsValidName(req.Reporter.Name) {
		return SubmitInput{}, errors.New("reporter name must be at least 2 letters")
	}
	if req.Reporter.Phone != "" && !validator.IsValidPhone(req.Reporter.Phone) {
		return SubmitInput{}, errors.New("invalid reporter phone number")
	}
	if reporterEmail == "" {
		return SubmitInput{}, errors.New("reporter email is required")
	}
	if req.Issue.Category == "" {
		return SubmitInput{}, errors.New("issue category is required")
	}
	if req.Issue.Description == "" {
		return SubmitInput{}, errors.New("issue description is required")
	}
	if len(req.Issue.Description) > maxDescriptionLength {
		return SubmitInput{}, fmt.Errorf("issue description must be at most %d characters", maxDescriptionLength)
	}
	if req.Location.Latitude == nil || req.Location.Longitude == nil {
		return SubmitInput{}, errors.New("location latitude and longitude are required")
	}
	if !validator.IsValidCoordinates(*req.Location.Latitude, *req.Location.Longitude) {
		return SubmitInput{}, errors.New("location coordinates are out of range")
	}
	if req.Priority != "" {
		if _, ok := priorities[req.Priority]; !ok {
			return SubmitInput{}, errors.New("priority must be low, medium, high or urgent")
		}
	}
	if req.Severity != "" {
		if _, ok := severities[req.Severity]; !ok {
			return SubmitInput{}, errors.New("severity must be low, medium, high or critical")
		}
	}

	photos, err := toPhotos(req.Issue.Photos, now)
	if err != nil {
		return SubmitInput{}, err
	}

	return SubmitInput{
		Reporter: Reporter{Name: req.Reporter.Name, Email: reporterEmail, Phone: req.Reporter.Phone},
		Issue: Issue{
			Category:    req.Issue.Category,
			Subcategory: req.Issue.Subcategory,
			Description: req.Issue.Description,
			Photos:      photos,
		},
		Location: Location{
			Latitude:  *req.Location.Latitude,
			Longitude: *req.Location.Longitude,
			Address:   strings.TrimSpace(req.Location.Address),
			Accuracy:  req.Location.Accuracy,
		},
		Priority: req.Priority,
		Severity: req.Severity,
	}, nil
}

// ValidateResolution converts a resolution request. An empty photo list is left
// for the service to reject with its own error kind.
func ValidateResolution(req *SubmitResolutionRequest, now time.Time) (ResolutionInput, error) {
	photos, err := toPhotos(req.Photos, now)
	if err != nil {
		return ResolutionInput{}, err
	}
	description := strings.TrimSpace(req.Description)
	if len(description) > maxDescriptionLength {
		return ResolutionInput{}, fmt.Errorf("description must be at most %d characters", maxDescriptionLength)
	}
	return ResolutionInput{
		Photos:      photos,
		Description: description,
		Note:        strings.TrimSpace(req.Note),
		ResolvedBy:  strings.TrimSpace(req.ResolvedBy),
	}, nil
}

func toPhotos(in []PhotoInput, now time.Time) ([]Photo, error) {
	if len(in) > maxPhotos {
		return nil, fmt.Errorf("at most %d photos are allowed", maxPhotos)
	}
	photos := make([]Photo, 0, len(in))
	for i, p := range in {
		uri := strings.TrimSpace(p.URI)
		if uri == "" {
			return nil, fmt.Errorf("photo %d has no uri", i+1)
		}
		// size comes from the upload response and feeds the quality gate
		if p.Size <= 0 {
			return nil, fmt.Errorf("photo %d has no size", i+1)
		}
		photos = append(photos, Photo{
			URI:        uri,
			PublicID:   p.PublicID,
			Filename:   p.Filename,
			Size:       p.Size,
			UploadedAt: now,
		})
	}
	return photos, nil
}
