package reports

import (
	"context"
	"strings"

	"github.com/xyz-asif/civic-connect/internal/pkg/pagination"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
)

const maxCommentLength = 1000

// Like and Dislike are mutually exclusive per citizen and idempotent
func (s *Service) Like(ctx context.Context, reportID, email string) (ReactionSummary, error) {
	return s.react(ctx, reportID, email, true)
}

func (s *Service) Dislike(ctx context.Context, reportID, email string) (ReactionSummary, error) {
	return s.react(ctx, reportID, email, false)
}

func (s *Service) react(ctx context.Context, reportID, email string, like bool) (ReactionSummary, error) {
	if email == "" {
		return ReactionSummary{}, apperrors.Validation("reactions need a citizen email")
	}
	summary, err := s.store.React(ctx, reportID, strings.ToLower(email), like)
	if err != nil {
		return ReactionSummary{}, err
	}
	s.log.Debug("report %s reaction by %s: %d likes, %d dislikes", reportID, email, summary.Likes, summary.Dislikes)
	return summary, nil
}

// AddComment appends a public comment. byName falls back to the email's local part.
func (s *Service) AddComment(ctx context.Context, reportID, email, byName, text string) ([]Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("Comment text required")
	}
	if len(text) > maxCommentLength {
		return nil, apperrors.Validation("comment must be at most 1000 characters")
	}
	byName = strings.TrimSpace(byName)
	if byName == "" {
		byName, _, _ = strings.Cut(email, "@")
	}

	comment := Comment{ByEmail: strings.ToLower(email), ByName: byName, Text: text, CreatedAt: s.now()}
	comments, err := s.store.AddComment(ctx, reportID, comment)
	if err != nil {
		return nil, err
	}
	s.log.Info("report %s commented by %s", reportID, email)
	return comments, nil
}

// ListPublic lists every report newest first, optionally by status and priority
func (s *Service) ListPublic(ctx context.Context, status, priority string, req pagination.Request) (*PublicListResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	priority = strings.ToLower(strings.TrimSpace(priority))
	if status != "" && !statuses[status] {
		return nil, apperrors.Validation("invalid status filter")
	}
	if _, ok := priorities[priority]; priority != "" && !ok {
		return nil, apperrors.Validation("invalid priority filter")
	}

	reports, total, err := s.store.List(ctx, status, priority, req)
	if err != nil {
		return nil, err
	}
	views := make([]PublicView, len(reports))
	for i := range reports {
		views[i] = reports[i].PublicView()
	}
	return &PublicListResponse{Reports: views, Pagination: pagination.New(req, total)}, nil
}

func publicComments(comments []Comment) []PublicComment {
	out := make([]PublicComment, len(comments))
	for i, c := range comments {
		out[i] = PublicComment{ByName: c.ByName, Text: c.Text, CreatedAt: c.CreatedAt}
	}
	return out
}
