package reports

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
	"github.com/xyz-asif/civic-connect/internal/pkg/pagination"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
)

func TestReactionsAreExclusive(t *testing.T) {
	f := newFixture(nil)
	r := f.submit(t)
	ctx := context.Background()

	sum, err := f.service.Like(ctx, r.ReportID, "bo@example.com")
	require.NoError(t, err)
	require.Equal(t, ReactionSummary{Likes: 1}, sum)

	sum, err = f.service.Like(ctx, r.ReportID, "bo@example.com")
	require.NoError(t, err)
	require.Equal(t, ReactionSummary{Likes: 1}, sum)

	sum, err = f.service.Like(ctx, r.ReportID, reporterEmail)
	require.NoError(t, err)
	require.Equal(t, ReactionSummary{Likes: 2}, sum)

	sum, err = f.service.Dislike(ctx, r.ReportID, "bo@example.com")
	require.NoError(t, err)
	require.Equal(t, ReactionSummary{Likes: 1, Dislikes: 1}, sum)

	stored, err := f.store.FindByReportID(ctx, r.ReportID)
	require.NoError(t, err)
	require.Equal(t, []string{reporterEmail}, stored.Likes)
	require.Equal(t, []string{"bo@example.com"}, stored.Dislikes)
	require.Equal(t, r.Version, stored.Version)

	_, err = f.service.Like(ctx, "RPT-MISSING", "bo@example.com")
	require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestAddComment(t *testing.T) {
	f := newFixture(nil)
	r := f.submit(t)
	ctx := context.Background()

	comments, err := f.service.AddComment(ctx, r.ReportID, "bo@example.com", "", "  Same on 6th street  ")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "bo", comments[0].ByName)
	require.Equal(t, "Same on 6th street", comments[0].Text)

	comments, err = f.service.AddComment(ctx, r.ReportID, reporterEmail, "Asha", "Thanks")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "Asha", comments[1].ByName)

	_, err = f.service.AddComment(ctx, r.ReportID, reporterEmail, "", "   ")
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = f.service.AddComment(ctx, r.ReportID, reporterEmail, "", strings.Repeat("x", maxCommentLength+1))
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = f.service.AddComment(ctx, "RPT-MISSING", reporterEmail, "", "hello")
	require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListPublic(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	f.submit(t)
	urgent := roadInput()
	urgent.Priority = "urgent"
	hot, err := f.service.SubmitReport(ctx, urgent)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, hot.ReportID, StatusInProgress, "", roadDept)
	require.NoError(t, err)
	_, err = f.service.Like(ctx, hot.ReportID, "bo@example.com")
	require.NoError(t, err)

	all, err := f.service.ListPublic(ctx, "", "", pagination.Request{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, all.Reports, 2)
	require.Equal(t, int64(2), all.Pagination.Total)

	filtered, err := f.service.ListPublic(ctx, "In_Progress", "urgent", pagination.Request{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, filtered.Reports, 1)
	require.Equal(t, hot.ReportID, filtered.Reports[0].ReportID)
	require.Equal(t, 1, filtered.Reports[0].Likes)

	_, err = f.service.ListPublic(ctx, "", "someday", pagination.Request{Page: 1, Limit: 20})
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	_, err = f.service.ListPublic(ctx, "archived", "", pagination.Request{Page: 1, Limit: 20})
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestSocialHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(nil)
	report := f.submit(t)
	issuer := jwt.NewIssuer(jwt.DefaultConfig("secret", time.Hour))
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), f.service, middleware.Auth(issuer, "admin-key"), nil)

	citizen, _, err := issuer.GenerateToken("bo@example.com", jwt.RoleCitizen, "login", "")
	require.NoError(t, err)
	dept, _, err := issuer.GenerateToken("ROAD_DEPT", jwt.RoleDepartment, "session", "ROAD_DEPT")
	require.NoError(t, err)

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	path := "/api/v1/reports/" + report.ReportID

	w := do("POST", path+"/like", citizen, "")
	require.Equal(t, 200, w.Code, w.Body.String())
	var reacted struct {
		Data ReactionSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reacted))
	require.Equal(t, 1, reacted.Data.Likes)

	require.Equal(t, 401, do("POST", path+"/dislike", "", "").Code)
	require.Equal(t, 403, do("POST", path+"/dislike", dept, "").Code)
	require.Equal(t, 404, do("POST", "/api/v1/reports/RPT-MISSING/like", citizen, "").Code)

	require.Equal(t, 400, do("POST", path+"/comments", citizen, `{"text": ""}`).Code)
	w = do("POST", path+"/comments", citizen, `{"text": "Same here", "byName": "Bo"}`)
	require.Equal(t, 201, w.Code, w.Body.String())
	require.NotContains(t, w.Body.String(), "bo@example.com")

	w = do("GET", "/api/v1/reports?status=submitted", "", "")
	require.Equal(t, 200, w.Code)
	var list struct {
		Data PublicListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data.Reports, 1)
	require.Equal(t, 1, list.Data.Reports[0].Likes)
	require.Len(t, list.Data.Reports[0].Comments, 1)
	require.NotContains(t, w.Body.String(), reporterEmail)

	require.Equal(t, 400, do("GET", "/api/v1/reports?priority=someday", "", "").Code)
}
