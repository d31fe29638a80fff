package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/civic-connect/internal/features/quality"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/detached"
	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryStore struct {
	mu      sync.Mutex
	inboxes map[Recipient][]Notification
	fail    map[Recipient]error
}

func newMemoryStore(recipients ...Recipient) *memoryStore {
	m := &memoryStore{inboxes: map[Recipient][]Notification{}, fail: map[Recipient]error{}}
	for _, r := range recipients {
		m.inboxes[r] = nil
	}
	return m
}

func (m *memoryStore) Append(_ context.Context, to Recipient, n *Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[to]; err != nil {
		return err
	}
	if _, ok := m.inboxes[to]; !ok {
		return apperrors.ErrNotFound
	}
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	m.inboxes[to] = append(m.inboxes[to], *n)
	return nil
}

func (m *memoryStore) List(_ context.Context, of Recipient, unreadOnly bool, page, limit int) ([]Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, total := paginate(m.inboxes[of], unreadOnly, page, limit)
	return items, total, nil
}

func (m *memoryStore) CountUnread(_ context.Context, of Recipient) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return countUnread(m.inboxes[of]), nil
}

func (m *memoryStore) MarkAsRead(_ context.Context, of Recipient, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.inboxes[of] {
		if m.inboxes[of][i].ID == id {
			now := time.Now()
			m.inboxes[of][i].Read = true
			m.inboxes[of][i].ReadAt = &now
			return nil
		}
	}
	return apperrors.New(apperrors.KindNotFound, "notification not found")
}

func (m *memoryStore) MarkAllAsRead(_ context.Context, of Recipient) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.inboxes[of] {
		if !m.inboxes[of][i].Read {
			m.inboxes[of][i].Read = true
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) inbox(r Recipient) []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.inboxes[r]...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func quietLogger() *logger.Logger {
	l := logger.New(logger.ERROR)
	l.SetOutput(io.Discard)
	return l
}

func newFanout(store Store, pub *recordingPublisher) (*Fanout, *detached.Runner) {
	runner := detached.NewRunner(time.Second, quietLogger())
	return NewFanout(store, runner, pub, quietLogger()), runner
}

func wait(t *testing.T, r *detached.Runner) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Wait(ctx))
}

var event = ReportEvent{
	ReportID:      "RPT-1",
	TrackingID:    "TRK-1",
	Category:      "Road",
	Priority:      "high",
	Department:    "ROAD_DEPT",
	ReporterName:  "Asha",
	ReporterEmail: "asha@example.com",
}

func TestReportSubmitted(t *testing.T) {
	user, dept, other := User("asha@example.com"), Department("ROAD_DEPT"), Department("WATER_DEPT")
	store := newMemoryStore(user, dept, other)
	pub := &recordingPublisher{}
	f, runner := newFanout(store, pub)

	f.ReportSubmitted(event)
	wait(t, runner)

	userInbox := store.inbox(user)
	require.Len(t, userInbox, 1)
	require.Equal(t, TypeReportSubmitted, userInbox[0].Type)
	require.Contains(t, userInbox[0].Message, "TRK-1")
	require.Equal(t, "TRK-1", userInbox[0].TrackingID)

	deptInbox := store.inbox(dept)
	require.Len(t, deptInbox, 1)
	require.Equal(t, TypeNewReport, deptInbox[0].Type)
	require.Equal(t, "high", deptInbox[0].Priority)
	require.Equal(t, "New Road report submitted by Asha. Tracking ID: TRK-1", deptInbox[0].Message)

	require.Empty(t, store.inbox(other))
	require.ElementsMatch(t, []string{"notification.report_submitted", "notification.new_report"}, pub.events)
}

func TestReportSubmittedWithoutDepartment(t *testing.T) {
	user := User("asha@example.com")
	store := newMemoryStore(user, Department("ROAD_DEPT"))
	f, runner := newFanout(store, &recordingPublisher{})

	ev := event
	ev.Department = ""
	f.ReportSubmitted(ev)
	wait(t, runner)

	require.Len(t, store.inbox(user), 1)
	require.Empty(t, store.inbox(Department("ROAD_DEPT")))
}

func TestStatusChanged(t *testing.T) {
	user, dept := User("asha@example.com"), Department("ROAD_DEPT")
	store := newMemoryStore(user, dept)
	f, runner := newFanout(store, &recordingPublisher{})

	f.StatusChanged(event, "submitted", "in_progress")
	wait(t, runner)

	require.Equal(t, "Your report (TRK-1) status has been updated from submitted to in_progress.", store.inbox(user)[0].Message)
	require.Equal(t, "Report TRK-1 status updated to in_progress.", store.inbox(dept)[0].Message)
}

func TestResolutionNotifications(t *testing.T) {
	user, dept := User("asha@example.com"), Department("ROAD_DEPT")
	store := newMemoryStore(user, dept)
	f, runner := newFanout(store, &recordingPublisher{})

	check := quality.QualityCheck{Status: quality.StatusPass, Confidence: 0.3, Summary: quality.Summary(quality.StatusPass)}
	f.ResolutionSubmitted(event, []string{"https://img/1.jpg"}, check)
	f.ResolutionReviewed(event, false, "still broken")
	wait(t, runner)

	pending := store.inbox(user)
	require.Len(t, pending, 1)
	require.Equal(t, TypeResolutionPending, pending[0].Type)
	require.Equal(t, []string{"https://img/1.jpg"}, pending[0].Photos)
	require.NotNil(t, pending[0].QualityCheck)
	require.Equal(t, quality.StatusPass, pending[0].QualityCheck.Status)

	rejected := store.inbox(dept)
	require.Len(t, rejected, 1)
	require.Equal(t, TypeResolutionRejected, rejected[0].Type)
	require.Contains(t, rejected[0].Message, "still broken")
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	user, dept := User("asha@example.com"), Department("ROAD_DEPT")
	store := newMemoryStore(user, dept)
	store.fail[dept] = errors.New("write conflict")

	pub := &recordingPublisher{}
	f, runner := newFanout(store, pub)

	var mu sync.Mutex
	var failed []string
	runner.OnFailure(func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, name)
	})

	f.ReportSubmitted(event)
	wait(t, runner)

	require.Len(t, store.inbox(user), 1)
	require.Equal(t, []string{"notify:new_report:ROAD_DEPT"}, failed)
	require.Equal(t, []string{"notification.report_submitted"}, pub.events)
}

func TestPaginate(t *testing.T) {
	base := time.Now()
	all := []Notification{
		{Type: "a", CreatedAt: base.Add(-3 * time.Minute)},
		{Type: "b", CreatedAt: base.Add(-1 * time.Minute), Read: true},
		{Type: "c", CreatedAt: base.Add(-2 * time.Minute)},
	}

	items, total := paginate(all, false, 1, 2)
	require.Equal(t, int64(3), total)
	require.Equal(t, "b", items[0].Type)
	require.Equal(t, "c", items[1].Type)

	items, total = paginate(all, true, 1, 10)
	require.Equal(t, int64(2), total)
	require.Equal(t, "c", items[0].Type)

	items, _ = paginate(all, false, 5, 10)
	require.Empty(t, items)
	require.Equal(t, int64(2), countUnread(all))
}

func TestInboxHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := User("asha@example.com")
	store := newMemoryStore(user)
	f, runner := newFanout(store, &recordingPublisher{})
	f.ReportSubmitted(ReportEvent{ReportID: "RPT-1", TrackingID: "TRK-1", ReporterEmail: "asha@example.com"})
	f.StatusChanged(ReportEvent{ReportID: "RPT-1", TrackingID: "TRK-1", ReporterEmail: "asha@example.com"}, "submitted", "in_progress")
	wait(t, runner)

	issuer := jwt.NewIssuer(jwt.DefaultConfig("secret", time.Hour))
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), store, middleware.Auth(issuer, ""))
	token, _, err := issuer.GenerateToken("asha@example.com", jwt.RoleCitizen, "login", "")
	require.NoError(t, err)

	do := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do("GET", "/api/v1/notifications?limit=10")
	require.Equal(t, 200, w.Code)
	var list struct {
		Data PaginatedNotificationsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data.Notifications, 2)
	require.Equal(t, int64(2), list.Data.Pagination.Total)

	id := list.Data.Notifications[0].ID.Hex()
	require.Equal(t, 200, do("PATCH", "/api/v1/notifications/"+id+"/read").Code)
	require.Equal(t, 400, do("PATCH", "/api/v1/notifications/not-an-id/read").Code)
	require.Equal(t, 404, do("PATCH", "/api/v1/notifications/"+primitive.NewObjectID().Hex()+"/read").Code)

	w = do("GET", "/api/v1/notifications/unread-count")
	var count struct {
		Data UnreadCountResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &count))
	require.Equal(t, int64(1), count.Data.UnreadCount)

	w = do("PATCH", "/api/v1/notifications/read-all")
	var all struct {
		Data MarkAllReadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Equal(t, int64(1), all.Data.MarkedCount)
}
