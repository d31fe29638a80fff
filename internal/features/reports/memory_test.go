package reports

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xyz-asif/civic-connect/internal/features/notifications"
	"github.com/xyz-asif/civic-connect/internal/features/quality"
	"github.com/xyz-asif/civic-connect/internal/pkg/pagination"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
)

// memoryStore keeps reports as JSON-shaped documents and applies Change the way
// the Mongo update operators would.
type memoryStore struct {
	mu   sync.Mutex
	docs map[string]map[string]interface{}

	createErrs []error
	creates    int
	conflicts  int
	updates    []Change
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: map[string]map[string]interface{}{}}
}

func toDoc(v interface{}) map[string]interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		panic(err)
	}
	return doc
}

func normalize(v interface{}) interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

func fromDoc(doc map[string]interface{}) *Report {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var r Report
	if err := json.Unmarshal(raw, &r); err != nil {
		panic(err)
	}
	return &r
}

func parentOf(doc map[string]interface{}, path string) (map[string]interface{}, string) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[p] = next
		}
		cur = next
	}
	return cur, parts[len(parts)-1]
}

func (m *memoryStore) Create(_ context.Context, r *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, doc := range m.docs {
		if doc["reportId"] == r.ReportID || doc["trackingCode"] == r.TrackingCode {
			return ErrDuplicateReportID
		}
	}
	m.docs[r.ReportID] = toDoc(r)
	return nil
}

func (m *memoryStore) FindByReportID(_ context.Context, id string) (*Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "report not found")
	}
	return fromDoc(doc), nil
}

func (m *memoryStore) FindByTrackingCode(_ context.Context, code string) (*Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.docs {
		if doc["trackingCode"] == code {
			return fromDoc(doc), nil
		}
	}
	return nil, apperrors.New(apperrors.KindNotFound, "report not found")
}

func (m *memoryStore) Update(_ context.Context, id string, version int64, ch Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "report not found")
	}
	if m.conflicts > 0 {
		m.conflicts--
		doc["version"] = doc["version"].(float64) + 1
		return ErrVersionConflict
	}
	if int64(doc["version"].(float64)) != version {
		return ErrVersionConflict
	}

	for path, v := range ch.Set {
		parent, key := parentOf(doc, path)
		parent[key] = normalize(v)
	}
	for path, v := range ch.Push {
		parent, key := parentOf(doc, path)
		arr, _ := parent[key].([]interface{})
		parent[key] = append(arr, normalize(v))
	}
	doc["version"] = doc["version"].(float64) + 1
	m.updates = append(m.updates, ch)
	return nil
}

func (m *memoryStore) filter(match func(*Report) bool, req pagination.Request) ([]Report, int64) {
	var all []Report
	for _, doc := range m.docs {
		if r := fromDoc(doc); match(r) {
			all = append(all, *r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SubmittedAt.After(all[j].SubmittedAt) })

	total := int64(len(all))
	start := req.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + req.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total
}

func (m *memoryStore) ListByReporter(_ context.Context, email string, req pagination.Request) ([]Report, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, total := m.filter(func(r *Report) bool { return r.Reporter.Email == email }, req)
	return items, total, nil
}

func (m *memoryStore) ListByDepartment(_ context.Context, dept, status string, req pagination.Request) ([]Report, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, total := m.filter(func(r *Report) bool {
		return r.Department() == dept && (status == "" || r.Status == status)
	}, req)
	return items, total, nil
}

func (m *memoryStore) List(_ context.Context, status, priority string, req pagination.Request) ([]Report, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, total := m.filter(func(r *Report) bool {
		return (status == "" || r.Status == status) && (priority == "" || r.Priority == priority)
	}, req)
	return items, total, nil
}

func (m *memoryStore) DailySummary(_ context.Context, dept string, since time.Time) ([]DayCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[[2]string]int64{}
	for _, doc := range m.docs {
		r := fromDoc(doc)
		if r.Department() != dept || r.SubmittedAt.Before(since) {
			continue
		}
		counts[[2]string{r.SubmittedAt.UTC().Format("2006-01-02"), r.Status}]++
	}
	out := make([]DayCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, DayCount{Day: k[0], Status: k[1], Count: n})
	}
	return out, nil
}

func (m *memoryStore) React(_ context.Context, id, email string, like bool) (ReactionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return ReactionSummary{}, apperrors.New(apperrors.KindNotFound, "report not found")
	}
	add, remove := "likes", "dislikes"
	if !like {
		add, remove = remove, add
	}

	kept := []interface{}{}
	for _, v := range asSlice(doc[remove]) {
		if v != email {
			kept = append(kept, v)
		}
	}
	doc[remove] = kept

	set := asSlice(doc[add])
	present := false
	for _, v := range set {
		present = present || v == email
	}
	if !present {
		set = append(set, email)
	}
	doc[add] = set

	return ReactionSummary{Likes: len(asSlice(doc["likes"])), Dislikes: len(asSlice(doc["dislikes"]))}, nil
}

func (m *memoryStore) AddComment(_ context.Context, id string, c Comment) ([]Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "report not found")
	}
	doc["comments"] = append(asSlice(doc["comments"]), normalize(c))
	return fromDoc(doc).Comments, nil
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

type notifyCall struct {
	Kind     string
	Event    notifications.ReportEvent
	From, To string
	Photos   []string
	Check    quality.QualityCheck
	Approved bool
	Reason   string
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (n *recordingNotifier) record(c notifyCall) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, c)
}

func (n *recordingNotifier) ReportSubmitted(ev notifications.ReportEvent) {
	n.record(notifyCall{Kind: "submitted", Event: ev})
}

func (n *recordingNotifier) StatusChanged(ev notifications.ReportEvent, from, to string) {
	n.record(notifyCall{Kind: "status", Event: ev, From: from, To: to})
}

func (n *recordingNotifier) ResolutionSubmitted(ev notifications.ReportEvent, photos []string, check quality.QualityCheck) {
	n.record(notifyCall{Kind: "resolution", Event: ev, Photos: photos, Check: check})
}

func (n *recordingNotifier) ResolutionReviewed(ev notifications.ReportEvent, approved bool, reason string) {
	n.record(notifyCall{Kind: "reviewed", Event: ev, Approved: approved, Reason: reason})
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.calls))
	for i, c := range n.calls {
		out[i] = c.Kind
	}
	return out
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = nil
}
