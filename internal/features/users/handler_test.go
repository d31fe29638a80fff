package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
	apperrors "github.com/xyz-asif/civic-connect/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

type memoryStore struct {
	mu    sync.Mutex
	users map[string]*User
}

func (m *memoryStore) Exists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[NormalizeEmail(email)]
	return ok, nil
}

func (m *memoryStore) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := NormalizeEmail(u.Email)
	if _, ok := m.users[key]; ok {
		return apperrors.ErrAccountConflict
	}
	u.Email = key
	m.users[key] = u
	return nil
}

func (m *memoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[NormalizeEmail(email)]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return u, nil
}

func (m *memoryStore) UpdateProfile(_ context.Context, email string, fields bson.M) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[NormalizeEmail(email)]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "avatar":
			u.Avatar = v.(string)
		}
	}
	u.UpdatedAt = time.Now().UTC()
	return u, nil
}

func TestGetMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &memoryStore{users: map[string]*User{}}
	require.NoError(t, store.Create(context.Background(), &User{Name: "Asha", Email: "Asha@Example.com"}))

	issuer := jwt.NewIssuer(jwt.DefaultConfig("secret", time.Hour))
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), store, middleware.Auth(issuer, ""))

	token, _, err := issuer.GenerateToken("asha@example.com", jwt.RoleCitizen, "login", "")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var body struct {
		Data ProfileResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Asha", body.Data.Name)
	require.Equal(t, "asha@example.com", body.Data.Email)

	deptToken, _, err := issuer.GenerateToken("ROAD_DEPT", jwt.RoleDepartment, "session", "ROAD_DEPT")
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+deptToken)
	r.ServeHTTP(w, req)
	require.Equal(t, 403, w.Code)
}

func TestUpdateMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &memoryStore{users: map[string]*User{}}
	require.NoError(t, store.Create(context.Background(), &User{Name: "Asha", Email: "asha@example.com", Phone: "+919876543210"}))

	issuer := jwt.NewIssuer(jwt.DefaultConfig("secret", time.Hour))
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), store, middleware.Auth(issuer, ""))

	token, _, err := issuer.GenerateToken("asha@example.com", jwt.RoleCitizen, "login", "")
	require.NoError(t, err)

	put := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/api/v1/users/me", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		return w
	}

	w := put(`{"name": " Asha Rao ", "avatar": "https://cdn.example.com/asha.png"}`)
	require.Equal(t, 200, w.Code, w.Body.String())
	var body struct {
		Data ProfileResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Asha Rao", body.Data.Name)
	require.Equal(t, "https://cdn.example.com/asha.png", body.Data.Avatar)
	require.Equal(t, "+919876543210", body.Data.Phone)

	require.Equal(t, 400, put(`{"name": "A"}`).Code)
	require.Equal(t, 400, put(`{"phone": "call me"}`).Code)
	require.Equal(t, 400, put(`{}`).Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/api/v1/users/me", bytes.NewBufferString(`{"phone": ""}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)
	u, err := store.FindByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	require.Empty(t, u.Phone)
	require.Equal(t, "Asha Rao", u.Name)
}

func TestValidateProfileUpdate(t *testing.T) {
	long := "Abcdefghij Abcdefghij Abcdefghij Abcdefghij Abcdefghij"
	_, err := ValidateProfileUpdate(&UpdateProfileRequest{Name: &long})
	require.Error(t, err)

	name := "Ravi"
	fields, err := ValidateProfileUpdate(&UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, bson.M{"name": "Ravi"}, fields)
}
