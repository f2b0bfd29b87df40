package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"primariaPortal/internal/auth"
	"primariaPortal/internal/config"
	handlers "primariaPortal/internal/handler"
	"primariaPortal/internal/models"
	"primariaPortal/internal/service"
	"primariaPortal/internal/upload"
	"primariaPortal/internal/validation"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Me(ctx context.Context, caller *auth.Identity) (*models.User, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockAnnouncementService struct {
	mock.Mock
}

func (m *MockAnnouncementService) Create(ctx context.Context, caller *auth.Identity, req service.AnnouncementRequest, file *upload.TempFile) (*models.Announcement, error) {
	args := m.Called(ctx, caller, req, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) GetByID(ctx context.Context, id string, includeDrafts bool) (*models.Announcement, error) {
	args := m.Called(ctx, id, includeDrafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) Update(ctx context.Context, caller *auth.Identity, id string, patch service.AnnouncementPatch, file *upload.TempFile) (*models.Announcement, error) {
	args := m.Called(ctx, caller, id, patch, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) Delete(ctx context.Context, caller *auth.Identity, id string) error {
	return m.Called(ctx, caller, id).Error(0)
}

const allowedOrigin = "http://localhost:3000"

type fixture struct {
	gate          *auth.Gate
	authSvc       *MockAuthService
	announcements *MockAnnouncementService
	server        http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gate, err := auth.NewGate(config.Auth{
		JWTSecretKey:        "o-cheie-de-test-suficient-de-lunga-pentru-hs256",
		MinSecretLength:     32,
		AccessTokenDuration: time.Hour,
	})
	require.NoError(t, err)

	cfg := &config.Config{
		AllowedOrigins: []string{allowedOrigin},
		Uploads:        config.Uploads{Dir: t.TempDir(), MaxUploadSize: 64 << 10, MaxPostImages: 2},
	}

	f := &fixture{gate: gate, authSvc: new(MockAuthService), announcements: new(MockAnnouncementService)}
	h := &handlers.Handlers{
		AuthService:         f.authSvc,
		AnnouncementService: f.announcements,
		Cfg:                 cfg,
		Validate:            validation.New(),
	}
	f.server = New(h, gate, cfg)
	return f
}

func (f *fixture) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.server.ServeHTTP(rr, req)
	return rr
}

func TestAnnouncementLifecycle(t *testing.T) {
	f := newFixture(t)

	adminUser := &models.User{ID: "u1", Email: "admin@primaria.ro", Name: "Ana", Role: models.RoleAdmin}
	issued, err := f.gate.Issue(adminUser)
	require.NoError(t, err)
	f.authSvc.On("Login", mock.Anything, "admin@primaria.ro", "parola-sigura").Return(adminUser, issued, nil)

	// login
	rr := f.do(t, http.MethodPost, "/api/login", `{"email":"admin@primaria.ro","password":"parola-sigura"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var login handlers.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, models.RoleAdmin, login.User.Role)

	// create
	urgent := models.Announcement{ID: "a1", Title: "Întrerupere apă", Category: models.CategoryUrgent, IsPublished: true}
	f.announcements.On("Create", mock.Anything,
		mock.MatchedBy(func(id *auth.Identity) bool { return id.UserID == "u1" && id.Role.Is(models.RoleAdmin) }),
		mock.Anything, (*upload.TempFile)(nil)).
		Return(&urgent, nil)

	rr = f.do(t, http.MethodPost, "/api/announcements",
		`{"title":"Întrerupere apă","content":"Marți între orele 9 și 14.","category":"Urgent"}`, login.Token)
	require.Equal(t, http.StatusCreated, rr.Code)

	// list by category
	f.announcements.On("List", mock.Anything, models.AnnouncementFilter{Category: models.CategoryUrgent}).
		Return([]models.Announcement{urgent}, nil)

	rr = f.do(t, http.MethodGet, "/api/announcements?category=Urgent", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var listed []models.Announcement
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "a1", listed[0].ID)

	// delete without a token
	rr = f.do(t, http.MethodDelete, "/api/announcements/a1", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	f.announcements.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)

	f.authSvc.AssertExpectations(t)
	f.announcements.AssertExpectations(t)
}

func TestRouteGuards(t *testing.T) {
	f := newFixture(t)

	editorToken, err := f.gate.Issue(&models.User{ID: "u2", Email: "editor@primaria.ro", Role: models.RoleEditor})
	require.NoError(t, err)
	citizenToken, err := f.gate.Issue(&models.User{ID: "u3", Email: "ion@example.ro", Role: "CITIZEN"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		token    string
		expected int
	}{
		{name: "Editorul nu poate șterge anunțuri", method: http.MethodDelete, target: "/api/announcements/a1", token: editorToken, expected: http.StatusForbidden},
		{name: "Rol necunoscut nu poate publica", method: http.MethodPost, target: "/api/announcements", body: `{}`, token: citizenToken, expected: http.StatusForbidden},
		{name: "Lista utilizatorilor cere administrator", method: http.MethodGet, target: "/api/users", token: editorToken, expected: http.StatusForbidden},
		{name: "Ciornele cer autentificare", method: http.MethodGet, target: "/api/admin/announcements", expected: http.StatusUnauthorized},
		{name: "Token invalid pe ruta publică opțională", method: http.MethodGet, target: "/api/announcements/a1", token: "nu.e.jwt", expected: http.StatusUnauthorized},
		{name: "Rută inexistentă", method: http.MethodGet, target: "/api/posts", expected: http.StatusNotFound},
		{name: "Metodă nepermisă", method: http.MethodGet, target: "/api/documents/p1/like", expected: http.StatusMethodNotAllowed},
		{name: "Metodă nepermisă pe ruta de ștergere", method: http.MethodGet, target: "/api/documents/p1", expected: http.StatusMethodNotAllowed},
		{name: "Metodă nepermisă pe schimbarea rolului", method: http.MethodGet, target: "/api/users/u1/role", expected: http.StatusMethodNotAllowed},
		{name: "Metodă nepermisă pe autentificare", method: http.MethodGet, target: "/api/login", expected: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, tt.method, tt.target, tt.body, tt.token)

			assert.Equal(t, tt.expected, rr.Code)
			var resp handlers.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
		})
	}
}

func TestInvalidToken_ResponseHidesParserDetail(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodGet, "/api/announcements/a1", "", "nu.e.jwt")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	var resp handlers.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, auth.ErrInvalidCredential.Error(), resp.Message)
	assert.NotContains(t, rr.Body.String(), "malformed")
	f.announcements.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestPreflight(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		origin   string
		expected int
	}{
		{name: "Origine permisă", origin: allowedOrigin, expected: http.StatusNoContent},
		{name: "Origine permisă cu slash final", origin: allowedOrigin + "/", expected: http.StatusNoContent},
		{name: "Origine străină", origin: "https://evil.example", expected: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/documents/p1/like", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			req.Header.Set("Access-Control-Request-Headers", "X-Device-Id")
			rr := httptest.NewRecorder()

			f.server.ServeHTTP(rr, req)

			assert.Equal(t, tt.expected, rr.Code)
			if tt.expected == http.StatusNoContent {
				assert.Equal(t, tt.origin, rr.Header().Get("Access-Control-Allow-Origin"))
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "X-Device-Id")
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
