package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"livechat-backend/internal/middleware"
	"livechat-backend/internal/model"
	"livechat-backend/internal/repository"
	"livechat-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAdminStore struct {
	mu     sync.Mutex
	admins map[string]model.Admin
}

func (s *memAdminStore) Create(_ context.Context, admin *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[admin.Email] = *admin
	return nil
}

func (s *memAdminStore) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, ok := s.admins[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &admin, nil
}

const testJWTSecret = "test-secret"

func newAuthApp() *fiber.App {
	authSvc := service.NewAuthService(&memAdminStore{admins: make(map[string]model.Admin)}, testJWTSecret)
	h := NewAuthHandler(authSvc)

	app := fiber.New()
	admin := app.Group("/api/admin")
	admin.Post("/register", h.Register)
	admin.Post("/login", h.Login)
	admin.Get("/me", middleware.Auth(testJWTSecret), h.Me)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestAdminRegisterThenLogin(t *testing.T) {
	app := newAuthApp()

	status, body := doJSON(t, app, "POST", "/api/admin/register",
		`{"email":"admin@example.com","password":"secret123"}`, nil)
	assert.Equal(t, 201, status)
	assert.Equal(t, "Admin registered successfully", body["message"])

	status, body = doJSON(t, app, "POST", "/api/admin/login",
		`{"email":"admin@example.com","password":"secret123"}`, nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	admin, ok := body["admin"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", admin["email"])
}

func TestAdminRegisterDuplicateIs400(t *testing.T) {
	app := newAuthApp()

	status, _ := doJSON(t, app, "POST", "/api/admin/register",
		`{"email":"admin@example.com","password":"secret123"}`, nil)
	require.Equal(t, 201, status)

	status, body := doJSON(t, app, "POST", "/api/admin/register",
		`{"email":"admin@example.com","password":"secret123"}`, nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Admin already exists", body["error"])
}

func TestAdminLoginFailureIsGeneric401(t *testing.T) {
	app := newAuthApp()

	status, _ := doJSON(t, app, "POST", "/api/admin/register",
		`{"email":"admin@example.com","password":"secret123"}`, nil)
	require.Equal(t, 201, status)

	status, wrongPassword := doJSON(t, app, "POST", "/api/admin/login",
		`{"email":"admin@example.com","password":"wrong"}`, nil)
	assert.Equal(t, 401, status)

	status, unknownEmail := doJSON(t, app, "POST", "/api/admin/login",
		`{"email":"nobody@example.com","password":"secret123"}`, nil)
	assert.Equal(t, 401, status)

	// Same body for unknown user and wrong password
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.Equal(t, "Invalid credentials", wrongPassword["error"])
}

func TestAdminMeRequiresToken(t *testing.T) {
	app := newAuthApp()

	status, _ := doJSON(t, app, "GET", "/api/admin/me", "", nil)
	assert.Equal(t, 401, status)

	_, _ = doJSON(t, app, "POST", "/api/admin/register",
		`{"email":"admin@example.com","password":"secret123"}`, nil)
	_, login := doJSON(t, app, "POST", "/api/admin/login",
		`{"email":"admin@example.com","password":"secret123"}`, nil)
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	status, me := doJSON(t, app, "GET", "/api/admin/me", "", map[string]string{
		"Authorization": "Bearer " + token,
	})
	assert.Equal(t, 200, status)
	assert.Equal(t, "admin@example.com", me["email"])
}
