package service

import (
	"context"
	"sync"
	"testing"

	"livechat-backend/internal/model"
	"livechat-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminStore struct {
	mu     sync.Mutex
	admins map[string]model.Admin
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: make(map[string]model.Admin)}
}

func (f *fakeAdminStore) Create(_ context.Context, admin *model.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admins[admin.Email] = *admin
	return nil
}

func (f *fakeAdminStore) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	admin, ok := f.admins[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &admin, nil
}

func TestRegisterAndLoginRoundtrip(t *testing.T) {
	svc := NewAuthService(newFakeAdminStore(), "test-secret")

	admin, err := svc.Register(context.Background(), "Admin@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.NotEmpty(t, admin.ID)
	assert.NotEqual(t, "secret123", admin.PasswordHash)

	token, loggedIn, err := svc.Login(context.Background(), "admin@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, admin.ID, loggedIn.ID)

	adminID, email, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, adminID)
	assert.Equal(t, "admin@example.com", email)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := NewAuthService(newFakeAdminStore(), "test-secret")

	_, err := svc.Register(context.Background(), "admin@example.com", "secret123")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(context.Background(), "admin@example.com", "wrong")
	_, _, unknownEmail := svc.Login(context.Background(), "nobody@example.com", "secret123")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeAdminStore(), "test-secret")

	_, err := svc.Register(context.Background(), "admin@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "admin@example.com", "different456")
	assert.ErrorIs(t, err, ErrAdminExists)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := NewAuthService(newFakeAdminStore(), "test-secret")

	_, err := svc.Register(context.Background(), "admin@example.com", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	svc := NewAuthService(newFakeAdminStore(), "test-secret")

	_, err := svc.Register(context.Background(), "admin@example.com", "secret123")
	require.NoError(t, err)
	token, _, err := svc.Login(context.Background(), "admin@example.com", "secret123")
	require.NoError(t, err)

	_, _, err = svc.ValidateAccessToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(newFakeAdminStore(), "other-secret")
	_, _, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
