package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/crypto"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/models"
)

// stubUserRepository is an in-memory store.UserRepository.
type stubUserRepository struct {
	users  map[string]models.User
	nextID int64
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{users: make(map[string]models.User), nextID: 1}
}

func (r *stubUserRepository) CreateUser(_ context.Context, user models.User) (models.User, error) {
	if _, ok := r.users[user.Login]; ok {
		return models.User{}, store.ErrLoginAlreadyExists
	}
	user.UserID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.users[user.Login] = user
	return user, nil
}

func (r *stubUserRepository) FindUserByLogin(_ context.Context, user models.User) (models.User, error) {
	found, ok := r.users[user.Login]
	if !ok {
		return models.User{}, store.ErrNoUserWasFound
	}
	return found, nil
}

func newTestAuthService(t *testing.T) (AuthService, *stubUserRepository) {
	t.Helper()

	repo := newStubUserRepository()
	cfg := config.App{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "go-note-keeper",
		TokenDuration: time.Hour,
	}
	return NewAuthService(repo, crypto.NewPasswordHasher(), cfg, logger.Nop()), repo
}

func TestAuthService_RegisterUser(t *testing.T) {
	svc, repo := newTestAuthService(t)

	user, err := svc.RegisterUser(context.Background(), models.User{Login: "alisa", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.UserID)

	stored := repo.users["alisa"]
	assert.Empty(t, stored.Password, "plaintext password must not be persisted")
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)

	ok, err := crypto.NewPasswordHasher().Verify("s3cret", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthService_RegisterUser_EmptyCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.RegisterUser(context.Background(), models.User{Login: "alisa"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.RegisterUser(context.Background(), models.User{Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_RegisterUser_LoginTaken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.RegisterUser(context.Background(), models.User{Login: "alisa", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.RegisterUser(context.Background(), models.User{Login: "alisa", Password: "other"})
	assert.ErrorIs(t, err, store.ErrLoginAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.RegisterUser(context.Background(), models.User{Login: "alisa", Password: "s3cret"})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), models.User{Login: "alisa", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.RegisterUser(context.Background(), models.User{Login: "alisa", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.User{Login: "alisa", Password: "wrong"})
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), models.User{Login: "ghost", Password: "s3cret"})
	assert.True(t, errors.Is(err, store.ErrNoUserWasFound))
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService(t)

	token, err := svc.CreateToken(context.Background(), models.User{UserID: 42})
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(context.Background(), token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
}

func TestAuthService_ParseToken_Garbage(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.ParseToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
