package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-keeper/internal/adapter"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/models"
)

// failingAuthAdapter wraps stubAdapter to fail Register/Login with a fixed
// error.
type failingAuthAdapter struct {
	stubAdapter
	err error
}

func (a *failingAuthAdapter) Register(_ context.Context, _ models.User) (models.User, error) {
	return models.User{}, a.err
}

func (a *failingAuthAdapter) Login(_ context.Context, _ models.User) (models.User, error) {
	return models.User{}, a.err
}

func TestClientAuthService_Login(t *testing.T) {
	svc := NewClientAuthService(&stubAdapter{}, logger.Nop())

	err := svc.Login(context.Background(), models.User{Login: "alisa", Password: "s3cret"})
	require.NoError(t, err)
}

func TestClientAuthService_EmptyCredentials(t *testing.T) {
	svc := NewClientAuthService(&stubAdapter{}, logger.Nop())

	assert.ErrorIs(t, svc.Login(context.Background(), models.User{Login: "alisa"}), ErrInvalidDataProvided)
	assert.ErrorIs(t, svc.Register(context.Background(), models.User{Password: "x"}), ErrInvalidDataProvided)
}

func TestClientAuthService_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		adapter error
		want    error
	}{
		{"unauthorized becomes wrong password", adapter.ErrUnauthorized, ErrWrongPassword},
		{"conflict becomes login taken", adapter.ErrConflict, store.ErrLoginAlreadyExists},
		{"bad request becomes invalid data", adapter.ErrBadRequest, ErrInvalidDataProvided},
		{"network becomes server unavailable", adapter.ErrNetwork, ErrServerUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewClientAuthService(&failingAuthAdapter{err: tt.adapter}, logger.Nop())

			assert.ErrorIs(t, svc.Login(context.Background(), models.User{Login: "a", Password: "b"}), tt.want)
			assert.ErrorIs(t, svc.Register(context.Background(), models.User{Login: "a", Password: "b"}), tt.want)
		})
	}
}
