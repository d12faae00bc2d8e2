package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/adapter"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

// clientAuthService implements ClientAuthService. The adapter keeps the
// bearer token returned by the server; this service only validates input and
// maps transport errors to business errors.
type clientAuthService struct {
	adapter adapter.ServerAdapter

	logger *logger.Logger
}

func NewClientAuthService(serverAdapter adapter.ServerAdapter, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		adapter: serverAdapter,
		logger:  logger,
	}
}

func (s *clientAuthService) Register(ctx context.Context, user models.User) error {
	if user.Login == "" || user.Password == "" {
		return ErrInvalidDataProvided
	}

	if _, err := s.adapter.Register(ctx, user); err != nil {
		return fmt.Errorf("register on server: %w", mapAdapterError(err))
	}

	return nil
}

func (s *clientAuthService) Login(ctx context.Context, user models.User) error {
	if user.Login == "" || user.Password == "" {
		return ErrInvalidDataProvided
	}

	if _, err := s.adapter.Login(ctx, user); err != nil {
		return fmt.Errorf("login on server: %w", mapAdapterError(err))
	}

	return nil
}
