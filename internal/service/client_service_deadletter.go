package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/models"
)

// deadLetterService implements DeadLetterService.
type deadLetterService struct {
	deadLetters store.DeadLetterRepository
	queue       store.QueueRepository

	logger *logger.Logger
}

func NewDeadLetterService(deadLetters store.DeadLetterRepository, queue store.QueueRepository, logger *logger.Logger) DeadLetterService {
	return &deadLetterService{
		deadLetters: deadLetters,
		queue:       queue,
		logger:      logger,
	}
}

func (s *deadLetterService) List(ctx context.Context) ([]models.DeadLetterRecord, error) {
	return s.deadLetters.List(ctx)
}

// Requeue implements DeadLetterService. The reconstructed operation starts a
// fresh replay budget: AttemptCount is zero and the record enters at the
// queue tail.
func (s *deadLetterService) Requeue(ctx context.Context, id string) error {
	rec, err := s.deadLetters.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get dead letter: %w", err)
	}

	if err = s.queue.Enqueue(ctx, rec.Operation()); err != nil {
		return fmt.Errorf("requeue dead letter: %w", err)
	}

	if err = s.deadLetters.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete requeued dead letter: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("opID", rec.OperationID).
		Str("op", string(rec.Name)).
		Msg("dead letter requeued")

	return nil
}

func (s *deadLetterService) Discard(ctx context.Context, id string) error {
	if err := s.deadLetters.Delete(ctx, id); err != nil {
		return fmt.Errorf("discard dead letter: %w", err)
	}
	return nil
}
