package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/models"
)

// clientEntityService implements ClientEntityService. Reads are served from
// the local cache; every mutation is applied locally first and then handed to
// the coordinator, which either pushes it to the server or queues it.
type clientEntityService struct {
	entities    store.LocalEntityRepository
	coordinator SyncCoordinator

	logger *logger.Logger
}

func NewClientEntityService(entities store.LocalEntityRepository, coordinator SyncCoordinator, logger *logger.Logger) ClientEntityService {
	return &clientEntityService{
		entities:    entities,
		coordinator: coordinator,
		logger:      logger,
	}
}

// Create implements ClientEntityService. The record gets a client-generated
// UUID and a fresh conflict clock before it is stored and pushed.
func (s *clientEntityService) Create(ctx context.Context, entityType models.EntityType, title, content string, extra models.ExtraFields) (models.Entity, models.MutationResult, error) {
	if !entityType.Valid() {
		return models.Entity{}, models.MutationResult{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}

	now := time.Now()
	entity := models.Entity{
		ID:        utils.NewID(),
		Type:      entityType,
		Title:     title,
		Content:   content,
		Extra:     extra,
		CreatedAt: now,
		UpdatedAt: now.UnixMilli(),
	}

	result, err := s.mutate(ctx, operationName(entityType, "create"), entity)
	if err != nil {
		return models.Entity{}, models.MutationResult{}, err
	}

	return entity, result, nil
}

// Update implements ClientEntityService. The conflict clock is advanced here
// so that callers never push a stale timestamp.
func (s *clientEntityService) Update(ctx context.Context, entity models.Entity) (models.MutationResult, error) {
	if !entity.Type.Valid() || entity.ID == "" {
		return models.MutationResult{}, ErrInvalidDataProvided
	}

	entity.UpdatedAt = freshClock(entity.UpdatedAt)

	return s.mutate(ctx, operationName(entity.Type, "update"), entity)
}

// Delete implements ClientEntityService. Deletes are soft: the record stays
// in the cache with Deleted set, and the tombstone travels through the same
// arbitration path as any other write.
func (s *clientEntityService) Delete(ctx context.Context, entityType models.EntityType, id string) (models.MutationResult, error) {
	entity, err := s.entities.Get(ctx, entityType, id)
	if err != nil {
		return models.MutationResult{}, fmt.Errorf("get entity for delete: %w", err)
	}

	entity.Deleted = true
	entity.UpdatedAt = freshClock(entity.UpdatedAt)

	return s.mutate(ctx, operationName(entityType, "delete"), entity)
}

func (s *clientEntityService) Get(ctx context.Context, entityType models.EntityType, id string) (models.Entity, error) {
	return s.entities.Get(ctx, entityType, id)
}

func (s *clientEntityService) List(ctx context.Context, entityType models.EntityType) ([]models.Entity, error) {
	return s.entities.GetAll(ctx, entityType)
}

// mutate persists the entity locally and hands a validated operation to the
// coordinator. The local write happens first: whatever the network does, the
// user's edit is already durable.
func (s *clientEntityService) mutate(ctx context.Context, name models.OperationName, entity models.Entity) (models.MutationResult, error) {
	op, err := models.NewOperation(utils.NewID(), name, entity)
	if err != nil {
		return models.MutationResult{}, err
	}

	if err = s.entities.Upsert(ctx, entity); err != nil {
		return models.MutationResult{}, fmt.Errorf("local write: %w", err)
	}

	result, err := s.coordinator.RunOrQueueMutation(ctx, op)
	if err != nil {
		return models.MutationResult{}, err
	}

	return result, nil
}

func operationName(entityType models.EntityType, action string) models.OperationName {
	return models.OperationName(fmt.Sprintf("%s.%s", entityType, action))
}

// freshClock returns a unix-millisecond timestamp strictly greater than prev,
// guarding against wall clocks that have not ticked since the last write.
func freshClock(prev int64) int64 {
	now := time.Now().UnixMilli()
	if now <= prev {
		return prev + 1
	}
	return now
}
