// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/internal/validators"
	"github.com/MKhiriev/go-note-keeper/models"
)

// syncService implements SyncService over the server entity, reference, and
// sync-marker repositories.
type syncService struct {
	entities    entityStore
	references  store.ReferenceRepository
	syncMarkers store.SyncMarkerRepository
	validator   validators.Validator

	logger *logger.Logger
}

func NewSyncService(entities entityStore, references store.ReferenceRepository, syncMarkers store.SyncMarkerRepository, logger *logger.Logger) SyncService {
	return &syncService{
		entities:    entities,
		references:  references,
		syncMarkers: syncMarkers,
		validator:   validators.NewEntityValidator(),
		logger:      logger,
	}
}

// Reconcile implements SyncService.
//
// Every record of the batch is arbitrated independently, items first, then
// tasks, then journal entries, preserving the order within each group. A
// record that fails validation, loses arbitration, or hits a storage error
// produces a rejected result; the rest of the batch still runs.
//
// The user's sync marker advances to the batch completion timestamp no matter
// how many records were rejected: rejected records are data outcomes the
// client consumes, not reasons to replay the batch.
func (s *syncService) Reconcile(ctx context.Context, userID int64, req models.ReconcileRequest) (models.ReconcileResponse, error) {
	log := logger.FromContext(ctx)

	groups := []struct {
		entityType models.EntityType
		records    []models.Entity
	}{
		{models.EntityItems, req.Items},
		{models.EntityTasks, req.Tasks},
		{models.EntityJournal, req.Journal},
	}

	success := true
	results := make([]models.ReconcileResult, 0, req.Len())
	for _, group := range groups {
		for _, record := range group.records {
			result := s.reconcileOne(ctx, userID, group.entityType, record)
			if !result.Success {
				success = false
			}
			results = append(results, result)
		}
	}

	serverTimestamp := time.Now().UnixMilli()
	if err := s.syncMarkers.Advance(ctx, userID, serverTimestamp); err != nil {
		// The batch outcome stands even when the marker write fails; the
		// marker is a bookkeeping hint, not part of arbitration.
		log.Err(err).Int64("userID", userID).Msg("sync marker advance failed")
	}

	return models.ReconcileResponse{
		Success:         success,
		Results:         results,
		ServerTimestamp: serverTimestamp,
	}, nil
}

// reconcileOne arbitrates a single record with last-write-wins semantics:
// absent → insert; stored clock >= incoming clock → reject "server_newer"
// (ties go to the server, nothing is mutated); otherwise overwrite.
func (s *syncService) reconcileOne(ctx context.Context, userID int64, entityType models.EntityType, record models.Entity) models.ReconcileResult {
	log := logger.FromContext(ctx)

	result := models.ReconcileResult{Type: entityType, ID: record.ID}

	record.UserID = userID
	record.Type = entityType

	if err := s.validator.Validate(ctx, record, validators.FieldID, validators.FieldUpdatedAt); err != nil {
		result.Reason = models.ReasonInvalidRecord
		return result
	}

	stored, err := s.entities.GetByID(ctx, entityType, record.ID, userID)
	switch {
	case errors.Is(err, store.ErrEntityNotFound):
		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now()
		}
		if insertErr := s.entities.Insert(ctx, record); insertErr != nil {
			log.Err(insertErr).Str("id", record.ID).Msg("entity insert failed")
			result.Reason = models.ReasonStorageError
			return result
		}

	case err != nil:
		log.Err(err).Str("id", record.ID).Msg("entity lookup failed")
		result.Reason = models.ReasonStorageError
		return result

	case stored.UpdatedAt >= record.UpdatedAt:
		result.Reason = models.ReasonServerNewer
		return result

	default:
		if updateErr := s.entities.Update(ctx, record); updateErr != nil {
			log.Err(updateErr).Str("id", record.ID).Msg("entity update failed")
			result.Reason = models.ReasonStorageError
			return result
		}
	}

	result.Success = true
	return result
}

// Snapshot implements SyncService. Soft-deleted records are included so that
// a client refreshing after a long offline period learns about deletions too.
func (s *syncService) Snapshot(ctx context.Context, userID int64) (models.SnapshotResponse, error) {
	entities, err := s.entities.GetAllByUser(ctx, userID, store.EntityFilter{IncludeDeleted: true})
	if err != nil {
		return models.SnapshotResponse{}, fmt.Errorf("get user entities: %w", err)
	}

	tags, err := s.references.GetTags(ctx, userID)
	if err != nil {
		return models.SnapshotResponse{}, fmt.Errorf("get user tags: %w", err)
	}

	categories, err := s.references.GetCategories(ctx, userID)
	if err != nil {
		return models.SnapshotResponse{}, fmt.Errorf("get user categories: %w", err)
	}

	snapshot := models.SnapshotResponse{
		Tags:            tags,
		Categories:      categories,
		ServerTimestamp: time.Now().UnixMilli(),
	}
	for _, entity := range entities {
		switch entity.Type {
		case models.EntityItems:
			snapshot.Items = append(snapshot.Items, entity)
		case models.EntityTasks:
			snapshot.Tasks = append(snapshot.Tasks, entity)
		case models.EntityJournal:
			snapshot.Journal = append(snapshot.Journal, entity)
		}
	}

	return snapshot, nil
}

// GetEntity implements SyncService.
func (s *syncService) GetEntity(ctx context.Context, userID int64, entityType models.EntityType, id string) (models.Entity, error) {
	if !entityType.Valid() {
		return models.Entity{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}
	if id == "" {
		return models.Entity{}, ErrInvalidDataProvided
	}

	entity, err := s.entities.GetByID(ctx, entityType, id, userID)
	if err != nil {
		return models.Entity{}, fmt.Errorf("get entity %s/%s: %w", entityType, id, err)
	}

	return entity, nil
}

// LastSyncMarker implements SyncService.
func (s *syncService) LastSyncMarker(ctx context.Context, userID int64) (int64, error) {
	marker, err := s.syncMarkers.Get(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get sync marker: %w", err)
	}
	return marker, nil
}
