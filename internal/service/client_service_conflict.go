// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/adapter"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/models"
)

// conflictService implements ConflictService over the durable conflict
// ledger. Resolutions that keep or merge the local side re-enter the sync
// path through the coordinator; keeping the server side is purely local.
type conflictService struct {
	conflicts   store.ConflictRepository
	entities    store.LocalEntityRepository
	adapter     adapter.ServerAdapter
	monitor     ConnectivityMonitor
	coordinator SyncCoordinator

	logger *logger.Logger
}

func NewConflictService(conflicts store.ConflictRepository, entities store.LocalEntityRepository, serverAdapter adapter.ServerAdapter, monitor ConnectivityMonitor, coordinator SyncCoordinator, logger *logger.Logger) ConflictService {
	return &conflictService{
		conflicts:   conflicts,
		entities:    entities,
		adapter:     serverAdapter,
		monitor:     monitor,
		coordinator: coordinator,
		logger:      logger,
	}
}

func (s *conflictService) List(ctx context.Context) ([]models.ConflictRecord, error) {
	return s.conflicts.List(ctx)
}

// Resolve implements ConflictService. Whatever the choice, the ledger entry
// is removed exactly once, after the chosen side has been applied.
func (s *conflictService) Resolve(ctx context.Context, id string, choice models.Resolution, merged models.MergePatch) error {
	if !choice.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidResolution, choice)
	}

	rec, err := s.conflicts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get conflict record: %w", err)
	}

	switch choice {
	case models.ResolutionKeepLocal:
		err = s.pushLocal(ctx, rec, rec.LocalTitle, rec.LocalContent)
	case models.ResolutionKeepServer:
		err = s.adoptServer(ctx, rec)
	case models.ResolutionMerge:
		err = s.pushLocal(ctx, rec, merged.Title, merged.Content)
	}
	if err != nil {
		return err
	}

	if err = s.conflicts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete conflict record: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("conflictID", id).
		Str("entityID", rec.EntityID).
		Str("choice", string(choice)).
		Msg("conflict resolved")

	return nil
}

// pushLocal turns the kept (or merged) text into a new authoritative write:
// the record gets a conflict clock strictly greater than the server's winning
// one, so the re-push wins arbitration instead of bouncing back into the
// ledger.
func (s *conflictService) pushLocal(ctx context.Context, rec models.ConflictRecord, title, content string) error {
	entity, err := s.entities.Get(ctx, rec.EntityType, rec.EntityID)
	if err != nil {
		// The cached copy may be gone (e.g. snapshot refresh adopted a server
		// delete); rebuild the record from the ledger entry.
		entity = models.Entity{
			ID:        rec.EntityID,
			Type:      rec.EntityType,
			CreatedAt: rec.CreatedAt,
		}
	}

	entity.Title = title
	entity.Content = content
	entity.Deleted = false
	entity.UpdatedAt = winningClock(rec.ServerUpdatedAt)

	if err = s.entities.Upsert(ctx, entity); err != nil {
		return fmt.Errorf("local write of resolved entity: %w", err)
	}

	op, err := models.NewOperation(utils.NewID(), operationName(rec.EntityType, "update"), entity)
	if err != nil {
		return err
	}

	if _, err = s.coordinator.RunOrQueueMutation(ctx, op); err != nil {
		return fmt.Errorf("push resolved entity: %w", err)
	}

	return nil
}

// adoptServer overwrites the local row with the server's winning copy. No
// remote write is issued. When the server is reachable the full record is
// fetched so collection-specific attributes survive; otherwise the copy
// captured in the ledger entry is used.
func (s *conflictService) adoptServer(ctx context.Context, rec models.ConflictRecord) error {
	entity := models.Entity{
		ID:        rec.EntityID,
		Type:      rec.EntityType,
		Title:     rec.ServerTitle,
		Content:   rec.ServerContent,
		UpdatedAt: rec.ServerUpdatedAt,
		CreatedAt: rec.CreatedAt,
	}

	if s.monitor.IsOnline() {
		serverCopy, err := s.adapter.FetchEntity(ctx, rec.EntityType, rec.EntityID)
		if err == nil {
			entity = serverCopy
		} else {
			logger.FromContext(ctx).Err(err).
				Str("entityID", rec.EntityID).
				Msg("fetch of server copy failed, adopting ledger copy")
		}
	}

	if err := s.entities.Upsert(ctx, entity); err != nil {
		return fmt.Errorf("adopt server copy: %w", err)
	}

	return nil
}

// winningClock returns a unix-millisecond timestamp strictly greater than the
// server's winning clock.
func winningClock(serverUpdatedAt int64) int64 {
	now := time.Now().UnixMilli()
	if now <= serverUpdatedAt {
		return serverUpdatedAt + 1
	}
	return now
}
