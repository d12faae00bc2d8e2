// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/service"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSyncService implements service.SyncService for unit tests.
type mockSyncService struct {
	reconcileFn      func(ctx context.Context, userID int64, req models.ReconcileRequest) (models.ReconcileResponse, error)
	snapshotFn       func(ctx context.Context, userID int64) (models.SnapshotResponse, error)
	getEntityFn      func(ctx context.Context, userID int64, entityType models.EntityType, id string) (models.Entity, error)
	lastSyncMarkerFn func(ctx context.Context, userID int64) (int64, error)
}

func (m *mockSyncService) Reconcile(ctx context.Context, userID int64, req models.ReconcileRequest) (models.ReconcileResponse, error) {
	return m.reconcileFn(ctx, userID, req)
}

func (m *mockSyncService) Snapshot(ctx context.Context, userID int64) (models.SnapshotResponse, error) {
	return m.snapshotFn(ctx, userID)
}

func (m *mockSyncService) GetEntity(ctx context.Context, userID int64, entityType models.EntityType, id string) (models.Entity, error) {
	return m.getEntityFn(ctx, userID, entityType, id)
}

func (m *mockSyncService) LastSyncMarker(ctx context.Context, userID int64) (int64, error) {
	return m.lastSyncMarkerFn(ctx, userID)
}

// newHandlerWithSync builds a Handler with the given SyncService mock.
func newHandlerWithSync(t *testing.T, sync service.SyncService) *Handler {
	t.Helper()
	svcs := &service.Services{
		AppInfoService: &mockAppInfoService{version: "test"},
		SyncService:    sync,
	}
	return NewHandler(svcs, logger.Nop())
}

// authedRequest builds a request whose context carries an authenticated
// user ID, the way the auth middleware injects it.
func authedRequest(t *testing.T, method, target, body string, userID int64) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), utils.UserIDCtxKey, userID)
	return req.WithContext(ctx)
}

// reconcileBody serialises a models.ReconcileRequest to JSON.
func reconcileBody(t *testing.T, req models.ReconcileRequest) string {
	t.Helper()
	b, err := json.Marshal(req)
	require.NoError(t, err)
	return string(b)
}

// TestReconcile_Success verifies that a valid batch is forwarded to the
// service with the authenticated user's ID and the per-record outcomes are
// returned as JSON.
func TestReconcile_Success(t *testing.T) {
	const userID int64 = 42

	batch := models.ReconcileRequest{
		Items: []models.Entity{{ID: "n-1", Type: models.EntityItems, Title: "groceries", UpdatedAt: 100}},
		Tasks: []models.Entity{{ID: "t-1", Type: models.EntityTasks, Title: "call plumber", UpdatedAt: 200}},
	}

	sync := &mockSyncService{
		reconcileFn: func(_ context.Context, gotUserID int64, req models.ReconcileRequest) (models.ReconcileResponse, error) {
			assert.Equal(t, userID, gotUserID)
			assert.Equal(t, 2, req.Len())
			return models.ReconcileResponse{
				Success: true,
				Results: []models.ReconcileResult{
					{Type: models.EntityItems, ID: "n-1", Success: true},
					{Type: models.EntityTasks, ID: "t-1", Success: false, Reason: models.ReasonServerNewer},
				},
				ServerTimestamp: 12345,
			}, nil
		},
	}

	h := newHandlerWithSync(t, sync)
	req := authedRequest(t, http.MethodPost, "/api/sync/reconcile", reconcileBody(t, batch), userID)
	rec := httptest.NewRecorder()

	h.reconcile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response models.ReconcileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	require.Len(t, response.Results, 2)
	assert.Equal(t, models.ReasonServerNewer, response.Results[1].Reason)
	assert.Equal(t, int64(12345), response.ServerTimestamp)
}

// TestReconcile_NoUserID verifies that a request without an authenticated
// user ID in context is rejected with 400.
func TestReconcile_NoUserID(t *testing.T) {
	h := newHandlerWithSync(t, &mockSyncService{})

	req := httptest.NewRequest(http.MethodPost, "/api/sync/reconcile", strings.NewReader("{}"))
	rec := httptest.NewRecorder()

	h.reconcile(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no user ID was given")
}

// TestReconcile_InvalidJSON verifies that a malformed batch body results in
// 400 Bad Request.
func TestReconcile_InvalidJSON(t *testing.T) {
	h := newHandlerWithSync(t, &mockSyncService{})

	req := authedRequest(t, http.MethodPost, "/api/sync/reconcile", "{not json", 1)
	rec := httptest.NewRecorder()

	h.reconcile(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON was passed")
}

// TestReconcile_StorageError verifies that a store failure maps to 500.
func TestReconcile_StorageError(t *testing.T) {
	sync := &mockSyncService{
		reconcileFn: func(_ context.Context, _ int64, _ models.ReconcileRequest) (models.ReconcileResponse, error) {
			return models.ReconcileResponse{}, store.ErrExecutingQuery
		},
	}

	h := newHandlerWithSync(t, sync)
	req := authedRequest(t, http.MethodPost, "/api/sync/reconcile", "{}", 1)
	rec := httptest.NewRecorder()

	h.reconcile(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// TestSnapshot_Success verifies that the full dataset is returned as JSON,
// soft-deleted records and reference collections included.
func TestSnapshot_Success(t *testing.T) {
	const userID int64 = 7

	sync := &mockSyncService{
		snapshotFn: func(_ context.Context, gotUserID int64) (models.SnapshotResponse, error) {
			assert.Equal(t, userID, gotUserID)
			return models.SnapshotResponse{
				Items:           []models.Entity{{ID: "n-1", Type: models.EntityItems, Title: "groceries"}},
				Journal:         []models.Entity{{ID: "j-1", Type: models.EntityJournal, Deleted: true}},
				Tags:            []models.Tag{{ID: "tag-1", Name: "home", Color: "#ff0000"}},
				Categories:      []models.Category{{ID: "cat-1", Name: "personal"}},
				ServerTimestamp: 999,
			}, nil
		},
	}

	h := newHandlerWithSync(t, sync)
	req := authedRequest(t, http.MethodGet, "/api/sync/snapshot", "", userID)
	rec := httptest.NewRecorder()

	h.snapshot(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response models.SnapshotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Items, 1)
	require.Len(t, response.Journal, 1)
	assert.True(t, response.Journal[0].Deleted)
	require.Len(t, response.Tags, 1)
	require.Len(t, response.Categories, 1)
	assert.Equal(t, int64(999), response.ServerTimestamp)
}

// TestSnapshot_NoUserID verifies that an unauthenticated snapshot request is
// rejected with 400.
func TestSnapshot_NoUserID(t *testing.T) {
	h := newHandlerWithSync(t, &mockSyncService{})

	req := httptest.NewRequest(http.MethodGet, "/api/sync/snapshot", nil)
	rec := httptest.NewRecorder()

	h.snapshot(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestLastSyncMarker_Success verifies that the stored marker is reported.
func TestLastSyncMarker_Success(t *testing.T) {
	sync := &mockSyncService{
		lastSyncMarkerFn: func(_ context.Context, _ int64) (int64, error) {
			return 777, nil
		},
	}

	h := newHandlerWithSync(t, sync)
	req := authedRequest(t, http.MethodGet, "/api/sync/marker", "", 1)
	rec := httptest.NewRecorder()

	h.lastSyncMarker(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response models.SyncMarkerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, int64(777), response.LastSyncTimestamp)
}

// TestLastSyncMarker_NeverSynced verifies that a user without a marker gets
// a zero timestamp rather than an error.
func TestLastSyncMarker_NeverSynced(t *testing.T) {
	sync := &mockSyncService{
		lastSyncMarkerFn: func(_ context.Context, _ int64) (int64, error) {
			return 0, nil
		},
	}

	h := newHandlerWithSync(t, sync)
	req := authedRequest(t, http.MethodGet, "/api/sync/marker", "", 1)
	rec := httptest.NewRecorder()

	h.lastSyncMarker(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response models.SyncMarkerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Zero(t, response.LastSyncTimestamp)
}
