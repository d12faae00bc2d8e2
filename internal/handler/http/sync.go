// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/models"
)

// reconcile handles POST /api/sync/reconcile: batch last-write-wins
// arbitration of queued client mutations. Per-record outcomes are reported
// individually; the response always carries the server clock the caller's
// sync marker advanced to.
func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.reconcile").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	var reconcileRequest models.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&reconcileRequest); err != nil {
		log.Err(err).Str("func", "*Handler.reconcile").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	response, err := h.services.SyncService.Reconcile(ctx, userID, reconcileRequest)
	if err != nil {
		log.Err(err).Str("func", "*Handler.reconcile").Msg("error reconciling batch")
		http.Error(w, "error reconciling batch", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

// snapshot handles GET /api/sync/snapshot: the full-dataset pull clients use
// to refresh local state after reconnects.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.snapshot").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	response, err := h.services.SyncService.Snapshot(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.snapshot").Msg("error assembling snapshot")
		http.Error(w, "error assembling snapshot", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

// lastSyncMarker handles GET /api/sync/marker.
func (h *Handler) lastSyncMarker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.lastSyncMarker").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	marker, err := h.services.SyncService.LastSyncMarker(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.lastSyncMarker").Msg("error reading sync marker")
		http.Error(w, "error reading sync marker", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.SyncMarkerResponse{LastSyncTimestamp: marker}, http.StatusOK)
}
