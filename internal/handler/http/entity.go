package http

import (
	"net/http"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/go-chi/chi/v5"
)

// getEntity handles GET /api/{type}/{id}: a single-record fetch scoped to the
// authenticated user. Soft-deleted records are returned too so that clients
// can inspect tombstones during conflict resolution.
func (h *Handler) getEntity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.getEntity").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	entityType := models.EntityType(chi.URLParam(r, "type"))
	entityID := chi.URLParam(r, "id")

	entity, err := h.services.SyncService.GetEntity(ctx, userID, entityType, entityID)
	if err != nil {
		log.Err(err).
			Str("func", "*Handler.getEntity").
			Str("type", string(entityType)).
			Str("id", entityID).
			Msg("error fetching entity")
		http.Error(w, "error fetching entity", statusFromError(err))
		return
	}

	utils.WriteJSON(w, entity, http.StatusOK)
}
