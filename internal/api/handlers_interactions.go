// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/models"
)

// RecordInteraction appends a visitor interaction. The profile update
// happens asynchronously unless the service runs in synchronous mode.
//
// @Summary Report an interaction
// @Description Appends a view, click, like, share, comment, bookmark or recommendation-click to the interaction log. A click carrying a recommendation source is stored as recommendation-click. engagement_score is derived when omitted.
// @Tags Interactions
// @Accept json
// @Produce json
// @Param interaction body InteractionRequest true "Interaction report"
// @Success 201 {object} models.APIResponse{data=interactions.Record} "Interaction recorded"
// @Failure 400 {object} models.APIResponse "Invalid report"
// @Failure 500 {object} models.APIResponse "Internal error"
// @Router /interactions [post]
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req InteractionRequest
	if !decodeJSONBody(w, r, &req, false) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	rec, err := h.deps.Interactions.Record(r.Context(), req.Report())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("interaction_id", rec.ID).
		Str("identity", rec.Identity.Key()).
		Str("kind", string(rec.Kind)).
		Msg("Interaction recorded")

	respondJSON(w, r, http.StatusCreated, &models.APIResponse{
		Status:   "success",
		Data:     rec,
		Metadata: models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()},
	})
}
