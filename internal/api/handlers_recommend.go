// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/recommend"
)

// Recommendations returns a ranked list for a visitor.
//
// @Summary Get recommendations
// @Description Returns up to limit ranked items for the visitor identified by account_id or session_id. When context_item_id is set, items similar to it are favored and it is never returned. Every returned item is logged as an impression.
// @Tags Recommendations
// @Produce json
// @Param account_id query int false "Signed-in account id (takes precedence over session_id)"
// @Param session_id query string false "Anonymous session id"
// @Param context_item_id query string false "Item currently being viewed"
// @Param limit query int false "Number of items (1-20, default 10)"
// @Success 200 {object} models.APIResponse{data=recommend.Response} "Recommendations"
// @Failure 400 {object} models.APIResponse "Missing identity or invalid limit"
// @Failure 500 {object} models.APIResponse "Internal error"
// @Router /recommendations [get]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	accountID, err := queryInt64(r, "account_id", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	req := RecommendationsRequest{
		AccountID:     accountID,
		SessionID:     q.Get("session_id"),
		ContextItemID: q.Get("context_item_id"),
		Limit:         limit,
	}
	if !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	resp, err := h.deps.Engine.Recommend(ctx, recommend.Request{
		Identity:      req.Identity(),
		ContextItemID: req.ContextItemID,
		Limit:         req.Limit,
		RequestID:     logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, r, resp, start, resp.Metadata.CacheHit || resp.Metadata.Precomputed)
}
