// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"net/http"
	"time"
)

// Vectorize refreshes stale and missing content vectors.
//
// @Summary Refresh content vectors
// @Description Rebuilds the vocabulary and re-vectorizes every published item whose vector is missing or older than the staleness threshold. Per-item failures are counted, not fatal.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=content.RefreshResult} "Refresh summary"
// @Failure 401 {object} models.APIResponse "Missing or invalid token"
// @Failure 403 {object} models.APIResponse "Role not permitted"
// @Router /admin/vectorize [post]
func (h *Handler) Vectorize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.deps.Vectors == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeNotReady, "Vectorizer is not configured", nil)
		return
	}

	res, err := h.deps.Vectors.RefreshStale(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.logger.Info().
		Int("vectorized", res.Vectorized).
		Int("failed", res.Failed).
		Str("request_id", requestID(r)).
		Msg("On-demand vectorization complete")
	respondSuccess(w, r, res, start, false)
}

// RecomputeProfiles recomputes stale visitor profiles.
//
// @Summary Recompute visitor profiles
// @Description Fully recomputes up to limit profiles that were not recomputed recently, from the interaction window.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BatchRequest false "Optional batch limit"
// @Success 200 {object} models.APIResponse{data=profile.RecomputeResult} "Recompute summary"
// @Failure 400 {object} models.APIResponse "Invalid limit"
// @Failure 401 {object} models.APIResponse "Missing or invalid token"
// @Failure 403 {object} models.APIResponse "Role not permitted"
// @Router /admin/profiles/recompute [post]
func (h *Handler) RecomputeProfiles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.deps.Profiles == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeNotReady, "Profile store is not configured", nil)
		return
	}

	limit, ok := h.batchLimit(w, r, h.cfg.RecomputeBatch)
	if !ok {
		return
	}
	res, err := h.deps.Profiles.RecomputeStale(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.logger.Info().
		Int("recomputed", res.Recomputed).
		Int("failed", res.Failed).
		Str("request_id", requestID(r)).
		Msg("On-demand profile recompute complete")
	respondSuccess(w, r, res, start, false)
}

// Precompute stores recommendation lists for recently active visitors.
//
// @Summary Precompute recommendations
// @Description Computes and stores lists for up to limit recently active visitors. Stored lists expire after the precomputed TTL.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BatchRequest false "Optional number of visitors"
// @Success 200 {object} models.APIResponse{data=recommend.PrecomputeResult} "Precompute summary"
// @Failure 400 {object} models.APIResponse "Invalid limit"
// @Failure 401 {object} models.APIResponse "Missing or invalid token"
// @Failure 403 {object} models.APIResponse "Role not permitted"
// @Router /admin/precompute [post]
func (h *Handler) Precompute(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.deps.Profiles == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeNotReady, "Profile store is not configured", nil)
		return
	}

	limit, ok := h.batchLimit(w, r, h.cfg.PrecomputeIdentities)
	if !ok {
		return
	}
	ids, err := h.deps.Profiles.RecentIdentities(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	res, err := h.deps.Engine.Precompute(r.Context(), ids)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, res, start, false)
}

// Metrics evaluates recommendation quality over a window.
//
// @Summary Evaluate recommendation quality
// @Description Computes Precision@K, Recall@K, F1, NDCG@K, CTR, diversity and coverage over the last days of interactions. Results are cached briefly.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (1-365, default 30)"
// @Param k query int false "Cutoff rank (1-100, default 10)"
// @Success 200 {object} models.APIResponse{data=evaluation.Report} "Quality report"
// @Failure 400 {object} models.APIResponse "Invalid window or cutoff"
// @Failure 401 {object} models.APIResponse "Missing or invalid token"
// @Failure 403 {object} models.APIResponse "Role not permitted"
// @Router /admin/metrics [get]
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.deps.Evaluator == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeNotReady, "Evaluator is not configured", nil)
		return
	}

	days, err := queryInt(r, "days", h.cfg.EvaluationDays)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	k, err := queryInt(r, "k", h.cfg.EvaluationK)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	req := MetricsRequest{Days: days, K: k}
	if !validateRequest(w, r, &req) {
		return
	}

	rep, cached, err := h.deps.Evaluator.Evaluate(r.Context(), req.Days, req.K)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, rep, start, cached)
}

// Stats returns the engine's request counters.
//
// @Summary Engine statistics
// @Description Request, cache hit/miss, precomputed hit and error counters plus per-strategy breaker states.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=recommend.Stats} "Engine statistics"
// @Router /admin/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, h.deps.Engine.Stats(), time.Now(), false)
}

// batchLimit reads the optional BatchRequest body.
func (h *Handler) batchLimit(w http.ResponseWriter, r *http.Request, defaultLimit int) (int, bool) {
	var req BatchRequest
	if !decodeJSONBody(w, r, &req, true) {
		return 0, false
	}
	if !validateRequest(w, r, &req) {
		return 0, false
	}
	if req.Limit == 0 {
		return defaultLimit, true
	}
	return req.Limit, true
}
