// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/recommend"
	"github.com/tomtom215/curator/internal/validation"
)

// Error codes returned in APIError.Code.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidation       = validation.ErrorCode
	ErrCodeMissingIdentity  = "MISSING_IDENTITY"
	ErrCodeInvalidLimit     = "INVALID_LIMIT"
	ErrCodeUnknownKind      = "UNKNOWN_INTERACTION_KIND"
	ErrCodeInvalidItem      = "INVALID_ITEM"
	ErrCodeInvalidMeasure   = "INVALID_MEASUREMENT"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeNotReady         = "NOT_READY"
	ErrCodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	ErrCodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeRateLimited      = "RATE_LIMITED"
)

// maxBodyBytes bounds request bodies. Interaction reports are small.
const maxBodyBytes = 64 << 10

// errorMapping pairs a sentinel error with its HTTP status and code.
type errorMapping struct {
	target error
	status int
	code   string
}

// inputErrors are caller mistakes. Order matters only for readability;
// the sentinels are disjoint.
var inputErrors = []errorMapping{
	{recommend.ErrMissingIdentity, http.StatusBadRequest, ErrCodeMissingIdentity},
	{recommend.ErrInvalidLimit, http.StatusBadRequest, ErrCodeInvalidLimit},
	{interactions.ErrMissingIdentity, http.StatusBadRequest, ErrCodeMissingIdentity},
	{interactions.ErrUnknownKind, http.StatusBadRequest, ErrCodeUnknownKind},
	{interactions.ErrInvalidItem, http.StatusBadRequest, ErrCodeInvalidItem},
	{interactions.ErrInvalidMeasurement, http.StatusBadRequest, ErrCodeInvalidMeasure},
}

// respondJSON writes response with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	if response.Metadata.Timestamp.IsZero() {
		response.Metadata.Timestamp = time.Now().UTC()
	}
	if response.Metadata.RequestID == "" {
		response.Metadata.RequestID = logging.RequestIDFromContext(r.Context())
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess writes a success envelope around data.
func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}, start time.Time, cached bool) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}

// respondError writes an error envelope. err is logged, never returned to
// the caller.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Str("code", code).
			Str("path", r.URL.Path).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondValidationError writes a 400 carrying the field failures.
func respondValidationError(w http.ResponseWriter, r *http.Request, verrs validation.Errors) {
	respondJSON(w, r, http.StatusBadRequest, &models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    ErrCodeValidation,
			Message: verrs.Error(),
			Details: verrs.Details(),
		},
	})
}

// respondServiceError maps err from a domain call to a response.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		respondValidationError(w, r, verrs)
		return
	}
	for _, m := range inputErrors {
		if errors.Is(err, m.target) {
			respondError(w, r, m.status, m.code, err.Error(), nil)
			return
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out", err)
		return
	}
	respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", err)
}

// validateRequest validates req with the shared validator and writes a 400
// on failure. It reports whether the request is valid.
func validateRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	err := validation.Struct(req)
	if err == nil {
		return true
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		respondValidationError(w, r, verrs)
		return false
	}
	respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
	return false
}

// decodeJSONBody decodes a bounded JSON body into dst. An empty body is
// allowed when allowEmpty is set and leaves dst untouched.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}, allowEmpty bool) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		respondError(w, r, http.StatusUnsupportedMediaType, ErrCodeUnsupportedMedia,
			"Content-Type must be application/json", nil)
		return false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge,
				fmt.Sprintf("Request body exceeds %d bytes", maxBodyBytes), nil)
			return false
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Failed to read request body", err)
		return false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		if allowEmpty {
			return true
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Request body is required", nil)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON request body", nil)
		return false
	}
	return true
}

// sanitizeLogValue escapes control characters so request-derived strings
// cannot forge log entries.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
