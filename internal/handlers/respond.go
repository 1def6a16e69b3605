package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mediatube/backend/internal/auth"
	"github.com/mediatube/backend/internal/catalog"
	"github.com/mediatube/backend/internal/logging"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response", "error", err)
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	respondJSON(ctx, w, errorStatus(err), map[string]string{"error": errorMessage(err)})
}

// errorStatus maps the catalog and auth error taxonomy onto HTTP statuses.
// Denied stays distinct from not-found so ownership failures are not
// reported as missing entities.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, catalog.ErrValidation), errors.Is(err, auth.ErrMissingField):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrDenied):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrNotMember):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrUpload):
		return http.StatusBadGateway
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrSessionRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrAccountExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	if errorStatus(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
