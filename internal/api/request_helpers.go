package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nhassan/blog-api/internal/domain"
)

// getPathUUID extracts a UUID from the URL path parameters.
// Returns a ValidationError when the parameter is missing or malformed
// so the response boundary reports a 400 rather than a 500.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "Invalid "+paramName, domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "Invalid "+paramName, domain.ErrInvalidID)
	}

	return id, nil
}
