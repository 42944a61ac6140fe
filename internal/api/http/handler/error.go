package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/tooodo-server/internal/model"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// handleError maps domain errors to a status/detail pair. Anything
// unclassified is reported as an internal error without leaking details.
func handleError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := model.ErrInternal.Error()

	switch {
	case errors.Is(err, model.ErrEmailInUse):
		status, detail = http.StatusConflict, err.Error()
	case errors.Is(err, model.ErrUserNotFound):
		status, detail = http.StatusNotFound, err.Error()
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrInvalidRefreshToken),
		errors.Is(err, model.ErrSessionExpired),
		errors.Is(err, model.ErrAccessTokenExpired),
		errors.Is(err, model.ErrEmailConfirmationExpired),
		errors.Is(err, model.ErrTokenMalformed),
		errors.Is(err, model.ErrTokenTypeMismatch):
		status, detail = http.StatusUnauthorized, err.Error()
	}

	writeJSON(w, status, errorResponse{Detail: detail})
}
