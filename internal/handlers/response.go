package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agoradev/agora-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps business-rule errors onto status codes; anything
// unrecognized becomes a sanitized 500.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrVoteValue),
		errors.Is(err, services.ErrVoteTag),
		errors.Is(err, services.ErrValidation):
		RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
	case errors.Is(err, services.ErrAgeExceeded):
		RespondError(c, http.StatusForbidden, "age_exceeded", err)
	case errors.Is(err, services.ErrForbidden):
		RespondError(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrNoSealsAvailable):
		RespondError(c, http.StatusBadRequest, "no_seals_available", err)
	case errors.Is(err, services.ErrAlreadyMarked):
		RespondError(c, http.StatusBadRequest, "already_marked", err)
	case errors.Is(err, services.ErrMarkNotFound):
		RespondError(c, http.StatusBadRequest, "mark_not_found", err)
	case errors.Is(err, services.ErrCannotMarkOwnContent):
		RespondError(c, http.StatusBadRequest, "cannot_mark_own_content", err)
	case errors.Is(err, services.ErrAlreadyExists):
		RespondError(c, http.StatusUnprocessableEntity, "already_exists", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal error"))
	}
}
