package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/moodcare-backend/internal/services"
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

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondServiceError maps service sentinel errors onto HTTP statuses
// and stable error codes.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		RespondError(c, http.StatusBadRequest, "validation_error", err)
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrEmailTaken):
		RespondError(c, http.StatusConflict, "email_taken", err)
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrTokenInvalid):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, services.ErrServiceUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "service_unavailable", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
