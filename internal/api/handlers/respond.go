// Package handlers contains the gin HTTP handlers of the form-engine service.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/goliatone/go-formengine/internal/pkg/errors"
)

// errorEnvelope is the wire shape of every error response.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	FieldErrors []apperrors.FieldError `json:"field_errors,omitempty"`
}

// writeError renders any error as the service envelope. Errors that are not
// AppError become opaque 500s; the cause goes to the log, not the client.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	if appErr, ok := apperrors.IsAppError(err); ok {
		if appErr.HTTPStatus >= http.StatusInternalServerError && log != nil {
			log.Error("request failed", zap.String("code", appErr.Code), zap.Error(err))
		}
		c.JSON(appErr.HTTPStatus, errorEnvelope{Error: errorBody{
			Code:        appErr.Code,
			Message:     appErr.Message,
			FieldErrors: appErr.FieldErrors,
		}})
		return
	}
	if log != nil {
		log.Error("request failed", zap.Error(err))
	}
	c.JSON(http.StatusInternalServerError, errorEnvelope{Error: errorBody{
		Code:    apperrors.CodeInternal,
		Message: "internal error",
	}})
}

// bindError wraps a gin binding failure into the envelope.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorEnvelope{Error: errorBody{
		Code:    apperrors.CodeInvalidBody,
		Message: err.Error(),
	}})
}
