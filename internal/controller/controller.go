// Package controller holds the helpers shared by the HTTP handlers in its sub-packages.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/examapp/internal/apperror"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/rs/zerolog/log"
)

// StatusFor maps an error kind onto the HTTP status it is reported with.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as the standard error envelope and aborts the chain.
func RespondError(ctx *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Unhandled error")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Status:  "error",
			Message: "Internal server error",
			Details: err.Error(),
		})
		return
	}

	status := StatusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		log.Error().Err(appErr.Err).Str("kind", appErr.Kind.String()).Str("path", ctx.FullPath()).Msg(appErr.Message)
	}
	ctx.AbortWithStatusJSON(status, dto.ErrorResponse{
		Status:  "error",
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

// RespondBindError reports a request body or query that failed to bind.
func RespondBindError(ctx *gin.Context, err error) {
	log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Failed to bind request")
	RespondError(ctx, apperror.Validation("%s", dto.ValidationMessage(err)))
}

// UUIDParam parses the named path parameter, answering 400 when it is not a UUID.
func UUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		RespondError(ctx, apperror.Validation("Invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}
