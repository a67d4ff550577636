package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/rs/zerolog/log"
)

// Recovery turns a panic into the standard 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		log.Error().
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Interface("panic", recovered).
			Msg("Recovered from panic")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Status:  "error",
			Message: "Internal server error",
			Details: fmt.Sprint(recovered),
		})
	})
}
