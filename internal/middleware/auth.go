package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/examapp/internal/apperror"
	"github.com/lshigami/examapp/internal/controller"
	"github.com/lshigami/examapp/internal/model"
	"github.com/lshigami/examapp/internal/service"
	"github.com/rs/zerolog/log"
)

const currentUserKey = "currentUser"

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>" header
// and stores the authenticated user on the context.
func RequireAuth(auth service.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			controller.RespondError(ctx, apperror.Unauthorized("Token is missing"))
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			controller.RespondError(ctx, apperror.Unauthorized("Invalid authorization header format"))
			return
		}

		user, err := auth.Authenticate(ctx.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Authentication failed")
			controller.RespondError(ctx, err)
			return
		}
		ctx.Set(currentUserKey, user)
		ctx.Next()
	}
}

// CurrentUser returns the user RequireAuth attached to the request.
func CurrentUser(ctx *gin.Context) *model.User {
	value, ok := ctx.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*model.User)
	return user
}

// CurrentUserID is CurrentUser for handlers that only need the id. It answers 401
// when the route was mounted without RequireAuth.
func CurrentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	user := CurrentUser(ctx)
	if user == nil {
		controller.RespondError(ctx, apperror.Unauthorized("Token is missing"))
		return uuid.Nil, false
	}
	return user.ID, true
}
