package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// BusinessIDQueryParam lets a superadmin pick the business a request acts on.
const BusinessIDQueryParam = "business_id"

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: msg, Code: string(apperrors.KindUnauthorized)})
}

// sessionToken reads the token from the session cookie, then from a Bearer header.
func sessionToken(c *gin.Context, cookieName string) (string, bool) {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie, true
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware creates a Gin middleware handler that validates session tokens
// and stores the resulting actor in the request context.
func AuthMiddleware(jwtSecret string, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, ok := sessionToken(c, cookieName)
		if !ok {
			logger.Warn("Session token missing")
			abortUnauthorized(c, "authentication required")
			return
		}

		claims, err := utils.ParseSessionToken(tokenString, jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", "error", err)
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "token not valid yet"
			}
			abortUnauthorized(c, msg)
			return
		}

		actor := claims.Actor()
		if actor.Role == domain.RoleSuperAdmin {
			if businessID := c.Query(BusinessIDQueryParam); businessID != "" {
				actor.BusinessID = businessID
			}
		}

		enrichedLogger := logger.With(
			slog.String("user_id", actor.UserID),
			slog.String("business_id", actor.BusinessID),
			slog.String("role", string(actor.Role)),
		)
		ctx := WithActor(c.Request.Context(), actor)
		ctx = WithLogger(ctx, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles aborts with 403 unless the actor holds one of roles.
// Superadmins always pass.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActorFromContext(c)
		if !ok {
			abortUnauthorized(c, "authentication required")
			return
		}
		if err := actor.Allow(roles...); err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("Role check failed", slog.String("required", rolesString(roles)))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: apperrors.PublicMessage(err), Code: string(apperrors.KindForbidden)})
			return
		}
		c.Next()
	}
}

func rolesString(roles []domain.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}
