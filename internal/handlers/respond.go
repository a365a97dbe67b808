package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError writes err as an ErrorResponse with the status of its kind.
// Internal failures are logged at error level, client errors at warn.
func respondError(c *gin.Context, err error, logMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(logMsg, slog.String("error", err.Error()))
	} else {
		logger.Warn(logMsg, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, dto.ErrorResponse{Error: apperrors.PublicMessage(err), Code: string(apperrors.KindOf(err))})
}

// respondBindError answers a request whose body or query failed to bind.
func respondBindError(c *gin.Context, err error, what string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "invalid " + what + ": " + err.Error(),
		Code:  string(apperrors.KindValidation),
	})
}

// currentActor returns the authenticated actor or answers 401.
func currentActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required", Code: string(apperrors.KindUnauthorized)})
		return domain.Actor{}, false
	}
	return actor, true
}
