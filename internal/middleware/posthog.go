package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/billistry/internal/utils"
	"github.com/gin-gonic/gin"
)

const trackedPrefix = "/api/v1/"

var methodVerbs = map[string]string{
	http.MethodPost:   "created",
	http.MethodPut:    "updated",
	http.MethodDelete: "deleted",
}

// analyticsEvent names the event for a successful request on route fullPath.
// Reads are not tracked. Path parameters are dropped, so
// "POST /api/v1/sales/:id/print-token" becomes "sales_print_token" and
// "PUT /api/v1/products/:id" becomes "products_updated".
func analyticsEvent(method, fullPath string) string {
	verb, ok := methodVerbs[method]
	if !ok || !strings.HasPrefix(fullPath, trackedPrefix) {
		return ""
	}
	var segments []string
	for _, seg := range strings.Split(strings.TrimPrefix(fullPath, trackedPrefix), "/") {
		if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		segments = append(segments, strings.ReplaceAll(seg, "-", "_"))
	}
	switch len(segments) {
	case 0:
		return ""
	case 1:
		return segments[0] + "_" + verb
	}
	return strings.Join(segments, "_")
}

// PosthogMiddleware reports successful writes of authenticated users to PostHog.
// The actor is read after the handler chain ran, so it must be mounted before
// AuthMiddleware.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !posthogClient.IsInitialized() || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		event := analyticsEvent(c.Request.Method, c.FullPath())
		if event == "" {
			return
		}
		actor, ok := GetActorFromContext(c)
		if !ok || actor.UserID == "" {
			return
		}

		props := map[string]any{
			"status_code": c.Writer.Status(),
			"role":        string(actor.Role),
		}
		if actor.BusinessID != "" {
			// PostHog group analytics keys events by business.
			props["$groups"] = map[string]string{"business": actor.BusinessID}
			props["business_id"] = actor.BusinessID
		}
		posthogClient.Enqueue(actor.UserID, event, props)
	}
}
