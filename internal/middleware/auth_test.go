package middleware_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/SscSPs/billistry/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret"
	testCookie = "billistry_session"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(slog.Default()))

	authed := s.router.Group("/", middleware.AuthMiddleware(testSecret, testCookie))
	authed.GET("/whoami", func(c *gin.Context) {
		actor, _ := middleware.GetActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userID": actor.UserID, "businessID": actor.BusinessID, "role": actor.Role})
	})
	authed.DELETE("/owner-only", middleware.RequireRoles(domain.RoleShopkeeper), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

func (s *AuthMiddlewareTestSuite) token(role domain.Role, businessID string, ttl time.Duration) string {
	user := domain.User{UserID: "user-1", Role: role}
	if businessID != "" {
		user.BusinessID = &businessID
	}
	token, _, err := utils.GenerateSessionToken(user, testSecret, ttl, "billistry", time.Now())
	s.Require().NoError(err)
	return token
}

func (s *AuthMiddlewareTestSuite) whoami(req *http.Request) (int, map[string]string) {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	body := map[string]string{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func (s *AuthMiddlewareTestSuite) TestBearerToken() {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(domain.RoleStaff, "biz-1", time.Hour))

	code, body := s.whoami(req)

	s.Equal(http.StatusOK, code)
	s.Equal("user-1", body["userID"])
	s.Equal("biz-1", body["businessID"])
	s.Equal("staff", body["role"])
}

func (s *AuthMiddlewareTestSuite) TestSessionCookie() {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: s.token(domain.RoleShopkeeper, "biz-2", time.Hour)})

	code, body := s.whoami(req)

	s.Equal(http.StatusOK, code)
	s.Equal("biz-2", body["businessID"])
}

func (s *AuthMiddlewareTestSuite) TestMissingAndMalformedToken() {
	code, _ := s.whoami(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	s.Equal(http.StatusUnauthorized, code)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token abc")
	code, _ = s.whoami(req)
	s.Equal(http.StatusUnauthorized, code)
}

func (s *AuthMiddlewareTestSuite) TestExpiredToken() {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(domain.RoleStaff, "biz-1", -time.Minute))

	code, body := s.whoami(req)

	s.Equal(http.StatusUnauthorized, code)
	s.Equal("token has expired", body["error"])
	s.Equal("unauthorized", body["code"])
}

func (s *AuthMiddlewareTestSuite) TestSuperadminBusinessOverride() {
	req := httptest.NewRequest(http.MethodGet, "/whoami?business_id=biz-9", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(domain.RoleSuperAdmin, "", time.Hour))

	code, body := s.whoami(req)

	s.Equal(http.StatusOK, code)
	s.Equal("biz-9", body["businessID"])
}

func (s *AuthMiddlewareTestSuite) TestOverrideIgnoredForShopkeeper() {
	req := httptest.NewRequest(http.MethodGet, "/whoami?business_id=biz-9", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(domain.RoleShopkeeper, "biz-1", time.Hour))

	_, body := s.whoami(req)

	s.Equal("biz-1", body["businessID"])
}

func (s *AuthMiddlewareTestSuite) TestRequireRoles() {
	req := httptest.NewRequest(http.MethodDelete, "/owner-only", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(domain.RoleStaff, "biz-1", time.Hour))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/owner-only", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(domain.RoleShopkeeper, "biz-1", time.Hour))
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/owner-only", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(domain.RoleSuperAdmin, "", time.Hour))
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusNoContent, w.Code)
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func TestStructuredLoggingSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.StructuredLoggingMiddleware(slog.Default()))
	var meta middleware.RequestMeta
	router.GET("/ping", func(c *gin.Context) {
		meta = middleware.RequestMetaFromCtx(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("User-Agent", "billistry-test")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "billistry-test", meta.UserAgent)
	assert.NotEmpty(t, meta.IP)
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lim, err := middleware.NewMemoryLimiter("2-M")
	require.NoError(t, err)

	router := gin.New()
	router.POST("/login", middleware.RateLimit(lim), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
