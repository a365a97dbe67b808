package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/core/services"
	"github.com/SscSPs/billistry/internal/dto"
	"github.com/SscSPs/billistry/internal/handlers"
	"github.com/SscSPs/billistry/internal/middleware"
	"github.com/SscSPs/billistry/internal/platform/cache"
	"github.com/SscSPs/billistry/internal/platform/config"
	"github.com/SscSPs/billistry/internal/repositories/memory"
	"github.com/SscSPs/billistry/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func testConfig() *config.Config {
	return &config.Config{
		TrialDays:            14,
		JWTSecret:            "test-secret",
		JWTIssuer:            "billistry-test",
		JWTExpiryDuration:    time.Hour,
		SessionCookieName:    "billistry_session",
		PaymentKeySecret:     "key-secret",
		PaymentWebhookSecret: "webhook-secret",
		PrintTokenTTL:        time.Minute,
		PrintCacheSize:       16,
		LoginRateLimit:       "1000-M",
	}
}

func newRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repos := memory.NewRepositoryProvider(memory.NewStore())
	container := services.NewServiceContainer(cfg, repos, cache.NewPrintTokens(cfg.PrintCacheSize, cfg.PrintTokenTTL))
	limiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		panic(err)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(r, cfg, container, limiter)
	return r
}

type APITestSuite struct {
	suite.Suite
	cfg    *config.Config
	router *gin.Engine
	token  string
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	s.cfg = testConfig()
	s.router = newRouter(s.cfg)

	w := s.do(http.MethodPost, "/api/v1/auth/signup", "", dto.SignupRequest{
		Name:         "Asha",
		Email:        "asha@shop.test",
		Password:     "password123",
		BusinessName: "Asha Stores",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var login dto.LoginResponse
	s.decode(w, &login)
	s.Require().NotEmpty(login.Token)
	s.token = login.Token
}

func (s *APITestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *APITestSuite) errorCode(w *httptest.ResponseRecorder) string {
	var resp dto.ErrorResponse
	s.decode(w, &resp)
	return resp.Code
}

func (s *APITestSuite) createParty(kind domain.PartyType, name, mobile string) domain.Party {
	w := s.do(http.MethodPost, "/api/v1/parties", s.token, dto.CreatePartyRequest{Type: kind, Name: name, Mobile: mobile})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var party domain.Party
	s.decode(w, &party)
	return party
}

func (s *APITestSuite) createProduct(name string, openingStock int64) domain.Product {
	w := s.do(http.MethodPost, "/api/v1/products", s.token, dto.CreateProductRequest{
		Name:         name,
		SellingPrice: decimal.NewFromInt(50),
		OpeningStock: decimal.NewFromInt(openingStock),
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var product domain.Product
	s.decode(w, &product)
	return product
}

func (s *APITestSuite) createSale(partyID, productID string, qty int64) domain.Invoice {
	w := s.do(http.MethodPost, "/api/v1/sales", s.token, dto.InvoiceRequest{
		PartyID: partyID,
		Items:   []dto.LineItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(qty), Rate: decimal.NewFromInt(50)}},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var inv domain.Invoice
	s.decode(w, &inv)
	return inv
}

func (s *APITestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *APITestSuite) TestSignupSetsSessionCookie() {
	w := s.do(http.MethodPost, "/api/v1/auth/signup", "", dto.SignupRequest{
		Name:         "Meera",
		Email:        "meera@shop.test",
		Password:     "password123",
		BusinessName: "Meera Traders",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == s.cfg.SessionCookieName {
			session = c
		}
	}
	s.Require().NotNil(session)
	s.True(session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(session)
	me := httptest.NewRecorder()
	s.router.ServeHTTP(me, req)
	s.Require().Equal(http.StatusOK, me.Code)
	var user dto.UserResponse
	s.decode(me, &user)
	s.Equal("meera@shop.test", user.Email)
	s.Equal(domain.RoleShopkeeper, user.Role)
}

func (s *APITestSuite) TestSignupDuplicateEmail() {
	w := s.do(http.MethodPost, "/api/v1/auth/signup", "", dto.SignupRequest{
		Name:         "Asha Again",
		Email:        "asha@shop.test",
		Password:     "password123",
		BusinessName: "Second Shop",
	})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("conflict", s.errorCode(w))
}

func (s *APITestSuite) TestLogin() {
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "asha@shop.test", Password: "password123"})
	s.Require().Equal(http.StatusOK, w.Code)
	var login dto.LoginResponse
	s.decode(w, &login)
	s.NotEmpty(login.Token)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "asha@shop.test", Password: "wrong-password"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestLoginIsRateLimited() {
	cfg := testConfig()
	cfg.LoginRateLimit = "1-M"
	s.router = newRouter(cfg)

	first := s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "nobody@shop.test", Password: "password123"})
	s.Equal(http.StatusUnauthorized, first.Code)
	second := s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "nobody@shop.test", Password: "password123"})
	s.Equal(http.StatusTooManyRequests, second.Code)
}

func (s *APITestSuite) TestRequiresSession() {
	w := s.do(http.MethodGet, "/api/v1/parties", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("unauthorized", s.errorCode(w))
}

func (s *APITestSuite) TestPartyDuplicateMobile() {
	s.createParty(domain.PartyCustomer, "Kiran", "9876543210")

	w := s.do(http.MethodPost, "/api/v1/parties", s.token, dto.CreatePartyRequest{Type: domain.PartyCustomer, Name: "Kiran K", Mobile: "9876543210"})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("conflict", s.errorCode(w))

	// The same mobile is free for the other party type.
	s.createParty(domain.PartySupplier, "Kiran Supplies", "9876543210")
}

func (s *APITestSuite) TestBadBodyIsValidationError() {
	w := s.do(http.MethodPost, "/api/v1/parties", s.token, `{"type":"customer","name":"X","mobile":"12345"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("validation", s.errorCode(w))

	w = s.do(http.MethodPost, "/api/v1/products", s.token, `{"name":"Rice","sellingPrice":"-1"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("validation", s.errorCode(w))

	w = s.do(http.MethodPost, "/api/v1/sales", s.token, `{not json`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestSaleReducesStock() {
	party := s.createParty(domain.PartyCustomer, "Kiran", "9876543210")
	product := s.createProduct("Rice 1kg", 10)

	inv := s.createSale(party.PartyID, product.ProductID, 3)
	s.NotEmpty(inv.InvoiceID)

	w := s.do(http.MethodGet, "/api/v1/products/"+product.ProductID, s.token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var after domain.Product
	s.decode(w, &after)
	s.True(decimal.NewFromInt(7).Equal(after.CurrentStock), "stock %s", after.CurrentStock)

	w = s.do(http.MethodDelete, "/api/v1/sales/"+inv.InvoiceID, s.token, nil)
	s.Require().Equal(http.StatusNoContent, w.Code)
	w = s.do(http.MethodGet, "/api/v1/products/"+product.ProductID, s.token, nil)
	s.decode(w, &after)
	s.True(decimal.NewFromInt(10).Equal(after.CurrentStock), "stock %s", after.CurrentStock)
}

func (s *APITestSuite) TestNextNumber() {
	w := s.do(http.MethodGet, "/api/v1/sales/next-number", s.token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var next dto.NextNumberResponse
	s.decode(w, &next)
	s.Equal(int64(1), next.NextNumber)
}

func (s *APITestSuite) TestPrintTokenIsSingleUse() {
	party := s.createParty(domain.PartyCustomer, "Kiran", "9876543210")
	product := s.createProduct("Rice 1kg", 10)
	inv := s.createSale(party.PartyID, product.ProductID, 1)

	w := s.do(http.MethodPost, "/api/v1/sales/"+inv.InvoiceID+"/print-token", s.token, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var issued dto.PrintTokenResponse
	s.decode(w, &issued)
	s.Require().NotEmpty(issued.URL)

	w = s.do(http.MethodGet, issued.URL, "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("application/pdf", w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "inline")
	s.True(bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = s.do(http.MethodGet, issued.URL, "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestDownloadPDF() {
	party := s.createParty(domain.PartyCustomer, "Kiran", "9876543210")
	product := s.createProduct("Rice 1kg", 10)
	inv := s.createSale(party.PartyID, product.ProductID, 2)

	w := s.do(http.MethodGet, "/api/v1/sales/"+inv.InvoiceID+"/pdf", s.token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), "attachment")
	s.Equal("no-store", w.Header().Get("Cache-Control"))
}

func (s *APITestSuite) TestWebhookRejectsBadSignature() {
	body := `{"event":"subscription.charged","payload":{}}`
	req := httptest.NewRequest(http.MethodPost, "/api/subscription/webhook", strings.NewReader(body))
	req.Header.Set(handlers.WebhookSignatureHeader, utils.SignHMAC("not-the-secret", []byte(body)))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("validation", s.errorCode(w))
}

func (s *APITestSuite) TestWebhookRejectsOversizedBody() {
	body := `{"event":"order.paid","payload":{"pad":"` + strings.Repeat("x", 1<<20) + `"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/subscription/webhook", strings.NewReader(body))
	req.Header.Set(handlers.WebhookSignatureHeader, utils.SignHMAC(s.cfg.PaymentWebhookSecret, []byte(body)))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	s.decode(w, &resp)
	s.Equal("webhook body too large", resp.Error)
	s.Equal("validation", resp.Code)
}

func (s *APITestSuite) TestWebhookAcknowledgesSignedUnknownEvent() {
	body := `{"event":"order.paid","payload":{}}`
	req := httptest.NewRequest(http.MethodPost, "/api/subscription/webhook", strings.NewReader(body))
	req.Header.Set(handlers.WebhookSignatureHeader, utils.SignHMAC(s.cfg.PaymentWebhookSecret, []byte(body)))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestStaffCannotManageUsers() {
	w := s.do(http.MethodPost, "/api/v1/users", s.token, dto.CreateStaffRequest{Name: "Ravi", Email: "ravi@shop.test", Password: "password123"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "ravi@shop.test", Password: "password123"})
	s.Require().Equal(http.StatusOK, w.Code)
	var login dto.LoginResponse
	s.decode(w, &login)
	s.Equal(domain.RoleStaff, login.User.Role)

	w = s.do(http.MethodGet, "/api/v1/users", login.Token, nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("forbidden", s.errorCode(w))

	// Staff still works the counter.
	w = s.do(http.MethodGet, "/api/v1/parties", login.Token, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestSuperAdminRoutesRejectShopkeeper() {
	w := s.do(http.MethodGet, "/api/v1/businesses", s.token, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APITestSuite) TestOverviewRejectsBadDates() {
	w := s.do(http.MethodGet, "/api/v1/reports/overview?from=2024-05-01&to=2024-04-01", s.token, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/reports/overview?from=2024-04-01&to=2024-04-30", s.token, nil)
	s.Equal(http.StatusOK, w.Code)
}
