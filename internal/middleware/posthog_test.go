package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyticsEvent(t *testing.T) {
	cases := []struct {
		method, path, want string
	}{
		{http.MethodPost, "/api/v1/sales", "sales_created"},
		{http.MethodPut, "/api/v1/products/:id", "products_updated"},
		{http.MethodDelete, "/api/v1/sale-returns/:id", "sale_returns_deleted"},
		{http.MethodPost, "/api/v1/sales/:id/print-token", "sales_print_token"},
		{http.MethodPost, "/api/v1/subscriptions/checkout", "subscriptions_checkout"},
		{http.MethodGet, "/api/v1/sales", ""},
		{http.MethodPost, "/api/subscription/webhook", ""},
		{http.MethodPost, "", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, analyticsEvent(tc.method, tc.path), "%s %s", tc.method, tc.path)
	}
}
