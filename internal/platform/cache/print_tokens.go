package cache

import (
	"time"

	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
)

// PrintTokens is the print-token store used by the print service.
type PrintTokens struct {
	*TTLCache[string, portssvc.PrintJob]
}

var _ portssvc.PrintTokenStore = (*PrintTokens)(nil)

// NewPrintTokens creates a store of at most size jobs living ttl each.
func NewPrintTokens(size int, ttl time.Duration) *PrintTokens {
	return &PrintTokens{TTLCache: NewTTLCache[string, portssvc.PrintJob](size, ttl)}
}
