// Package memory is an in-process implementation of the repository ports.
// It backs local runs and tests and keeps the uniqueness and locking rules
// of the PostgreSQL schema.
package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/SscSPs/billistry/internal/utils/pagination"
)

type seqKey struct {
	businessID string
	kind       domain.DocumentKind
}

// state is one consistent snapshot of every table.
type state struct {
	users         map[string]domain.User
	businesses    map[string]domain.Business
	parties       map[string]domain.Party
	categories    map[string]domain.Category
	products      map[string]domain.Product
	movements     []domain.StockMovement
	invoices      map[string]domain.Invoice
	returns       map[string]domain.Return
	cashbook      map[string]domain.CashbookEntry
	sequences     map[seqKey]int64
	plans         map[string]domain.SubscriptionPlan
	subscriptions map[string]domain.Subscription
	auditLogs     []domain.AuditLog
}

func newState() *state {
	return &state{
		users:         map[string]domain.User{},
		businesses:    map[string]domain.Business{},
		parties:       map[string]domain.Party{},
		categories:    map[string]domain.Category{},
		products:      map[string]domain.Product{},
		invoices:      map[string]domain.Invoice{},
		returns:       map[string]domain.Return{},
		cashbook:      map[string]domain.CashbookEntry{},
		sequences:     map[seqKey]int64{},
		plans:         map[string]domain.SubscriptionPlan{},
		subscriptions: map[string]domain.Subscription{},
	}
}

// clone copies every table. Entities are values, so replacing a map entry in
// the copy never shows through to the original.
func (st *state) clone() *state {
	return &state{
		users:         maps.Clone(st.users),
		businesses:    maps.Clone(st.businesses),
		parties:       maps.Clone(st.parties),
		categories:    maps.Clone(st.categories),
		products:      maps.Clone(st.products),
		movements:     append([]domain.StockMovement(nil), st.movements...),
		invoices:      maps.Clone(st.invoices),
		returns:       maps.Clone(st.returns),
		cashbook:      maps.Clone(st.cashbook),
		sequences:     maps.Clone(st.sequences),
		plans:         maps.Clone(st.plans),
		subscriptions: maps.Clone(st.subscriptions),
		auditLogs:     append([]domain.AuditLog(nil), st.auditLogs...),
	}
}

// Store holds the data of every memory repository. One mutex serializes all
// access; a transaction works on a staged copy that replaces the live state
// only when it succeeds.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

// write runs fn on a staged copy and commits it when fn succeeds.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.st.clone()
	if err := fn(staged); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = staged
	return nil
}

func notFound(what string) error {
	return apperrors.NewNotFoundError(what + " not found")
}

func duplicate(what string) error {
	return apperrors.NewAppError(apperrors.KindConflict, what+" already exists", apperrors.ErrDuplicate)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// offsetPage applies limit/offset to an already ordered slice.
func offsetPage[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// cursorPage orders items newest first by key, skips everything up to the
// token and returns at most limit items plus the token of the next page.
func cursorPage[T any](items []T, key func(T) pagination.Cursor, limit int, nextToken *string) ([]T, *string, error) {
	sort.SliceStable(items, func(i, j int) bool {
		b := key(items[j])
		return key(items[i]).Before(b.SortAt, b.CreatedAt, b.ID)
	})
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken")
		}
		start := len(items)
		for i, item := range items {
			k := key(item)
			if cursor.Before(k.SortAt, k.CreatedAt, k.ID) {
				start = i
				break
			}
		}
		items = items[start:]
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil, nil
	}
	page := items[:limit]
	return page, pagination.EncodeTokenPtr(key(page[len(page)-1])), nil
}
