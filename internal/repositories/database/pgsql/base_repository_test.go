package pgsql

import (
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/billistry/internal/apperrors"
	"github.com/SscSPs/billistry/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhereNumbersPlaceholders(t *testing.T) {
	w := newWhere("business_id = ?", "biz-1").and("NOT is_deleted")
	w.and("(name ILIKE '%' || ? || '%' OR mobile LIKE '%' || ? || '%')", "ram", "ram")
	limit := w.next(21)

	assert.Equal(t, "WHERE business_id = $1 AND NOT is_deleted AND (name ILIKE '%' || $2 || '%' OR mobile LIKE '%' || $3 || '%')", w.String())
	assert.Equal(t, "$4", limit)
	assert.Equal(t, []any{"biz-1", "ram", "ram", 21}, w.args)
}

func TestAfterCursor(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	token := pagination.EncodeToken(pagination.Cursor{SortAt: at, CreatedAt: at.Add(time.Hour), ID: "inv-9"})

	w := newWhere("business_id = ?", "biz-1")
	require.NoError(t, w.afterCursor(&token, "invoice_date", "invoice_id"))
	assert.Equal(t, "WHERE business_id = $1 AND (invoice_date, created_at, invoice_id) < ($2, $3, $4)", w.String())
	assert.Len(t, w.args, 4)

	bad := "%%%"
	err := newWhere("TRUE").afterCursor(&bad, "invoice_date", "invoice_id")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	empty := ""
	w = newWhere("TRUE")
	require.NoError(t, w.afterCursor(&empty, "invoice_date", "invoice_id"))
	require.NoError(t, w.afterCursor(nil, "invoice_date", "invoice_id"))
	assert.Equal(t, "WHERE TRUE", w.String())
}

func TestSplitPage(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	key := func(n int) pagination.Cursor { return pagination.Cursor{SortAt: at, CreatedAt: at, ID: fmt.Sprint(n)} }

	page, next := splitPage([]int{5, 4, 3}, 2, key)
	assert.Equal(t, []int{5, 4}, page)
	require.NotNil(t, next)
	cursor, err := pagination.DecodeToken(*next)
	require.NoError(t, err)
	assert.Equal(t, "4", cursor.ID)

	page, next = splitPage([]int{5, 4}, 2, key)
	assert.Equal(t, []int{5, 4}, page)
	assert.Nil(t, next)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil, "party"))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows, "party"), apperrors.ErrNotFound)

	dup := mapError(&pgconn.PgError{Code: uniqueViolation}, "party with this mobile")
	assert.ErrorIs(t, dup, apperrors.ErrDuplicate)
	assert.Equal(t, "party with this mobile already exists", apperrors.PublicMessage(dup))

	other := mapError(&pgconn.PgError{Code: "40001"}, "party")
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(other))

	validation := apperrors.NewValidationError("bad")
	assert.Same(t, validation, mapError(validation, "party"))
}

func TestRequireRow(t *testing.T) {
	assert.ErrorIs(t, requireRow(pgconn.NewCommandTag("UPDATE 0"), "party"), apperrors.ErrNotFound)
	assert.NoError(t, requireRow(pgconn.NewCommandTag("UPDATE 1"), "party"))
}
