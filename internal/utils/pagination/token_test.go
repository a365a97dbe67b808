package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	invoiceDate := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)
	cursor := Cursor{SortAt: invoiceDate, CreatedAt: createdAt, ID: "inv-1"}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, cursor, decoded)

	// Zero time values
	zero := Cursor{}
	decodedZero, err := DecodeToken(EncodeToken(zero))
	require.NoError(t, err)
	assert.Equal(t, zero, decodedZero)

	// IDs may contain the separator; SplitN keeps them intact
	odd := Cursor{SortAt: invoiceDate, CreatedAt: createdAt, ID: "a|b"}
	decodedOdd, err := DecodeToken(EncodeToken(odd))
	require.NoError(t, err)
	assert.Equal(t, "a|b", decodedOdd.ID)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	missing := base64.StdEncoding.EncodeToString([]byte("2024-05-15T00:00:00Z"))
	_, err = DecodeToken(missing)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.StdEncoding.EncodeToString([]byte("notadate|2024-05-15T00:00:00Z|x"))
	_, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sort date parse")

	badCreated := base64.StdEncoding.EncodeToString([]byte("2024-05-15T00:00:00Z|nope|x"))
	_, err = DecodeToken(badCreated)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestCursorBefore(t *testing.T) {
	day := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	at := day.Add(10 * time.Hour)
	c := Cursor{SortAt: day, CreatedAt: at, ID: "m"}

	assert.True(t, c.Before(day.Add(-24*time.Hour), at, "z"), "earlier date is on the next page")
	assert.False(t, c.Before(day.Add(24*time.Hour), at, "a"), "later date was on a previous page")
	assert.True(t, c.Before(day, at.Add(-time.Minute), "z"))
	assert.True(t, c.Before(day, at, "a"))
	assert.False(t, c.Before(day, at, "m"), "the cursor row itself is excluded")
}
