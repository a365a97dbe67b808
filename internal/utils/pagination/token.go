package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// Cursor is the position of the last row of a page. Listings are ordered by
// SortAt, then CreatedAt, then ID, all descending.
type Cursor struct {
	SortAt    time.Time
	CreatedAt time.Time
	ID        string
}

// Before reports whether a row at (sortAt, createdAt, id) comes after the
// cursor in descending order, i.e. belongs to the next page.
func (c Cursor) Before(sortAt, createdAt time.Time, id string) bool {
	if !sortAt.Equal(c.SortAt) {
		return sortAt.Before(c.SortAt)
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return id < c.ID
}

// EncodeToken creates a base64 encoded token from a cursor.
// This is used for consistent pagination across different repositories.
func EncodeToken(c Cursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", c.SortAt.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.ID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// EncodeTokenPtr is EncodeToken returning a pointer, for response fields.
func EncodeTokenPtr(c Cursor) *string {
	token := EncodeToken(c)
	return &token
}

// DecodeToken parses the base64 encoded token back into a cursor.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	sortAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (sort date parse): %w", err)
	}

	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return Cursor{SortAt: sortAt, CreatedAt: createdAt, ID: parts[2]}, nil
}
