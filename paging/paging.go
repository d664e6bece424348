package paging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor is returned for cursors that were not produced by EncodeCursor.
var ErrInvalidCursor = errors.New("invalid cursor")

// Params holds the unified pagination parameters
type Params struct {
	Cursor string `json:"cursor" form:"cursor"`
	Limit  int    `json:"limit" form:"limit"`
}

// Result holds the pagination result
type Result[T any] struct {
	Items       []T    `json:"items"`
	NextCursor  string `json:"next,omitempty"`
	HasNextPage bool   `json:"has_next"`
}

// Cursor identifies the last row of a page ordered by (created_at, id) descending.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// NormalizeParams ensures that Limit is within an acceptable range
func NormalizeParams(params Params) Params {
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}
	return params
}

// EncodeCursor encodes a cursor to an opaque string
func EncodeCursor(c Cursor) string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor decodes a cursor string; an empty string yields nil.
func DecodeCursor(cursor string) (*Cursor, error) {
	if cursor == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	ts, id, ok := strings.Cut(string(b), "|")
	if !ok || id == "" {
		return nil, ErrInvalidCursor
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	return &Cursor{CreatedAt: t, ID: id}, nil
}

// PagingFunc loads up to limit items after cursor.
type PagingFunc[T any] func(cursor *Cursor, limit int) ([]T, error)

// Paginate applies pagination using the provided PagingFunc; cursorOf
// extracts the cursor of an item so the next page can start after it.
func Paginate[T any](params Params, paginateFunc PagingFunc[T], cursorOf func(T) Cursor) (*Result[T], error) {
	params = NormalizeParams(params)
	cursor, err := DecodeCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	items, err := paginateFunc(cursor, params.Limit+1)
	if err != nil {
		return nil, fmt.Errorf("pagination error: %w", err)
	}

	hasNextPage := false
	if len(items) > params.Limit {
		hasNextPage = true
		items = items[:params.Limit]
	}

	if items == nil {
		items = make([]T, 0)
	}

	result := &Result[T]{
		Items:       items,
		HasNextPage: hasNextPage,
	}
	if hasNextPage {
		result.NextCursor = EncodeCursor(cursorOf(items[len(items)-1]))
	}
	return result, nil
}
