package paging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID string
	At time.Time
}

func TestCursorRoundTrip(t *testing.T) {
	c := Cursor{CreatedAt: time.Date(2024, 7, 19, 7, 8, 0, 123, time.UTC), ID: "abc"}
	got, err := DecodeCursor(EncodeCursor(c))
	require.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, "abc", got.ID)

	none, err := DecodeCursor("")
	assert.NoError(t, err)
	assert.Nil(t, none)

	_, err = DecodeCursor("%%%")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestPaginate(t *testing.T) {
	base := time.Now()
	all := []row{{"a", base}, {"b", base.Add(-time.Second)}, {"c", base.Add(-2 * time.Second)}}
	var gotLimit int
	fetch := func(cursor *Cursor, limit int) ([]row, error) {
		gotLimit = limit
		start := 0
		if cursor != nil {
			for i, r := range all {
				if r.ID == cursor.ID {
					start = i + 1
				}
			}
		}
		end := start + limit
		if end > len(all) {
			end = len(all)
		}
		return all[start:end], nil
	}
	cursorOf := func(r row) Cursor { return Cursor{CreatedAt: r.At, ID: r.ID} }

	page, err := Paginate(Params{Limit: 2}, fetch, cursorOf)
	require.NoError(t, err)
	assert.Equal(t, 3, gotLimit)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasNextPage)

	page, err = Paginate(Params{Limit: 2, Cursor: page.NextCursor}, fetch, cursorOf)
	require.NoError(t, err)
	assert.Equal(t, []row{all[2]}, page.Items)
	assert.False(t, page.HasNextPage)
	assert.Empty(t, page.NextCursor)
}

func TestPaginate_Error(t *testing.T) {
	_, err := Paginate(Params{}, func(*Cursor, int) ([]row, error) { return nil, errors.New("boom") }, nil)
	assert.ErrorContains(t, err, "boom")
}

func TestNormalizeParams(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeParams(Params{}).Limit)
	assert.Equal(t, MaxLimit, NormalizeParams(Params{Limit: 5000}).Limit)
}
