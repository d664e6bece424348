package util

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnicodeSlug(t *testing.T) {
	assert.Equal(t, "creamy-pasta-carbonara", UnicodeSlug("Creamy Pasta  Carbonara!"))
}

func TestUniqueSlug(t *testing.T) {
	used := map[string]bool{"pancakes": true, "pancakes-2": true}
	taken := func(_ context.Context, s string) (bool, error) { return used[s], nil }

	got, err := UniqueSlug(context.Background(), "Pancakes", "recipe", taken)
	require.NoError(t, err)
	assert.Equal(t, "pancakes-3", got)

	got, err = UniqueSlug(context.Background(), "!!!", "recipe", taken)
	require.NoError(t, err)
	assert.Equal(t, "recipe", got)
}

func TestUniqueSlug_LookupError(t *testing.T) {
	_, err := UniqueSlug(context.Background(), "x", "x", func(context.Context, string) (bool, error) {
		return false, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
}

func TestUniqueSlug_Truncates(t *testing.T) {
	free := func(context.Context, string) (bool, error) { return false, nil }
	got, err := UniqueSlug(context.Background(), strings.Repeat("a", 300), "x", free)
	require.NoError(t, err)
	assert.Len(t, got, maxSlugLength)
}

func TestUniqueSlug_LastAttempt(t *testing.T) {
	last := fmt.Sprintf("soup-%d", maxSlugAttempts)
	var checked []string
	taken := func(_ context.Context, s string) (bool, error) {
		checked = append(checked, s)
		return s != last, nil
	}

	got, err := UniqueSlug(context.Background(), "Soup", "recipe", taken)
	require.NoError(t, err)
	assert.Equal(t, last, got)
	assert.Len(t, checked, maxSlugAttempts)

	_, err = UniqueSlug(context.Background(), "Soup", "recipe", func(context.Context, string) (bool, error) { return true, nil })
	assert.Error(t, err)
}
