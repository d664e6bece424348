package util

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

const (
	// maxSlugAttempts bounds the numeric suffix search in UniqueSlug.
	maxSlugAttempts = 1000
	// maxSlugLength leaves room for a suffix inside a VARCHAR(191) column.
	maxSlugLength = 180
)

// UnicodeSlug - Make slug from unicode string
func UnicodeSlug(s string) string {
	return slug.Make(s)
}

// UniqueSlug slugifies s and appends -2, -3, ... until taken reports the
// candidate as free. An empty slug falls back to fallback.
func UniqueSlug(ctx context.Context, s, fallback string, taken func(context.Context, string) (bool, error)) (string, error) {
	base := UnicodeSlug(s)
	if len(base) > maxSlugLength {
		base = strings.TrimRight(base[:maxSlugLength], "-")
	}
	if base == "" {
		base = fallback
	}

	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free slug for %q", base)
}
