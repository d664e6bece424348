package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/cookscorner/data"
	"github.com/ncobase/cookscorner/data/cache"
	"github.com/redis/go-redis/v9"
)

// Denylist records revoked refresh tokens by jti until they expire.
type Denylist interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// sqlDenylist keeps revoked tokens in the revoked_tokens table.
type sqlDenylist struct {
	db  data.DBTX
	now func() time.Time
}

// NewSQLDenylist creates a table-backed denylist.
func NewSQLDenylist(db data.DBTX) Denylist {
	return &sqlDenylist{db: db, now: time.Now}
}

// Add purges expired rows and records jti. Adding a present jti is a no-op.
func (d *sqlDenylist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	if _, err := d.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, data.FormatTime(d.now())); err != nil {
		return fmt.Errorf("purge revoked tokens: %w", err)
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`, jti, data.FormatTime(expiresAt))
	if err != nil && !data.IsUniqueViolation(err) {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Contains reports whether jti has been revoked.
func (d *sqlDenylist) Contains(ctx context.Context, jti string) (bool, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`, jti).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup revoked token: %w", err)
	}
	return n > 0, nil
}

type revokedToken struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// redisDenylist keeps one key per revoked jti with a TTL of the token's
// remaining lifetime.
type redisDenylist struct {
	c   *cache.Cache[revokedToken]
	now func() time.Time
}

// NewRedisDenylist creates a redis-backed denylist.
func NewRedisDenylist(rc *redis.Client) Denylist {
	return &redisDenylist{c: cache.NewCache[revokedToken](rc, "denylist"), now: time.Now}
}

func (d *redisDenylist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return d.c.Set(ctx, jti, &revokedToken{ExpiresAt: expiresAt}, ttl)
}

func (d *redisDenylist) Contains(ctx context.Context, jti string) (bool, error) {
	return d.c.Exists(ctx, jti)
}
