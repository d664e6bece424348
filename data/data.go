package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ncobase/cookscorner/data/config"
	"github.com/ncobase/cookscorner/data/meili"
	"github.com/ncobase/cookscorner/logging/logger"
	"github.com/redis/go-redis/v9"
)

// Bindvar is the placeholder style of a SQL dialect.
type Bindvar int

const (
	// BindQuestion uses ? placeholders (sqlite3, mysql).
	BindQuestion Bindvar = iota
	// BindDollar uses $1, $2, ... placeholders (postgres).
	BindDollar
)

// TimeLayout is the fixed-width UTC layout used for every timestamp column,
// so that string comparison orders rows chronologically in all dialects.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a TimeLayout column value.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// Rebind rewrites ? placeholders for the given bindvar.
func Rebind(bv Bindvar, query string) string {
	if bv != BindDollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Data holds the live connections of the data layer.
type Data struct {
	db      *sql.DB
	driver  DatabaseDriver
	bindvar Bindvar

	redis      *redis.Client
	meili      *meili.Client
	meiliIndex string
}

// New connects every configured backend. The database is mandatory, redis
// and meilisearch are optional.
func New(ctx context.Context, cfg *config.Config) (*Data, func(), error) {
	if cfg == nil || cfg.Database == nil || cfg.Database.Master == nil {
		return nil, nil, errors.New("data: database configuration is missing")
	}

	driver, err := GetDatabaseDriver(cfg.Database.Master.Driver)
	if err != nil {
		return nil, nil, err
	}
	conn, err := driver.Connect(ctx, cfg.Database.Master)
	if err != nil {
		return nil, nil, err
	}
	db, ok := conn.(*sql.DB)
	if !ok {
		_ = driver.Close(conn)
		return nil, nil, fmt.Errorf("data: driver %s returned %T, expected *sql.DB", driver.Name(), conn)
	}

	d := &Data{db: db, driver: driver, bindvar: driver.Bindvar()}

	if cfg.Redis.Enabled() {
		rd, err := GetCacheDriver("redis")
		if err != nil {
			d.Close()
			return nil, nil, err
		}
		rc, err := rd.Connect(ctx, cfg.Redis)
		if err != nil {
			d.Close()
			return nil, nil, err
		}
		d.redis, _ = rc.(*redis.Client)
	}

	if cfg.Meilisearch.Enabled() {
		d.meili = meili.NewMeilisearch(cfg.Meilisearch.Host, cfg.Meilisearch.APIKey)
		d.meiliIndex = cfg.Meilisearch.Index
	}

	cleanup := func() {
		for _, err := range d.Close() {
			logger.Errorf(context.Background(), "data cleanup: %v", err)
		}
	}
	return d, cleanup, nil
}

// NewWithDB wraps an already opened database. Used by tests and tools.
func NewWithDB(db *sql.DB, bv Bindvar) *Data {
	return &Data{db: db, bindvar: bv}
}

// DB returns the raw database handle.
func (d *Data) DB() *sql.DB { return d.db }

// Bindvar returns the placeholder style of the connected database.
func (d *Data) Bindvar() Bindvar { return d.bindvar }

// Dialect returns the configured driver name.
func (d *Data) Dialect() string {
	if d.driver == nil {
		return config.DriverSQLite
	}
	return d.driver.Name()
}

// Redis returns the redis client or nil when redis is not configured.
func (d *Data) Redis() *redis.Client { return d.redis }

// Meili returns the meilisearch client and index, or nil when not configured.
func (d *Data) Meili() (*meili.Client, string) { return d.meili, d.meiliIndex }

// Close closes every open connection and returns the errors encountered.
func (d *Data) Close() []error {
	var errs []error
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	return errs
}
