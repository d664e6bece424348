// Package postgres registers a PostgreSQL driver backed by github.com/jackc/pgx/v5/stdlib.
//
//	import _ "github.com/ncobase/cookscorner/data/postgres"
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ncobase/cookscorner/data"
	"github.com/ncobase/cookscorner/data/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

const uniqueViolation = "23505"

type driver struct{}

func (d *driver) Name() string { return config.DriverPostgres }

func (d *driver) Bindvar() data.Bindvar { return data.BindDollar }

func (d *driver) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Connect opens the database described by a *config.DBNode.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	dbCfg, ok := cfg.(*config.DBNode)
	if !ok {
		return nil, fmt.Errorf("postgres: invalid configuration type, expected *config.DBNode")
	}
	if dbCfg.Source == "" {
		return nil, fmt.Errorf("postgres: connection source is empty")
	}

	db, err := sql.Open("pgx", dbCfg.Source)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open connection: %w", err)
	}

	if dbCfg.MaxIdleConn > 0 {
		db.SetMaxIdleConns(dbCfg.MaxIdleConn)
	}
	if dbCfg.MaxOpenConn > 0 {
		db.SetMaxOpenConns(dbCfg.MaxOpenConn)
	}
	if dbCfg.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(dbCfg.ConnMaxLifeTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}
	return db, nil
}

func (d *driver) Close(conn any) error {
	db, ok := conn.(*sql.DB)
	if !ok {
		return fmt.Errorf("postgres: invalid connection type, expected *sql.DB")
	}
	return db.Close()
}

func (d *driver) Ping(ctx context.Context, conn any) error {
	db, ok := conn.(*sql.DB)
	if !ok {
		return fmt.Errorf("postgres: invalid connection type, expected *sql.DB")
	}
	return db.PingContext(ctx)
}

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
