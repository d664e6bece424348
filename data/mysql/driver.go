// Package mysql registers a MySQL driver backed by github.com/go-sql-driver/mysql.
//
//	import _ "github.com/ncobase/cookscorner/data/mysql"
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/ncobase/cookscorner/data"
	"github.com/ncobase/cookscorner/data/config"
)

// errDuplicateEntry is ER_DUP_ENTRY.
const errDuplicateEntry = 1062

type driver struct{}

func (d *driver) Name() string { return config.DriverMySQL }

func (d *driver) Bindvar() data.Bindvar { return data.BindQuestion }

func (d *driver) IsUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

// Connect opens the database described by a *config.DBNode.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	dbCfg, ok := cfg.(*config.DBNode)
	if !ok {
		return nil, fmt.Errorf("mysql: invalid configuration type, expected *config.DBNode")
	}
	if dbCfg.Source == "" {
		return nil, fmt.Errorf("mysql: connection source is empty")
	}

	db, err := sql.Open("mysql", dbCfg.Source)
	if err != nil {
		return nil, fmt.Errorf("mysql: failed to open connection: %w", err)
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
		return nil, fmt.Errorf("mysql: failed to ping database: %w", err)
	}
	return db, nil
}

func (d *driver) Close(conn any) error {
	db, ok := conn.(*sql.DB)
	if !ok {
		return fmt.Errorf("mysql: invalid connection type, expected *sql.DB")
	}
	return db.Close()
}

func (d *driver) Ping(ctx context.Context, conn any) error {
	db, ok := conn.(*sql.DB)
	if !ok {
		return fmt.Errorf("mysql: invalid connection type, expected *sql.DB")
	}
	return db.PingContext(ctx)
}

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
