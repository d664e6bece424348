package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/cookscorner/core/account/structs"
	"github.com/ncobase/cookscorner/data"
	"github.com/ncobase/cookscorner/data/config"
)

// CodeKind selects the table an action code lives in.
type CodeKind string

const (
	ConfirmationCode CodeKind = "confirmation_codes"
	ResetCode        CodeKind = "reset_codes"
)

// CodeRepositoryInterface stores at most one live code per account.
type CodeRepositoryInterface interface {
	Upsert(ctx context.Context, accountID, code string) error
	Get(ctx context.Context, accountID string) (*structs.ActionCode, error)
	Consume(ctx context.Context, accountID, code string) (bool, error)
}

type codeRepository struct {
	db      data.DBTX
	dialect string
	table   CodeKind
}

// NewCodeRepository creates a code repository for kind.
func NewCodeRepository(db data.DBTX, dialect string, kind CodeKind) CodeRepositoryInterface {
	return &codeRepository{db: db, dialect: dialect, table: kind}
}

func (r *codeRepository) upsertQuery() string {
	if r.dialect == config.DriverMySQL {
		return `INSERT INTO ` + string(r.table) + ` (account_id, code, created_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE code = VALUES(code), created_at = VALUES(created_at)`
	}
	return `INSERT INTO ` + string(r.table) + ` (account_id, code, created_at) VALUES (?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE SET code = excluded.code, created_at = excluded.created_at`
}

// Upsert overwrites the account's code.
func (r *codeRepository) Upsert(ctx context.Context, accountID, code string) error {
	if _, err := r.db.ExecContext(ctx, r.upsertQuery(), accountID, code, data.FormatTime(time.Now())); err != nil {
		return fmt.Errorf("upsert %s: %w", r.table, err)
	}
	return nil
}

// Get returns the account's current code.
func (r *codeRepository) Get(ctx context.Context, accountID string) (*structs.ActionCode, error) {
	var (
		c         structs.ActionCode
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT account_id, code, created_at FROM `+string(r.table)+` WHERE account_id = ?`, accountID,
	).Scan(&c.AccountID, &c.Code, &createdAt)
	if err != nil {
		return nil, notFound(err)
	}
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}

// Consume deletes the code only if it still equals code, reporting whether it did.
func (r *codeRepository) Consume(ctx context.Context, accountID, code string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM `+string(r.table)+` WHERE account_id = ? AND code = ?`, accountID, code)
	if err != nil {
		return false, fmt.Errorf("consume %s: %w", r.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
