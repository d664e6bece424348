package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ncobase/cookscorner/core/account/structs"
	"github.com/ncobase/cookscorner/data"
	"github.com/ncobase/cookscorner/nanoid"
)

// AccountRepositoryInterface represents the account repository interface.
type AccountRepositoryInterface interface {
	Create(ctx context.Context, account *structs.Account) (*structs.Account, error)
	GetByID(ctx context.Context, id string) (*structs.Account, error)
	GetByEmail(ctx context.Context, email string) (*structs.Account, error)
	MarkVerified(ctx context.Context, id string) (bool, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// accountRepository implements the AccountRepositoryInterface.
type accountRepository struct {
	db data.DBTX
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db data.DBTX) AccountRepositoryInterface {
	return &accountRepository{db: db}
}

const accountColumns = `id, email, password, is_verified, is_staff, is_superuser, last_login, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*structs.Account, error) {
	var (
		a         structs.Account
		lastLogin sql.NullString
		createdAt string
	)
	if err := row.Scan(&a.ID, &a.Email, &a.Password, &a.IsVerified, &a.IsStaff, &a.IsSuperuser, &lastLogin, &createdAt); err != nil {
		return nil, notFound(err)
	}
	if lastLogin.Valid {
		t := parseTime(lastLogin.String)
		a.LastLogin = &t
	}
	a.CreatedAt = parseTime(createdAt)
	return &a, nil
}

// Create inserts an account; ID and CreatedAt are filled when empty.
func (r *accountRepository) Create(ctx context.Context, account *structs.Account) (*structs.Account, error) {
	row := *account
	if row.ID == "" {
		row.ID = nanoid.PrimaryKey()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password, is_verified, is_staff, is_superuser, last_login, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL, ?)`,
		row.ID, row.Email, row.Password, row.IsVerified, row.IsStaff, row.IsSuperuser, data.FormatTime(row.CreatedAt),
	)
	if err != nil {
		if data.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return &row, nil
}

// GetByID finds an account by id.
func (r *accountRepository) GetByID(ctx context.Context, id string) (*structs.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

// GetByEmail finds an account by normalized email.
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*structs.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email))
}

// MarkVerified flips is_verified from false to true and reports whether
// this call performed the transition.
func (r *accountRepository) MarkVerified(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET is_verified = ? WHERE id = ? AND is_verified = ?`, true, id, false)
	if err != nil {
		return false, fmt.Errorf("verify account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpdatePassword replaces the stored password hash.
func (r *accountRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.updateOne(ctx, `UPDATE accounts SET password = ? WHERE id = ?`, hash, id)
}

// UpdateLastLogin records a successful login.
func (r *accountRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.updateOne(ctx, `UPDATE accounts SET last_login = ? WHERE id = ?`, data.FormatTime(at), id)
}

// Delete removes an account. Codes, profile and recipes go with it by cascade.
func (r *accountRepository) Delete(ctx context.Context, id string) error {
	return r.updateOne(ctx, `DELETE FROM accounts WHERE id = ?`, id)
}

func (r *accountRepository) updateOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
