package data

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	q := "SELECT id FROM accounts WHERE email = ? AND is_verified = ?"
	assert.Equal(t, q, Rebind(BindQuestion, q))
	assert.Equal(t, "SELECT id FROM accounts WHERE email = $1 AND is_verified = $2", Rebind(BindDollar, q))
}

func TestTimeLayoutOrdersLexicographically(t *testing.T) {
	a := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	b := a.Add(time.Nanosecond * 10)
	assert.Less(t, FormatTime(a), FormatTime(b))
	assert.Len(t, FormatTime(a), len(FormatTime(b)))

	parsed, err := ParseTime(FormatTime(b))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(b))
}

func TestWithTx_Commit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET is_verified = $1")).
		WithArgs(true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	d := NewWithDB(db, BindDollar)
	err = d.WithTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, "UPDATE accounts SET is_verified = ?", true)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_Rollback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = WithTx(context.Background(), db, BindQuestion, nil, func(context.Context, DBTX) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_PanicRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = WithTx(context.Background(), db, BindQuestion, nil, func(context.Context, DBTX) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_UsesEmbeddedMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var gotDir string
	gooseUp = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, NewWithDB(db, BindQuestion).MigrateUp(context.Background()))
	assert.Equal(t, ".", gotDir)

	gooseUp = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("locked")
	}
	assert.ErrorContains(t, NewWithDB(db, BindQuestion).MigrateUp(context.Background()), "locked")
}

func TestGooseDialect(t *testing.T) {
	for driver, want := range map[string]string{"sqlite3": "sqlite3", "postgres": "postgres", "mysql": "mysql"} {
		got, err := gooseDialect(driver)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := gooseDialect("oracle")
	assert.Error(t, err)
}
