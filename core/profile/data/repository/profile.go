// Package repository persists profiles and follow relations.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/cookscorner/core/profile/structs"
	"github.com/ncobase/cookscorner/data"
	"github.com/ncobase/cookscorner/nanoid"
	"github.com/ncobase/cookscorner/paging"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicate is returned when the account already has a profile or the slug is taken.
	ErrDuplicate = errors.New("profile already exists")
)

// ProfileRepositoryInterface represents the profile repository interface.
type ProfileRepositoryInterface interface {
	Create(ctx context.Context, p *structs.Profile) (*structs.Profile, error)
	GetBySlug(ctx context.Context, slug string) (*structs.Profile, error)
	GetByAccount(ctx context.Context, accountID string) (*structs.Profile, error)
	Update(ctx context.Context, p *structs.Profile) error
	SlugTaken(ctx context.Context, slug, exceptID string) (bool, error)
	Counts(ctx context.Context, id string) (followers, following, recipes int, err error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	ListFollowers(ctx context.Context, id string, cursor *paging.Cursor, limit int) ([]*structs.ProfileSummary, error)
	ListFollowing(ctx context.Context, id string, cursor *paging.Cursor, limit int) ([]*structs.ProfileSummary, error)
}

type profileRepository struct {
	db data.DBTX
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db data.DBTX) ProfileRepositoryInterface {
	return &profileRepository{db: db}
}

const profileColumns = `id, account_id, username, bio, profile_picture, slug, created_at`

func scanProfile(row interface{ Scan(...any) error }) (*structs.Profile, error) {
	var (
		p         structs.Profile
		bio, pic  sql.NullString
		createdAt string
	)
	if err := row.Scan(&p.ID, &p.AccountID, &p.Username, &bio, &pic, &p.Slug, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Bio = bio.String
	p.ProfilePicture = pic.String
	p.CreatedAt, _ = data.ParseTime(createdAt)
	return &p, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Create inserts a profile.
func (r *profileRepository) Create(ctx context.Context, p *structs.Profile) (*structs.Profile, error) {
	row := *p
	if row.ID == "" {
		row.ID = nanoid.PrimaryKey()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, account_id, username, bio, profile_picture, slug, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.AccountID, row.Username, nullable(row.Bio), nullable(row.ProfilePicture), row.Slug, data.FormatTime(row.CreatedAt),
	)
	if err != nil {
		if data.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return &row, nil
}

// GetBySlug finds a profile by slug.
func (r *profileRepository) GetBySlug(ctx context.Context, slug string) (*structs.Profile, error) {
	return scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE slug = ?`, slug))
}

// GetByAccount finds the profile linked to an account.
func (r *profileRepository) GetByAccount(ctx context.Context, accountID string) (*structs.Profile, error) {
	return scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE account_id = ?`, accountID))
}

// Update writes the mutable profile fields.
func (r *profileRepository) Update(ctx context.Context, p *structs.Profile) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET username = ?, bio = ?, profile_picture = ?, slug = ? WHERE id = ?`,
		p.Username, nullable(p.Bio), nullable(p.ProfilePicture), p.Slug, p.ID)
	if err != nil {
		if data.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// mysql reports zero rows for an unchanged row, so confirm existence.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE id = ?`, p.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// SlugTaken reports whether slug belongs to a profile other than exceptID.
func (r *profileRepository) SlugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles WHERE slug = ? AND id <> ?`, slug, exceptID).Scan(&n)
	return n > 0, err
}

// Counts returns follower, following and recipe counters.
func (r *profileRepository) Counts(ctx context.Context, id string) (followers, following, recipes int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE following_id = ?),
			(SELECT COUNT(*) FROM follows WHERE follower_id = ?),
			(SELECT COUNT(*) FROM recipes WHERE author_id = ?)`,
		id, id, id,
	).Scan(&followers, &following, &recipes)
	return
}

// IsFollowing reports whether followerID follows followingID.
func (r *profileRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND following_id = ?`, followerID, followingID).Scan(&n)
	return n > 0, err
}

// Follow adds a follow relation; following twice is a no-op.
func (r *profileRepository) Follow(ctx context.Context, followerID, followingID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, following_id, created_at) VALUES (?, ?, ?)`,
		followerID, followingID, data.FormatTime(time.Now()))
	if err != nil && !data.IsUniqueViolation(err) {
		return fmt.Errorf("follow: %w", err)
	}
	return nil
}

// Unfollow removes a follow relation.
func (r *profileRepository) Unfollow(ctx context.Context, followerID, followingID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`, followerID, followingID)
	return err
}

// ListFollowers pages the profiles following id, newest first.
func (r *profileRepository) ListFollowers(ctx context.Context, id string, cursor *paging.Cursor, limit int) ([]*structs.ProfileSummary, error) {
	return r.listRelation(ctx, "follower_id", "following_id", id, cursor, limit)
}

// ListFollowing pages the profiles id follows, newest first.
func (r *profileRepository) ListFollowing(ctx context.Context, id string, cursor *paging.Cursor, limit int) ([]*structs.ProfileSummary, error) {
	return r.listRelation(ctx, "following_id", "follower_id", id, cursor, limit)
}

func (r *profileRepository) listRelation(ctx context.Context, joinCol, whereCol, id string, cursor *paging.Cursor, limit int) ([]*structs.ProfileSummary, error) {
	query := `
		SELECT p.id, p.username, p.profile_picture, p.slug, f.created_at
		FROM follows f JOIN profiles p ON p.id = f.` + joinCol + `
		WHERE f.` + whereCol + ` = ?`
	args := []any{id}
	if cursor != nil {
		at := data.FormatTime(cursor.CreatedAt)
		query += ` AND (f.created_at < ? OR (f.created_at = ? AND p.id < ?))`
		args = append(args, at, at, cursor.ID)
	}
	query += ` ORDER BY f.created_at DESC, p.id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*structs.ProfileSummary
	for rows.Next() {
		var (
			s     structs.ProfileSummary
			pic   sql.NullString
			since string
		)
		if err := rows.Scan(&s.ID, &s.Username, &pic, &s.Slug, &since); err != nil {
			return nil, err
		}
		s.ProfilePicture = pic.String
		s.Since, _ = data.ParseTime(since)
		out = append(out, &s)
	}
	return out, rows.Err()
}
