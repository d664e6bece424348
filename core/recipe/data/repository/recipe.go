// Package repository persists recipes, their ingredients and the like and
// save relations.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncobase/cookscorner/core/recipe/structs"
	"github.com/ncobase/cookscorner/data"
	"github.com/ncobase/cookscorner/nanoid"
	"github.com/ncobase/cookscorner/paging"
)

var (
	// ErrNotFound is returned when a lookup matches no recipe.
	ErrNotFound = errors.New("recipe not found")
	// ErrDuplicate is returned when the slug is already taken.
	ErrDuplicate = errors.New("recipe slug already exists")
)

// Relation names a profile-to-recipe relation table.
type Relation string

const (
	Likes Relation = "recipe_likes"
	Saves Relation = "recipe_saves"
)

// RecipeRepositoryInterface represents the recipe repository interface.
type RecipeRepositoryInterface interface {
	Create(ctx context.Context, r *structs.Recipe) (*structs.Recipe, error)
	AddIngredients(ctx context.Context, recipeID string, ingredients []structs.Ingredient) error
	SlugTaken(ctx context.Context, slug string) (bool, error)
	GetBySlug(ctx context.Context, slug, viewerID string) (*structs.Recipe, error)
	Ingredients(ctx context.Context, recipeID string) ([]structs.Ingredient, error)
	List(ctx context.Context, filter structs.ListFilter, viewerID string, cursor *paging.Cursor, limit int) ([]*structs.Recipe, error)
	Toggle(ctx context.Context, rel Relation, recipeID, profileID string) (bool, error)
}

type recipeRepository struct {
	db data.DBTX
}

// NewRecipeRepository creates a new recipe repository.
func NewRecipeRepository(db data.DBTX) RecipeRepositoryInterface {
	return &recipeRepository{db: db}
}

// Create inserts the recipe row.
func (r *recipeRepository) Create(ctx context.Context, rec *structs.Recipe) (*structs.Recipe, error) {
	row := *rec
	if row.ID == "" {
		row.ID = nanoid.PrimaryKey()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	var image any
	if row.Image != "" {
		image = row.Image
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recipes (id, slug, name, description, category, difficulty, preparation_time, image, author_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.Slug, row.Name, row.Description, row.Category, row.Difficulty,
		row.PreparationTime, image, row.AuthorID, data.FormatTime(row.CreatedAt),
	)
	if err != nil {
		if data.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	return &row, nil
}

// AddIngredients stores the ingredient list in order.
func (r *recipeRepository) AddIngredients(ctx context.Context, recipeID string, ingredients []structs.Ingredient) error {
	for i, ing := range ingredients {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, position, name, amount) VALUES (?, ?, ?, ?)`,
			recipeID, i, ing.Name, ing.Amount); err != nil {
			return fmt.Errorf("insert ingredient %d: %w", i, err)
		}
	}
	return nil
}

// SlugTaken reports whether a recipe already uses slug.
func (r *recipeRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes WHERE slug = ?`, slug).Scan(&n)
	return n > 0, err
}

// selectRecipe takes the viewer profile id twice, for is_liked and is_saved.
const selectRecipe = `
	SELECT r.id, r.slug, r.name, r.description, r.category, r.difficulty, r.preparation_time,
		r.image, r.author_id, r.created_at, p.username, p.slug, p.profile_picture,
		(SELECT COUNT(*) FROM recipe_likes l WHERE l.recipe_id = r.id),
		(SELECT COUNT(*) FROM recipe_saves s WHERE s.recipe_id = r.id),
		(SELECT COUNT(*) FROM recipe_likes l WHERE l.recipe_id = r.id AND l.profile_id = ?),
		(SELECT COUNT(*) FROM recipe_saves s WHERE s.recipe_id = r.id AND s.profile_id = ?)
	FROM recipes r JOIN profiles p ON p.id = r.author_id`

func scanRecipe(row interface{ Scan(...any) error }) (*structs.Recipe, error) {
	var (
		rec              structs.Recipe
		author           structs.Author
		image, pic       sql.NullString
		createdAt        string
		isLiked, isSaved int
	)
	err := row.Scan(&rec.ID, &rec.Slug, &rec.Name, &rec.Description, &rec.Category, &rec.Difficulty,
		&rec.PreparationTime, &image, &rec.AuthorID, &createdAt, &author.Username, &author.Slug, &pic,
		&rec.LikesCount, &rec.SavesCount, &isLiked, &isSaved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.Image = image.String
	author.ProfilePicture = pic.String
	rec.Author = &author
	rec.IsLiked = isLiked > 0
	rec.IsSaved = isSaved > 0
	rec.CreatedAt, _ = data.ParseTime(createdAt)
	return &rec, nil
}

// GetBySlug finds a recipe by slug with counters for viewerID.
func (r *recipeRepository) GetBySlug(ctx context.Context, slug, viewerID string) (*structs.Recipe, error) {
	return scanRecipe(r.db.QueryRowContext(ctx, selectRecipe+` WHERE r.slug = ?`, viewerID, viewerID, slug))
}

// Ingredients returns the ingredient list of a recipe in insertion order.
func (r *recipeRepository) Ingredients(ctx context.Context, recipeID string) ([]structs.Ingredient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, amount FROM recipe_ingredients WHERE recipe_id = ? ORDER BY position`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []structs.Ingredient{}
	for rows.Next() {
		var ing structs.Ingredient
		if err := rows.Scan(&ing.Name, &ing.Amount); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// List pages recipes matching filter, newest first.
func (r *recipeRepository) List(ctx context.Context, filter structs.ListFilter, viewerID string, cursor *paging.Cursor, limit int) ([]*structs.Recipe, error) {
	var (
		where []string
		args  = []any{viewerID, viewerID}
	)
	if filter.Category != "" {
		where = append(where, `r.category = ?`)
		args = append(args, filter.Category)
	}
	if filter.AuthorID != "" {
		where = append(where, `r.author_id = ?`)
		args = append(args, filter.AuthorID)
	}
	if filter.SavedBy != "" {
		where = append(where, `EXISTS (SELECT 1 FROM recipe_saves sb WHERE sb.recipe_id = r.id AND sb.profile_id = ?)`)
		args = append(args, filter.SavedBy)
	}
	if filter.NameLike != "" {
		where = append(where, `LOWER(r.name) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.NameLike)+"%")
	}
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return nil, nil
		}
		where = append(where, `r.id IN (?`+strings.Repeat(`, ?`, len(filter.IDs)-1)+`)`)
		for _, id := range filter.IDs {
			args = append(args, id)
		}
	}
	if cursor != nil {
		at := data.FormatTime(cursor.CreatedAt)
		where = append(where, `(r.created_at < ? OR (r.created_at = ? AND r.id < ?))`)
		args = append(args, at, at, cursor.ID)
	}

	query := selectRecipe
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY r.created_at DESC, r.id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var out []*structs.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Toggle removes the relation if present and adds it otherwise. It reports
// whether the relation exists afterwards.
func (r *recipeRepository) Toggle(ctx context.Context, rel Relation, recipeID, profileID string) (bool, error) {
	if rel != Likes && rel != Saves {
		return false, fmt.Errorf("unknown relation %q", rel)
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM `+string(rel)+` WHERE recipe_id = ? AND profile_id = ?`, recipeID, profileID)
	if err != nil {
		return false, fmt.Errorf("toggle %s: %w", rel, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO `+string(rel)+` (recipe_id, profile_id, created_at) VALUES (?, ?, ?)`,
		recipeID, profileID, data.FormatTime(time.Now()))
	if err != nil && !data.IsUniqueViolation(err) {
		return false, fmt.Errorf("toggle %s: %w", rel, err)
	}
	return true, nil
}
