// Package service implements recipe publishing, browsing and the like and
// save toggles.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	accountStructs "github.com/ncobase/cookscorner/core/account/structs"
	profileService "github.com/ncobase/cookscorner/core/profile/service"
	profileStructs "github.com/ncobase/cookscorner/core/profile/structs"
	"github.com/ncobase/cookscorner/core/recipe/data/repository"
	"github.com/ncobase/cookscorner/core/recipe/structs"
	"github.com/ncobase/cookscorner/data"
	"github.com/ncobase/cookscorner/logging/logger"
	"github.com/ncobase/cookscorner/paging"
	"github.com/ncobase/cookscorner/util"
	"github.com/ncobase/cookscorner/validator"
)

var (
	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrNotVerified         = errors.New("account is not verified")
	ErrIngredientsRequired = errors.New("ingredients are required")
	ErrInvalidIngredients  = errors.New("invalid ingredients")
)

const (
	slugFallback = "recipe"
	// maxSearchHits bounds the ids taken from the search index per query.
	maxSearchHits = 1000
)

// AccountReader loads the caller's account.
type AccountReader interface {
	Get(ctx context.Context, id string) (*accountStructs.Account, error)
}

// ProfileReader resolves profiles by account and by slug.
type ProfileReader interface {
	GetByAccount(ctx context.Context, accountID string) (*profileStructs.Profile, error)
	GetBySlug(ctx context.Context, slug string) (*profileStructs.Profile, error)
}

// Indexer is the full-text search backend.
type Indexer interface {
	IndexDocuments(ctx context.Context, index string, document any, primaryKey ...string) error
	SearchIDs(ctx context.Context, index, query string, offset, limit int64) ([]string, error)
}

// Dependencies are the collaborators of the recipe service.
type Dependencies struct {
	DB       *data.Data
	Accounts AccountReader
	Profiles ProfileReader
	// Search is optional; listings fall back to SQL when it is nil.
	Search Indexer
	Index  string
}

// Service is the recipe service.
type Service struct {
	db       *data.Data
	repo     repository.RecipeRepositoryInterface
	accounts AccountReader
	profiles ProfileReader
	search   Indexer
	index    string
}

// New creates a new recipe service.
func New(d Dependencies) *Service {
	return &Service{
		db:       d.DB,
		repo:     repository.NewRecipeRepository(d.DB),
		accounts: d.Accounts,
		profiles: d.Profiles,
		search:   d.Search,
		index:    d.Index,
	}
}

// viewer is the caller's profile id, empty when the account has no profile.
func (s *Service) viewer(ctx context.Context, accountID string) (string, error) {
	p, err := s.profiles.GetByAccount(ctx, accountID)
	if errors.Is(err, profileService.ErrProfileNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// verifiedProfile returns the caller's profile id, requiring a verified account.
func (s *Service) verifiedProfile(ctx context.Context, accountID string) (string, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return "", err
	}
	if !account.IsVerified {
		return "", ErrNotVerified
	}
	p, err := s.profiles.GetByAccount(ctx, accountID)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// ParseIngredients decodes and validates a raw ingredient list.
func ParseIngredients(raw json.RawMessage) ([]structs.Ingredient, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrIngredientsRequired
	}
	var ingredients []structs.Ingredient
	if err := json.Unmarshal(trimmed, &ingredients); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIngredients, err)
	}
	if len(ingredients) == 0 {
		return nil, ErrInvalidIngredients
	}
	for i := range ingredients {
		if fields := validator.ValidateStruct(&ingredients[i]); len(fields) > 0 {
			return nil, fmt.Errorf("%w: item %d", ErrInvalidIngredients, i)
		}
	}
	return ingredients, nil
}

// Get returns the recipe at slug with its ingredients.
func (s *Service) Get(ctx context.Context, accountID, slug string) (*structs.Recipe, error) {
	viewerID, err := s.viewer(ctx, accountID)
	if err != nil {
		return nil, err
	}
	rec, err := s.repo.GetBySlug(ctx, slug, viewerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	if rec.Ingredients, err = s.repo.Ingredients(ctx, rec.ID); err != nil {
		return nil, err
	}
	return rec, nil
}

// Create publishes a recipe authored by the caller's profile. The recipe and
// its ingredients are written in one transaction.
func (s *Service) Create(ctx context.Context, accountID string, body *structs.CreateRecipeBody) (*structs.Recipe, error) {
	authorID, err := s.verifiedProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}
	ingredients, err := ParseIngredients(body.Ingredients)
	if err != nil {
		return nil, err
	}

	rec := &structs.Recipe{
		Name:            body.Name,
		Description:     body.Description,
		Category:        body.Category,
		Difficulty:      body.Difficulty,
		PreparationTime: body.PreparationTime,
		Image:           body.Image,
		AuthorID:        authorID,
	}
	if rec.Category == "" {
		rec.Category = structs.CategoryBreakfast
	}
	if rec.Difficulty == "" {
		rec.Difficulty = structs.DifficultyEasy
	}

	err = s.db.WithTx(ctx, func(ctx context.Context, tx data.DBTX) error {
		repo := repository.NewRecipeRepository(tx)
		slug, err := util.UniqueSlug(ctx, rec.Name, slugFallback, repo.SlugTaken)
		if err != nil {
			return err
		}
		rec.Slug = slug
		created, err := repo.Create(ctx, rec)
		if err != nil {
			return err
		}
		if err := repo.AddIngredients(ctx, created.ID, ingredients); err != nil {
			return err
		}
		rec = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	rec.Ingredients = ingredients

	s.indexRecipe(ctx, rec)
	logger.Infof(ctx, "recipe %s created by profile %s", rec.ID, authorID)
	return rec, nil
}

// indexRecipe adds rec to the search index; failures are logged and dropped.
func (s *Service) indexRecipe(ctx context.Context, rec *structs.Recipe) {
	if s.search == nil {
		return
	}
	doc := []structs.Document{{ID: rec.ID, Slug: rec.Slug, Name: rec.Name, Category: rec.Category}}
	if err := s.search.IndexDocuments(ctx, s.index, doc, "id"); err != nil {
		logger.Warnf(ctx, "index recipe %s: %v", rec.ID, err)
	}
}

func (s *Service) list(ctx context.Context, accountID string, filter structs.ListFilter, params paging.Params) (*paging.Result[*structs.Recipe], error) {
	viewerID, err := s.viewer(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return paging.Paginate(params,
		func(cursor *paging.Cursor, limit int) ([]*structs.Recipe, error) {
			return s.repo.List(ctx, filter, viewerID, cursor, limit)
		},
		func(r *structs.Recipe) paging.Cursor {
			return paging.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
		},
	)
}

// ListByCategory pages the recipes of category, Breakfast when empty.
func (s *Service) ListByCategory(ctx context.Context, accountID, category string, params paging.Params) (*paging.Result[*structs.Recipe], error) {
	if category == "" {
		category = structs.CategoryBreakfast
	}
	return s.list(ctx, accountID, structs.ListFilter{Category: category}, params)
}

// ListByChef pages the recipes written by the profile at slug.
func (s *Service) ListByChef(ctx context.Context, accountID, slug string, params paging.Params) (*paging.Result[*structs.Recipe], error) {
	author, err := s.profiles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, accountID, structs.ListFilter{AuthorID: author.ID}, params)
}

// ListSaved pages the recipes the caller saved.
func (s *Service) ListSaved(ctx context.Context, accountID string, params paging.Params) (*paging.Result[*structs.Recipe], error) {
	me, err := s.profiles.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, accountID, structs.ListFilter{SavedBy: me.ID}, params)
}

// Search pages recipes whose name matches query. The search index is used
// when configured; ids it returns for deleted recipes are skipped.
func (s *Service) Search(ctx context.Context, accountID, query string, params paging.Params) (*paging.Result[*structs.Recipe], error) {
	filter := structs.ListFilter{NameLike: query}
	if s.search != nil && query != "" {
		ids, err := s.search.SearchIDs(ctx, s.index, query, 0, maxSearchHits)
		if err == nil {
			filter = structs.ListFilter{IDs: append([]string{}, ids...)}
		} else {
			logger.Warnf(ctx, "search index unavailable, falling back to sql: %v", err)
		}
	}
	return s.list(ctx, accountID, filter, params)
}

// ToggleLike likes or unlikes the recipe at slug and reports the new state.
func (s *Service) ToggleLike(ctx context.Context, accountID, slug string) (bool, error) {
	return s.toggle(ctx, repository.Likes, accountID, slug)
}

// ToggleSave saves or unsaves the recipe at slug and reports the new state.
func (s *Service) ToggleSave(ctx context.Context, accountID, slug string) (bool, error) {
	return s.toggle(ctx, repository.Saves, accountID, slug)
}

func (s *Service) toggle(ctx context.Context, rel repository.Relation, accountID, slug string) (bool, error) {
	profileID, err := s.verifiedProfile(ctx, accountID)
	if err != nil {
		return false, err
	}
	rec, err := s.repo.GetBySlug(ctx, slug, profileID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, ErrRecipeNotFound
	}
	if err != nil {
		return false, err
	}
	return s.repo.Toggle(ctx, rel, rec.ID, profileID)
}
