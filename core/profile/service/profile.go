// Package service implements profile lookup, editing and follow relations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ncobase/cookscorner/core/profile/data/repository"
	"github.com/ncobase/cookscorner/core/profile/structs"
	"github.com/ncobase/cookscorner/logging/logger"
	"github.com/ncobase/cookscorner/paging"
	"github.com/ncobase/cookscorner/util"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrCannotFollowSelf = errors.New("cannot follow own profile")
)

const (
	maxUsernameLength = 255
	slugFallback      = "user"
	slugRetries       = 3
)

// Linker creates the profile that belongs to a new account.
type Linker interface {
	Create(ctx context.Context, accountID, username string) (*structs.Profile, error)
}

// Service is the profile service.
type Service struct {
	repo repository.ProfileRepositoryInterface
}

var _ Linker = (*Service)(nil)

// New creates a new profile service.
func New(repo repository.ProfileRepositoryInterface) *Service {
	return &Service{repo: repo}
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || len([]rune(username)) > maxUsernameLength {
		return "", ErrInvalidUsername
	}
	return username, nil
}

// Create links a new profile to accountID with a slug derived from username.
func (s *Service) Create(ctx context.Context, accountID, username string) (*structs.Profile, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		slug, err := util.UniqueSlug(ctx, username, slugFallback, func(ctx context.Context, candidate string) (bool, error) {
			return s.repo.SlugTaken(ctx, candidate, "")
		})
		if err != nil {
			return nil, err
		}
		p, err := s.repo.Create(ctx, &structs.Profile{AccountID: accountID, Username: username, Slug: slug})
		if err == nil {
			return p, nil
		}
		// A concurrent signup may claim the same slug between lookup and insert.
		if !errors.Is(err, repository.ErrDuplicate) || attempt >= slugRetries {
			return nil, err
		}
	}
}

// GetByAccount returns the caller's bare profile.
func (s *Service) GetByAccount(ctx context.Context, accountID string) (*structs.Profile, error) {
	p, err := s.repo.GetByAccount(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

// GetBySlug returns a profile by slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*structs.Profile, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

// View returns the profile at slug with counters, as seen by viewerAccountID.
func (s *Service) View(ctx context.Context, slug, viewerAccountID string) (*structs.ProfileView, error) {
	p, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p, viewerAccountID)
}

// ViewMine returns the caller's profile with counters.
func (s *Service) ViewMine(ctx context.Context, accountID string) (*structs.ProfileView, error) {
	p, err := s.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p, accountID)
}

func (s *Service) view(ctx context.Context, p *structs.Profile, viewerAccountID string) (*structs.ProfileView, error) {
	followers, following, recipes, err := s.repo.Counts(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("profile counts: %w", err)
	}
	v := &structs.ProfileView{Profile: p, FollowersCount: followers, FollowingCount: following, RecipesCount: recipes}
	if viewerAccountID != "" && viewerAccountID != p.AccountID {
		viewer, err := s.GetByAccount(ctx, viewerAccountID)
		if err != nil {
			return nil, err
		}
		if v.IsFollowed, err = s.repo.IsFollowing(ctx, viewer.ID, p.ID); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// UpdateMine applies body to the caller's profile. A new username
// regenerates the slug.
func (s *Service) UpdateMine(ctx context.Context, accountID string, body *structs.UpdateProfileBody) (*structs.ProfileView, error) {
	p, err := s.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if body.Username != nil {
		username, err := normalizeUsername(*body.Username)
		if err != nil {
			return nil, err
		}
		if username != p.Username {
			p.Username = username
			p.Slug, err = util.UniqueSlug(ctx, username, slugFallback, func(ctx context.Context, candidate string) (bool, error) {
				return s.repo.SlugTaken(ctx, candidate, p.ID)
			})
			if err != nil {
				return nil, err
			}
		}
	}
	if body.Bio != nil {
		p.Bio = *body.Bio
	}
	if body.ProfilePicture != nil {
		p.ProfilePicture = *body.ProfilePicture
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.view(ctx, p, accountID)
}

// ToggleFollow follows or unfollows the profile at slug and reports
// whether the caller follows it afterwards.
func (s *Service) ToggleFollow(ctx context.Context, accountID, slug string) (bool, error) {
	me, err := s.GetByAccount(ctx, accountID)
	if err != nil {
		return false, err
	}
	target, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return false, err
	}
	if me.ID == target.ID {
		return false, ErrCannotFollowSelf
	}

	following, err := s.repo.IsFollowing(ctx, me.ID, target.ID)
	if err != nil {
		return false, err
	}
	if following {
		err = s.repo.Unfollow(ctx, me.ID, target.ID)
	} else {
		err = s.repo.Follow(ctx, me.ID, target.ID)
	}
	if err != nil {
		return false, err
	}
	logger.Debugf(ctx, "profile %s follow %s: %t", me.ID, target.ID, !following)
	return !following, nil
}

// ListFollowers pages the followers of the profile at slug.
func (s *Service) ListFollowers(ctx context.Context, slug string, params paging.Params) (*paging.Result[*structs.ProfileSummary], error) {
	return s.listRelation(ctx, slug, params, s.repo.ListFollowers)
}

// ListFollowing pages the profiles followed by the profile at slug.
func (s *Service) ListFollowing(ctx context.Context, slug string, params paging.Params) (*paging.Result[*structs.ProfileSummary], error) {
	return s.listRelation(ctx, slug, params, s.repo.ListFollowing)
}

type relationLister func(ctx context.Context, id string, cursor *paging.Cursor, limit int) ([]*structs.ProfileSummary, error)

func (s *Service) listRelation(ctx context.Context, slug string, params paging.Params, list relationLister) (*paging.Result[*structs.ProfileSummary], error) {
	p, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return paging.Paginate(params,
		func(cursor *paging.Cursor, limit int) ([]*structs.ProfileSummary, error) {
			return list(ctx, p.ID, cursor, limit)
		},
		func(ps *structs.ProfileSummary) paging.Cursor {
			return paging.Cursor{CreatedAt: ps.Since, ID: ps.ID}
		},
	)
}
