package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/cookscorner/config"
	"github.com/ncobase/cookscorner/core/account/data/repository"
	"github.com/ncobase/cookscorner/core/account/structs"
	"github.com/ncobase/cookscorner/nanoid"
	"github.com/ncobase/cookscorner/security/jwt"
)

// TokenService mints and checks action tokens and session token pairs.
type TokenService struct {
	jwt        *jwt.TokenManager
	denylist   repository.Denylist
	accessTTL  time.Duration
	refreshTTL time.Duration
	actionTTL  time.Duration
}

// NewTokenService creates a token service from the jwt config.
func NewTokenService(tm *jwt.TokenManager, denylist repository.Denylist, cfg *config.JWT) *TokenService {
	ts := &TokenService{jwt: tm, denylist: denylist}
	if cfg != nil {
		ts.accessTTL = cfg.AccessExpire
		ts.refreshTTL = cfg.RefreshExpire
		ts.actionTTL = cfg.ActionExpire
	}
	return ts
}

// MintActionToken returns a token for purpose together with the fresh code
// embedded in it.
func (t *TokenService) MintActionToken(accountID string, purpose jwt.Purpose) (string, string, error) {
	code := nanoid.Code()
	token, _, err := t.jwt.GenerateActionToken(accountID, purpose, code, t.actionTTL)
	if err != nil {
		return "", "", fmt.Errorf("mint %s token: %w", purpose, err)
	}
	return token, code, nil
}

// ParseActionToken verifies an action token of the given purpose.
// Undecodable tokens yield ErrMalformedToken; expired or mis-purposed ones
// yield ErrInvalidOrExpiredToken. An expired token of the right purpose also
// returns its claims so the caller can still identify the account.
func (t *TokenService) ParseActionToken(token string, purpose jwt.Purpose) (*jwt.Claims, error) {
	claims, err := t.jwt.ValidatePurpose(token, purpose)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		if expired, perr := t.jwt.ParseExpired(token); perr == nil && expired.Purpose == purpose {
			return expired, ErrInvalidOrExpiredToken
		}
		return nil, ErrInvalidOrExpiredToken
	case errors.Is(err, jwt.ErrPurposeMismatch):
		return nil, ErrInvalidOrExpiredToken
	default:
		return nil, ErrMalformedToken
	}
}

// IssuePair issues a fresh access/refresh pair.
func (t *TokenService) IssuePair(accountID string) (*structs.TokenPair, error) {
	access, err := t.IssueAccess(accountID)
	if err != nil {
		return nil, err
	}
	refresh, _, err := t.jwt.GenerateRefreshToken(accountID, nil, t.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &structs.TokenPair{Access: access.Access, Refresh: refresh}, nil
}

// IssueAccess issues a single access token.
func (t *TokenService) IssueAccess(accountID string) (*structs.AccessToken, error) {
	access, _, err := t.jwt.GenerateAccessToken(accountID, nil, t.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	return &structs.AccessToken{Access: access}, nil
}

// ParseAccess verifies an access token and returns its claims.
func (t *TokenService) ParseAccess(token string) (*jwt.Claims, error) {
	claims, err := t.jwt.ValidatePurpose(token, jwt.PurposeAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseRefresh verifies a refresh token that has not been revoked.
func (t *TokenService) ParseRefresh(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := t.jwt.ValidatePurpose(token, jwt.PurposeRefresh)
	if err != nil || claims.JTI == "" {
		return nil, ErrInvalidToken
	}
	revoked, err := t.denylist.Contains(ctx, claims.JTI)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke denylists a refresh token for the rest of its lifetime.
func (t *TokenService) Revoke(ctx context.Context, claims *jwt.Claims) error {
	if err := t.denylist.Add(ctx, claims.JTI, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
