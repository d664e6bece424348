// Package service implements the account lifecycle: signup, verification,
// sessions, logout, deletion and password management.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/cookscorner/core/account/data/repository"
	"github.com/ncobase/cookscorner/core/account/structs"
	profileService "github.com/ncobase/cookscorner/core/profile/service"
	"github.com/ncobase/cookscorner/crypto"
	"github.com/ncobase/cookscorner/logging/logger"
	"github.com/ncobase/cookscorner/security/jwt"
	"github.com/ncobase/cookscorner/validator"
)

// ResetCheck selects how ForgotPasswordChange treats the stored reset code.
type ResetCheck string

const (
	// ResetCheckNone accepts any well-signed unexpired change-password token.
	ResetCheckNone ResetCheck = "none"
	// ResetCheckStoredCode also requires the embedded code to match the
	// current reset code and consumes it, so each link works once.
	ResetCheckStoredCode ResetCheck = "stored_code"
)

// ParseResetCheck maps a config value to a ResetCheck, defaulting to stored_code.
func ParseResetCheck(s string) (ResetCheck, error) {
	switch ResetCheck(s) {
	case "", ResetCheckStoredCode:
		return ResetCheckStoredCode, nil
	case ResetCheckNone:
		return ResetCheckNone, nil
	}
	return "", fmt.Errorf("unknown reset check %q", s)
}

// Dependencies are the collaborators of the account service.
type Dependencies struct {
	Accounts      repository.AccountRepositoryInterface
	Confirmations repository.CodeRepositoryInterface
	Resets        repository.CodeRepositoryInterface
	Tokens        *TokenService
	Notifier      Notifier
	Profiles      profileService.Linker
	Policy        validator.PasswordPolicy
	ResetCheck    ResetCheck
}

// Service is the account lifecycle service.
type Service struct {
	accounts      repository.AccountRepositoryInterface
	confirmations repository.CodeRepositoryInterface
	resets        repository.CodeRepositoryInterface
	tokens        *TokenService
	notifier      Notifier
	profiles      profileService.Linker
	policy        validator.PasswordPolicy
	resetCheck    ResetCheck
	now           func() time.Time
}

// New creates a new account service.
func New(d Dependencies) *Service {
	rc := d.ResetCheck
	if rc == "" {
		rc = ResetCheckStoredCode
	}
	return &Service{
		accounts:      d.Accounts,
		confirmations: d.Confirmations,
		resets:        d.Resets,
		tokens:        d.Tokens,
		notifier:      d.Notifier,
		profiles:      d.Profiles,
		policy:        d.Policy,
		resetCheck:    rc,
		now:           time.Now,
	}
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, id string) (*structs.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	return account, err
}

// Authenticate resolves a bearer access token to its live account.
func (s *Service) Authenticate(ctx context.Context, access string) (*structs.Account, error) {
	claims, err := s.tokens.ParseAccess(access)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.GetByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	return account, err
}

func (s *Service) checkPassword(password string) error {
	if err := s.policy.Validate(password); err != nil {
		return fmt.Errorf("%w: %w", ErrWeakPassword, err)
	}
	return nil
}

// Signup registers an unverified account, links its profile, sends the
// verification link and returns a session token pair.
//
// When only the verification email fails, the pair is returned together with
// an error wrapping ErrNotificationFailed.
func (s *Service) Signup(ctx context.Context, body *structs.SignupBody) (*structs.TokenPair, error) {
	email := structs.NormalizeEmail(body.Email)

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if body.Password != body.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}
	if err := s.checkPassword(body.Password); err != nil {
		return nil, err
	}

	hash, err := crypto.HashPassword(ctx, body.Password)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.Create(ctx, &structs.Account{Email: email, Password: hash})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicateAccount
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.profiles.Create(ctx, account.ID, body.Username); err != nil {
		logger.Warnf(ctx, "profile for account %s not created: %v", account.ID, err)
		if derr := s.accounts.Delete(ctx, account.ID); derr != nil {
			logger.Errorf(ctx, "compensating delete of account %s failed: %v", account.ID, derr)
		}
		return nil, ErrProfileCreationFailed
	}

	notifyErr := s.sendActionToken(ctx, account, jwt.PurposeVerifyAccount)

	pair, err := s.tokens.IssuePair(account.ID)
	if err != nil {
		return nil, err
	}
	if notifyErr != nil {
		logger.Errorf(ctx, "verification email for account %s: %v", account.ID, notifyErr)
		if !errors.Is(notifyErr, ErrNotificationFailed) {
			notifyErr = fmt.Errorf("%w: %w", ErrNotificationFailed, notifyErr)
		}
		return pair, notifyErr
	}
	logger.Infof(ctx, "account %s signed up", account.ID)
	return pair, nil
}

// sendActionToken mints a token, rotates the stored code and dispatches it.
// Dispatch failures are wrapped in ErrNotificationFailed.
func (s *Service) sendActionToken(ctx context.Context, account *structs.Account, purpose jwt.Purpose) error {
	token, code, err := s.tokens.MintActionToken(account.ID, purpose)
	if err != nil {
		return err
	}
	codes := s.confirmations
	if purpose == jwt.PurposeChangePassword {
		codes = s.resets
	}
	if err := codes.Upsert(ctx, account.ID, code); err != nil {
		return err
	}
	if err := s.notifier.Notify(ctx, account, purpose, token); err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	return nil
}

// VerifyEmail marks the token's account verified. An already verified
// account is reported as such even when the link has expired.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	claims, tokenErr := s.tokens.ParseActionToken(token, jwt.PurposeVerifyAccount)
	if claims == nil {
		return tokenErr
	}
	account, err := s.accounts.GetByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidOrExpiredToken
	}
	if err != nil {
		return err
	}
	if account.IsVerified {
		return ErrAlreadyVerified
	}
	if tokenErr != nil {
		return tokenErr
	}

	stored, err := s.confirmations.Get(ctx, account.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidOrExpiredToken
	}
	if err != nil {
		return err
	}
	if stored.Code != claims.Code() {
		return ErrInvalidOrExpiredToken
	}

	changed, err := s.accounts.MarkVerified(ctx, account.ID)
	if err != nil {
		return err
	}
	if !changed {
		return ErrAlreadyVerified
	}
	if _, err := s.confirmations.Consume(ctx, account.ID, stored.Code); err != nil {
		logger.Warnf(ctx, "confirmation code of account %s not removed: %v", account.ID, err)
	}
	logger.Infof(ctx, "account %s verified", account.ID)
	return nil
}

// ResendVerification sends a new verification link, invalidating older ones.
func (s *Service) ResendVerification(ctx context.Context, accountID string) error {
	account, err := s.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if account.IsVerified {
		return ErrAlreadyVerified
	}
	return s.sendActionToken(ctx, account, jwt.PurposeVerifyAccount)
}

// Login checks credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*structs.TokenPair, error) {
	account, err := s.accounts.GetByEmail(ctx, structs.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if !crypto.ComparePassword(account.Password, password) {
		return nil, ErrIncorrectPassword
	}
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, s.now()); err != nil {
		return nil, err
	}
	return s.tokens.IssuePair(account.ID)
}

// RefreshSession exchanges a live refresh token for a new access token.
func (s *Service) RefreshSession(ctx context.Context, refresh string) (*structs.AccessToken, error) {
	claims, err := s.tokens.ParseRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if _, err := s.accounts.GetByID(ctx, claims.Subject); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.tokens.IssueAccess(claims.Subject)
}

// ownRefresh parses a refresh token that must belong to accountID.
func (s *Service) ownRefresh(ctx context.Context, accountID, refresh string) (*jwt.Claims, error) {
	claims, err := s.tokens.ParseRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if claims.Subject != accountID {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Logout revokes the caller's refresh token.
func (s *Service) Logout(ctx context.Context, accountID, refresh string) error {
	claims, err := s.ownRefresh(ctx, accountID, refresh)
	if err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, claims)
}

// DeleteAccount revokes the refresh token and deletes the account with
// everything it owns.
func (s *Service) DeleteAccount(ctx context.Context, accountID, refresh string) error {
	claims, err := s.ownRefresh(ctx, accountID, refresh)
	if err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	logger.Infof(ctx, "account %s deleted", accountID)
	return nil
}

// ChangePassword replaces the password of an authenticated account.
func (s *Service) ChangePassword(ctx context.Context, accountID string, body *structs.ChangePasswordBody) error {
	account, err := s.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if !crypto.ComparePassword(account.Password, body.OldPassword) {
		return ErrIncorrectPassword
	}
	if body.NewPassword != body.NewPasswordConfirm {
		return ErrPasswordMismatch
	}
	if err := s.checkPassword(body.NewPassword); err != nil {
		return err
	}
	return s.setPassword(ctx, account.ID, body.NewPassword)
}

func (s *Service) setPassword(ctx context.Context, accountID, password string) error {
	hash, err := crypto.HashPassword(ctx, password)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, accountID, hash)
}

// ForgotPassword sends a password reset link.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmail(ctx, structs.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	return s.sendActionToken(ctx, account, jwt.PurposeChangePassword)
}

// ForgotPasswordChange sets a new password using a reset token.
func (s *Service) ForgotPasswordChange(ctx context.Context, token string, body *structs.ResetPasswordBody) error {
	claims, err := s.tokens.ParseActionToken(token, jwt.PurposeChangePassword)
	if err != nil {
		return err
	}
	account, err := s.accounts.GetByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidOrExpiredToken
	}
	if err != nil {
		return err
	}
	if body.Password != body.PasswordConfirm {
		return ErrPasswordMismatch
	}
	if err := s.checkPassword(body.Password); err != nil {
		return err
	}

	if s.resetCheck == ResetCheckStoredCode {
		ok, err := s.resets.Consume(ctx, account.ID, claims.Code())
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidOrExpiredToken
		}
	}
	return s.setPassword(ctx, account.ID, body.Password)
}
