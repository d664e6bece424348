package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ncobase/cookscorner/core/account/data/repository"
	"github.com/ncobase/cookscorner/core/account/structs"
	"github.com/ncobase/cookscorner/crypto"
	"github.com/ncobase/cookscorner/security/jwt"
	"github.com/ncobase/cookscorner/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()

	pair, err := f.svc.Signup(ctx, signupBody(" A@X.com "))
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	account, err := f.accounts.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, account.IsVerified)
	assert.True(t, crypto.ComparePassword(account.Password, "Str0ngPW!"))
	assert.Equal(t, []string{account.ID}, f.linker.created)

	require.Len(t, f.notifier.sent, 1)
	sent := f.notifier.last()
	assert.Equal(t, jwt.PurposeVerifyAccount, sent.purpose)
	assert.Equal(t, account.ID, sent.accountID)

	claims, err := f.tokenKeys.ValidatePurpose(sent.token, jwt.PurposeVerifyAccount)
	require.NoError(t, err)
	stored, err := f.confirms.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Code, claims.Code())

	access, err := f.tokens.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, account.ID, access.Subject)
}

func TestSignup_Duplicate(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	f.signup(t, "a@x.com")

	_, err := f.svc.Signup(context.Background(), signupBody("A@x.com"))
	assert.ErrorIs(t, err, ErrDuplicateAccount)
	assert.Equal(t, 1, f.accounts.count())
}

func TestSignup_PasswordRules(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()

	body := signupBody("a@x.com")
	body.PasswordConfirm = "Str0ngPW?"
	_, err := f.svc.Signup(ctx, body)
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	body = signupBody("a@x.com")
	body.Password, body.PasswordConfirm = "12345678", "12345678"
	_, err = f.svc.Signup(ctx, body)
	assert.ErrorIs(t, err, ErrWeakPassword)
	var pe *validator.PasswordError
	require.True(t, errors.As(err, &pe))
	assert.NotEmpty(t, pe.Reasons)

	assert.Equal(t, 0, f.accounts.count())
	assert.Empty(t, f.notifier.sent)
}

func TestSignup_ProfileFailureRemovesAccount(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	f.linker.err = errors.New("slug exhausted")

	pair, err := f.svc.Signup(context.Background(), signupBody("a@x.com"))
	assert.ErrorIs(t, err, ErrProfileCreationFailed)
	assert.Nil(t, pair)

	_, err = f.accounts.GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, f.notifier.sent)
}

func TestSignup_NotificationFailureKeepsAccount(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	f.notifier.err = errDelivery

	pair, err := f.svc.Signup(context.Background(), signupBody("a@x.com"))
	assert.ErrorIs(t, err, ErrNotificationFailed)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.Refresh)
	assert.Equal(t, 1, f.accounts.count())
}

func TestVerifyEmail(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	id := f.signup(t, "a@x.com")
	token := f.notifier.last().token

	require.NoError(t, f.svc.VerifyEmail(ctx, token))
	account, _ := f.accounts.GetByID(ctx, id)
	assert.True(t, account.IsVerified)

	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, token), ErrAlreadyVerified)
	account, _ = f.accounts.GetByID(ctx, id)
	assert.True(t, account.IsVerified)
}

func TestVerifyEmail_Rejections(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	id := f.signup(t, "a@x.com")
	first := f.notifier.last().token

	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, "not-a-token"), ErrMalformedToken)
	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, ""), ErrMalformedToken)

	other := jwt.NewTokenManager("another-key")
	forged, _, err := other.GenerateActionToken(id, jwt.PurposeVerifyAccount, "code", 0)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, forged), ErrMalformedToken)

	reset, _, err := f.tokens.MintActionToken(id, jwt.PurposeChangePassword)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, reset), ErrInvalidOrExpiredToken)

	require.NoError(t, f.svc.ResendVerification(ctx, id))
	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, first), ErrInvalidOrExpiredToken)
	require.NoError(t, f.svc.VerifyEmail(ctx, f.notifier.last().token))
}

func TestVerifyEmail_Expired(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	f.signup(t, "a@x.com")
	token := f.notifier.last().token

	f.tokenKeys.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, token), ErrInvalidOrExpiredToken)
}

func TestVerifyEmail_ExpiredLinkOfVerifiedAccount(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	f.signup(t, "a@x.com")
	token := f.notifier.last().token
	require.NoError(t, f.svc.VerifyEmail(ctx, token))

	f.tokenKeys.WithClock(func() time.Time { return time.Now().Add(48 * time.Hour) })
	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, token), ErrAlreadyVerified)
}

func TestResendVerification(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	id := f.signup(t, "a@x.com")

	f.notifier.err = errDelivery
	assert.ErrorIs(t, f.svc.ResendVerification(ctx, id), ErrNotificationFailed)

	f.notifier.err = nil
	require.NoError(t, f.svc.ResendVerification(ctx, id))
	require.NoError(t, f.svc.VerifyEmail(ctx, f.notifier.last().token))
	assert.ErrorIs(t, f.svc.ResendVerification(ctx, id), ErrAlreadyVerified)
	assert.ErrorIs(t, f.svc.ResendVerification(ctx, "missing"), ErrAccountNotFound)
}

func TestLogin(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	id := f.signup(t, "a@x.com")

	_, err := f.svc.Login(ctx, "b@x.com", "Str0ngPW!")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = f.svc.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	pair, err := f.svc.Login(ctx, "A@X.COM", "Str0ngPW!")
	require.NoError(t, err)
	claims, err := f.tokens.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Subject)

	account, _ := f.accounts.GetByID(ctx, id)
	assert.NotNil(t, account.LastLogin)
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	id := f.signup(t, "a@x.com")
	pair, err := f.svc.Login(ctx, "a@x.com", "Str0ngPW!")
	require.NoError(t, err)

	access, err := f.svc.RefreshSession(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access.Access)

	_, err = f.svc.RefreshSession(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.ErrorIs(t, f.svc.Logout(ctx, "someone-else", pair.Refresh), ErrInvalidToken)
	require.NoError(t, f.svc.Logout(ctx, id, pair.Refresh))
	assert.ErrorIs(t, f.svc.Logout(ctx, id, pair.Refresh), ErrInvalidToken)

	_, err = f.svc.RefreshSession(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	id := f.signup(t, "a@x.com")
	pair, err := f.svc.Login(ctx, "a@x.com", "Str0ngPW!")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteAccount(ctx, id, "garbage"), ErrInvalidToken)
	require.NoError(t, f.svc.DeleteAccount(ctx, id, pair.Refresh))

	_, err = f.svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrAccountNotFound)
	_, err = f.svc.RefreshSession(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshSession_DeletedAccount(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	id := f.signup(t, "a@x.com")
	pair, err := f.svc.Login(ctx, "a@x.com", "Str0ngPW!")
	require.NoError(t, err)

	require.NoError(t, f.accounts.Delete(ctx, id))
	_, err = f.svc.RefreshSession(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	id := f.signup(t, "a@x.com")
	before, _ := f.accounts.GetByID(ctx, id)

	err := f.svc.ChangePassword(ctx, id, &structs.ChangePasswordBody{
		OldPassword: "nope", NewPassword: "N3wPassword!", NewPasswordConfirm: "N3wPassword!",
	})
	assert.ErrorIs(t, err, ErrIncorrectPassword)
	after, _ := f.accounts.GetByID(ctx, id)
	assert.Equal(t, before.Password, after.Password)

	err = f.svc.ChangePassword(ctx, id, &structs.ChangePasswordBody{
		OldPassword: "Str0ngPW!", NewPassword: "N3wPassword!", NewPasswordConfirm: "N3wPassword?",
	})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	err = f.svc.ChangePassword(ctx, id, &structs.ChangePasswordBody{
		OldPassword: "Str0ngPW!", NewPassword: "short", NewPasswordConfirm: "short",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)

	require.NoError(t, f.svc.ChangePassword(ctx, id, &structs.ChangePasswordBody{
		OldPassword: "Str0ngPW!", NewPassword: "N3wPassword!", NewPasswordConfirm: "N3wPassword!",
	}))
	_, err = f.svc.Login(ctx, "a@x.com", "N3wPassword!")
	assert.NoError(t, err)
}

func TestForgotPassword(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	id := f.signup(t, "a@x.com")

	assert.ErrorIs(t, f.svc.ForgotPassword(ctx, "b@x.com"), ErrAccountNotFound)

	f.notifier.err = errDelivery
	assert.ErrorIs(t, f.svc.ForgotPassword(ctx, "a@x.com"), ErrNotificationFailed)

	f.notifier.err = nil
	require.NoError(t, f.svc.ForgotPassword(ctx, "a@x.com"))
	sent := f.notifier.last()
	assert.Equal(t, jwt.PurposeChangePassword, sent.purpose)
	assert.Equal(t, id, sent.accountID)
}

func TestForgotPasswordChange_StoredCode(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	f.signup(t, "a@x.com")

	require.NoError(t, f.svc.ForgotPassword(ctx, "a@x.com"))
	older := f.notifier.last().token
	require.NoError(t, f.svc.ForgotPassword(ctx, "a@x.com"))
	latest := f.notifier.last().token

	body := &structs.ResetPasswordBody{Password: "N3wPassword!", PasswordConfirm: "N3wPassword!"}

	assert.ErrorIs(t, f.svc.ForgotPasswordChange(ctx, "garbage", body), ErrMalformedToken)
	assert.ErrorIs(t, f.svc.ForgotPasswordChange(ctx, older, body), ErrInvalidOrExpiredToken)
	assert.ErrorIs(t, f.svc.ForgotPasswordChange(ctx, latest, &structs.ResetPasswordBody{
		Password: "N3wPassword!", PasswordConfirm: "different",
	}), ErrPasswordMismatch)

	require.NoError(t, f.svc.ForgotPasswordChange(ctx, latest, body))
	_, err := f.svc.Login(ctx, "a@x.com", "N3wPassword!")
	assert.NoError(t, err)

	assert.ErrorIs(t, f.svc.ForgotPasswordChange(ctx, latest, body), ErrInvalidOrExpiredToken)
}

func TestExpiredTokens(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	f.signup(t, "a@x.com")
	pair, err := f.svc.Login(ctx, "a@x.com", "Str0ngPW!")
	require.NoError(t, err)
	require.NoError(t, f.svc.ForgotPassword(ctx, "a@x.com"))
	reset := f.notifier.last().token

	// past ActionExpire and RefreshExpire
	f.tokenKeys.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })

	body := &structs.ResetPasswordBody{Password: "N3wPassword!", PasswordConfirm: "N3wPassword!"}
	assert.ErrorIs(t, f.svc.ForgotPasswordChange(ctx, reset, body), ErrInvalidOrExpiredToken)
	_, err = f.svc.Login(ctx, "a@x.com", "N3wPassword!")
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	_, err = f.svc.RefreshSession(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	f.tokenKeys.WithClock(time.Now)
	_, err = f.svc.RefreshSession(ctx, pair.Refresh)
	assert.NoError(t, err)
}

func TestForgotPasswordChange_None(t *testing.T) {
	f := newFixture(t, ResetCheckNone)
	ctx := context.Background()
	f.signup(t, "a@x.com")

	require.NoError(t, f.svc.ForgotPassword(ctx, "a@x.com"))
	older := f.notifier.last().token
	require.NoError(t, f.svc.ForgotPassword(ctx, "a@x.com"))

	body := &structs.ResetPasswordBody{Password: "N3wPassword!", PasswordConfirm: "N3wPassword!"}
	require.NoError(t, f.svc.ForgotPasswordChange(ctx, older, body))
	require.NoError(t, f.svc.ForgotPasswordChange(ctx, older, body))

	verify := f.notifier.sent[0].token
	assert.ErrorIs(t, f.svc.ForgotPasswordChange(ctx, verify, body), ErrInvalidOrExpiredToken)
}

func TestParseResetCheck(t *testing.T) {
	rc, err := ParseResetCheck("")
	require.NoError(t, err)
	assert.Equal(t, ResetCheckStoredCode, rc)

	rc, err = ParseResetCheck("none")
	require.NoError(t, err)
	assert.Equal(t, ResetCheckNone, rc)

	_, err = ParseResetCheck("sometimes")
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t, ResetCheckStoredCode)
	ctx := context.Background()
	id := f.signup(t, "a@x.com")
	pair, err := f.svc.Login(ctx, "a@x.com", "Str0ngPW!")
	require.NoError(t, err)

	account, err := f.svc.Authenticate(ctx, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)

	_, err = f.svc.Authenticate(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, f.accounts.Delete(ctx, id))
	_, err = f.svc.Authenticate(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
