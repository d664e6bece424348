// Package structs defines account domain models and request bodies.
package structs

import (
	"strings"
	"time"
)

// Account is a registered user identity.
type Account struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Password    string     `json:"-"`
	IsVerified  bool       `json:"is_verified"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ActionCode is the single live code of one purpose for an account.
type ActionCode struct {
	AccountID string
	Code      string
	CreatedAt time.Time
}

// TokenPair is returned by signup and login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessToken is returned by refresh.
type AccessToken struct {
	Access string `json:"access"`
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignupBody is the signup request.
type SignupBody struct {
	Username        string `json:"username" validate:"required,max=255"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// Normalize trims the email before validation.
func (b *SignupBody) Normalize() { b.Email = strings.TrimSpace(b.Email) }

// LoginBody is the login request.
type LoginBody struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Normalize trims the email before validation.
func (b *LoginBody) Normalize() { b.Email = strings.TrimSpace(b.Email) }

// EmailBody carries a single email address.
type EmailBody struct {
	Email string `json:"email" validate:"required"`
}

// Normalize trims the email before validation.
func (b *EmailBody) Normalize() { b.Email = strings.TrimSpace(b.Email) }

// RefreshBody carries a refresh token.
type RefreshBody struct {
	Refresh string `json:"refresh" validate:"required"`
}

// ChangePasswordBody is the authenticated password change request.
type ChangePasswordBody struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

// ResetPasswordBody is the forgot-password change request.
type ResetPasswordBody struct {
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}
