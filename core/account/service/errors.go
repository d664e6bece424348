package service

import "errors"

var (
	ErrDuplicateAccount      = errors.New("account with this email already exists")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrWeakPassword          = errors.New("password does not satisfy the policy")
	ErrProfileCreationFailed = errors.New("profile could not be created")
	ErrMalformedToken        = errors.New("malformed token")
	ErrAlreadyVerified       = errors.New("account is already verified")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrAccountNotFound       = errors.New("account not found")
	ErrIncorrectPassword     = errors.New("incorrect password")
	ErrInvalidToken          = errors.New("invalid session token")
	ErrNotificationFailed    = errors.New("notification could not be delivered")
	ErrNotVerified           = errors.New("account is not verified")
)
