package validator

import (
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy is the configurable password strength policy.
type PasswordPolicy struct {
	MinLength     int
	MaxLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RejectNumeric bool
	RejectCommon  bool
}

// DefaultPasswordPolicy returns the policy used when nothing is configured.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:     8,
		MaxLength:     15,
		RejectNumeric: true,
		RejectCommon:  true,
	}
}

// PasswordError lists every rule a password broke.
type PasswordError struct {
	Reasons []string
}

func (e *PasswordError) Error() string {
	return strings.Join(e.Reasons, " ")
}

// Validate returns a *PasswordError when the password breaks any rule.
func (p PasswordPolicy) Validate(password string) error {
	var reasons []string
	length := len([]rune(password))

	if p.MinLength > 0 && length < p.MinLength {
		reasons = append(reasons, fmt.Sprintf("This password is too short. It must contain at least %d characters.", p.MinLength))
	}
	if p.MaxLength > 0 && length > p.MaxLength {
		reasons = append(reasons, fmt.Sprintf("This password is too long. It must contain at most %d characters.", p.MaxLength))
	}

	var upper, lower, digit, other bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			other = true
		}
	}

	if p.RequireUpper && !upper {
		reasons = append(reasons, "This password must contain an uppercase letter.")
	}
	if p.RequireLower && !lower {
		reasons = append(reasons, "This password must contain a lowercase letter.")
	}
	if p.RequireDigit && !digit {
		reasons = append(reasons, "This password must contain a digit.")
	}
	if p.RejectNumeric && length > 0 && digit && !upper && !lower && !other {
		reasons = append(reasons, "This password is entirely numeric.")
	}
	if p.RejectCommon {
		if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
			reasons = append(reasons, "This password is too common.")
		}
	}

	if len(reasons) > 0 {
		return &PasswordError{Reasons: reasons}
	}
	return nil
}

var commonPasswords = toSet(
	"password", "password1", "password12", "password123", "passw0rd", "p@ssw0rd",
	"12345678", "123456789", "1234567890", "87654321", "11111111", "00000000",
	"qwertyui", "qwerty123", "qwertyuiop", "1q2w3e4r", "1qaz2wsx", "zaq12wsx",
	"iloveyou", "sunshine", "princess", "football", "baseball", "welcome1",
	"letmein1", "trustno1", "superman", "starwars", "whatever", "computer",
	"internet", "michelle", "jennifer", "dragon12", "monkey12", "abc12345",
	"abcd1234", "admin123", "changeme", "asdfghjk", "asdf1234", "q1w2e3r4",
	"master12", "shadow12", "freedom1", "iloveyou1", "football1", "baseball1",
)

func toSet(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}
