package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct(t *testing.T) {
	type signup struct {
		Email    string `json:"email" validate:"required,email"`
		Username string `json:"username" validate:"required,max=255"`
		Password string `json:"password,omitempty" validate:"min=8"`
	}

	errs := ValidateStruct(&signup{Email: "nope", Password: "short"})
	assert.Equal(t, "The field 'email' must be a valid email address.", errs["email"])
	assert.Equal(t, "The field 'username' is required.", errs["username"])
	assert.Equal(t, "The field 'password' must be at least 8 characters long.", errs["password"])

	assert.Empty(t, ValidateStruct(&signup{Email: "a@x.com", Username: "a", Password: "Str0ngPW!"}))
}

func TestValidateStruct_NumbersAndChoices(t *testing.T) {
	type recipe struct {
		Minutes    int    `json:"preparation_time" validate:"min=0,max=10080"`
		Difficulty string `json:"difficulty" validate:"omitempty,oneof=Easy Medium Hard"`
		Internal   string `json:"-" validate:"max=1"`
	}

	errs := ValidateStruct(&recipe{Minutes: 20000, Difficulty: "Extreme", Internal: "xx"})
	assert.Equal(t, "The field 'preparation_time' must be at most 10080.", errs["preparation_time"])
	assert.Equal(t, "The field 'difficulty' must be one of: Easy, Medium, Hard.", errs["difficulty"])
	assert.Equal(t, "The field 'Internal' must be no longer than 1 characters.", errs["Internal"])

	errs = ValidateStruct(&recipe{Minutes: -1})
	assert.Equal(t, "The field 'preparation_time' must be at least 0.", errs["preparation_time"])
	assert.Len(t, errs, 1)
}

func TestPasswordPolicy(t *testing.T) {
	p := DefaultPasswordPolicy()

	assert.NoError(t, p.Validate("Str0ngPW!"))

	cases := map[string]string{
		"short":            "too short",
		"1234567890123":    "entirely numeric",
		"password":         "too common",
		"ThisIsWayTooLong1": "too long",
	}
	for pw, want := range cases {
		err := p.Validate(pw)
		var perr *PasswordError
		require.True(t, errors.As(err, &perr), pw)
		assert.Contains(t, perr.Error(), want, pw)
	}
}

func TestPasswordPolicy_CharacterClasses(t *testing.T) {
	p := PasswordPolicy{MinLength: 8, RequireUpper: true, RequireLower: true, RequireDigit: true}

	err := p.Validate("alllowercase")
	require.Error(t, err)
	assert.Len(t, err.(*PasswordError).Reasons, 2)
	assert.NoError(t, p.Validate("Mixed1Case"))
}
