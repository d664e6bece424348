package crypto

import (
	"context"
	"errors"

	"github.com/ncobase/cookscorner/logging/logger"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is a variable so tests can lower it.
var bcryptCost = bcrypt.DefaultCost

// HashPassword hashes the provided password using bcrypt.
func HashPassword(ctx context.Context, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		logger.Errorf(ctx, "crypto.HashPassword error: %v", err)
		return "", err
	}
	return string(hash), nil
}

// ComparePassword compares the hashed password with the provided password.
func ComparePassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// SetCost changes the bcrypt cost and returns the previous one.
func SetCost(cost int) (int, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcryptCost, errors.New("bcrypt cost out of range")
	}
	prev := bcryptCost
	bcryptCost = cost
	return prev, nil
}
