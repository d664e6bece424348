package nanoid

import (
	"strings"

	"github.com/ncobase/cookscorner/consts"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PrimaryKey generates a row identifier.
func PrimaryKey() string {
	return gonanoid.MustGenerate(consts.PrimaryKey, consts.PrimaryKeySize)
}

// Code generates a single-use secret for confirmation and reset links.
func Code() string {
	return gonanoid.MustGenerate(consts.URLSafeBase64, consts.CodeSize)
}

// IsPrimaryKey verifies the shape of a row identifier.
func IsPrimaryKey(id string) bool {
	if len(id) != consts.PrimaryKeySize {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune(consts.PrimaryKey, r) {
			return false
		}
	}
	return true
}
