// Package password hashes and checks account passwords with bcrypt.
package password

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for new hashes.
const Cost = 10

// Hash returns the bcrypt digest of plain.
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare returns nil when plain matches hash.
func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// Hasher adapts the package functions for services that take them as a
// dependency. A cancelled context short-circuits before the expensive work.
type Hasher struct{}

// Hash implements the service hashing contract.
func (Hasher) Hash(ctx context.Context, plain string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Hash(plain)
}

// Matches reports whether plain matches hash.
func (Hasher) Matches(ctx context.Context, hash, plain string) bool {
	if ctx.Err() != nil {
		return false
	}
	return Compare(hash, plain) == nil
}
