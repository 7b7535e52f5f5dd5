// Package cryptox hashes and verifies account passwords.
//
// Hashes are bcrypt strings. An account without a password gets an
// "unusable" marker instead: a "!" followed by random hex, which no
// bcrypt hash starts with and which never verifies.
package cryptox

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the bcrypt input limit in bytes.
const MaxPasswordLength = 72

// UnusablePasswordPrefix marks a stored password that can never match.
const UnusablePasswordPrefix = "!"

const unusableRandomBytes = 20

// Hasher hashes passwords with a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost. Zero selects bcrypt.DefaultCost.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

// Cost returns the bcrypt cost used for new hashes.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt encoding of password.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", fmt.Errorf("%w: password is longer than %d bytes", common.ErrorInvalidInput, MaxPasswordLength)
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt error: %w", err)
	}
	return string(b), nil
}

// Check reports whether password matches encoded. Unusable and malformed
// encodings never match.
func (h *Hasher) Check(password, encoded string) bool {
	if !IsUsable(encoded) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

// MakeUnusablePassword returns a fresh unusable marker.
func MakeUnusablePassword() (string, error) {
	s, err := common.MakeRandHexString(unusableRandomBytes)
	if err != nil {
		return "", err
	}
	return UnusablePasswordPrefix + s, nil
}

// IsUsable reports whether encoded can ever verify a password.
func IsUsable(encoded string) bool {
	return encoded != "" && !strings.HasPrefix(encoded, UnusablePasswordPrefix)
}
