package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces and verifies salted bcrypt hashes. The salt is
// generated per call and embedded in the hash string, so hashing the same
// plaintext twice yields different strings that both verify.
type PasswordHasher struct {
	cost int
}

// HasherOption configures a PasswordHasher.
type HasherOption func(*PasswordHasher)

// WithBcryptCost sets the bcrypt cost parameter. Values outside the bcrypt
// range are ignored and the default is kept.
func WithBcryptCost(cost int) HasherOption {
	return func(h *PasswordHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// NewPasswordHasher creates a bcrypt-based password hasher.
func NewPasswordHasher(opts ...HasherOption) *PasswordHasher {
	h := &PasswordHasher{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns the bcrypt hash of plaintext. Empty plaintext is rejected.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// Verify checks plaintext against a stored hash. It returns nil on a match,
// ErrPasswordMismatch on a wrong password, and ErrCorruptHash when the stored
// value is not a well-formed bcrypt hash. bcrypt's comparison is resistant to
// timing analysis of the mismatch position.
func (h *PasswordHasher) Verify(plaintext, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return errors.Join(ErrCorruptHash, err)
	}
}
