package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// CredentialVerifier authenticates a username/password pair against the
// credential store. It is stateless and safe to call concurrently; there is
// no lockout counter and no per-identity lock.
type CredentialVerifier struct {
	store  CredentialStore
	hasher *PasswordHasher
	logger *slog.Logger
}

// VerifierOption configures a CredentialVerifier.
type VerifierOption func(*CredentialVerifier)

// WithVerifierLogger sets a custom logger for the verifier.
func WithVerifierLogger(logger *slog.Logger) VerifierOption {
	return func(v *CredentialVerifier) {
		v.logger = logger
	}
}

// NewCredentialVerifier creates a verifier over the given store and hasher.
func NewCredentialVerifier(store CredentialStore, hasher *PasswordHasher, opts ...VerifierOption) *CredentialVerifier {
	v := &CredentialVerifier{
		store:  store,
		hasher: hasher,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify returns the identity matching name iff password is correct.
// An unknown name and a wrong password both return ErrInvalidCredentials so
// callers cannot enumerate usernames. Store failures and corrupt stored
// hashes are wrapped with ErrStoreUnavailable instead, since they are faults
// of the system and not of the caller's guess.
func (v *CredentialVerifier) Verify(ctx context.Context, name, password string) (*Identity, error) {
	identity, err := v.store.FindByName(ctx, name)
	switch {
	case errors.Is(err, ErrIdentityNotFound):
		v.logger.DebugContext(ctx, "login attempt for unknown user", slog.String("username", name))
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	if err := v.hasher.Verify(password, identity.PasswordHash); err != nil {
		if errors.Is(err, ErrCorruptHash) {
			v.logger.ErrorContext(ctx, "corrupt password hash", slog.String("username", name))
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		v.logger.DebugContext(ctx, "login attempt with wrong password", slog.String("username", name))
		return nil, ErrInvalidCredentials
	}

	return identity, nil
}
