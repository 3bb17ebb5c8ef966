package auth

import "errors"

// Credential errors
var (
	// ErrIdentityNotFound is returned by CredentialStore implementations when
	// no identity matches the lookup key.
	ErrIdentityNotFound = errors.New("auth: identity not found")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. The two cases are deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrEmptyPassword is returned when hashing an empty plaintext.
	ErrEmptyPassword = errors.New("auth: empty password")

	// ErrPasswordMismatch is the internal verify failure; CredentialVerifier
	// collapses it into ErrInvalidCredentials before it leaves the package.
	ErrPasswordMismatch = errors.New("auth: password mismatch")

	// ErrCorruptHash indicates the stored hash is not a well-formed bcrypt
	// string. This is a data integrity fault, not a wrong guess.
	ErrCorruptHash = errors.New("auth: stored password hash is corrupt")

	// ErrStoreUnavailable wraps CredentialStore failures so they surface as
	// 5xx at the HTTP edge instead of masquerading as auth failures.
	ErrStoreUnavailable = errors.New("auth: credential store unavailable")
)

// Token errors
var (
	ErrMissingSigningSecret = errors.New("auth: missing signing secret")
	ErrMissingToken         = errors.New("auth: missing bearer token")
	ErrTokenMalformed       = errors.New("auth: malformed token")
	ErrInvalidSignature     = errors.New("auth: invalid token signature")
	ErrTokenExpired         = errors.New("auth: token expired")
	ErrUnknownSubject       = errors.New("auth: token subject no longer exists")
)
