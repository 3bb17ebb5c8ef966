package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// TokenService issues and validates HS256 bearer tokens. The subject claim
// carries the identity's durable id rather than the username, so tokens
// survive renames; validation always re-fetches the live identity from the
// store instead of trusting the token's snapshot.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	store  CredentialStore
	now    func() time.Time
}

// NewTokenService creates a token service. An empty secret is a fatal
// configuration error surfaced at startup, never per request.
func NewTokenService(cfg Config, store CredentialStore) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSigningSecret
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		store:  store,
		now:    time.Now,
	}, nil
}

// Issue mints a signed token for a verified identity. It is a pure function
// of the identity, the current time, and the process-wide secret.
func (s *TokenService) Issue(identity *Identity) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   identity.ID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Validate checks a token's structure, signature, and expiry, then resolves
// its subject to a live identity. Each failure mode maps to its own sentinel
// so the HTTP edge can keep 401 and 5xx apart:
//
//	malformed structure      -> ErrTokenMalformed
//	bad signature / wrong alg -> ErrInvalidSignature
//	past expiry               -> ErrTokenExpired
//	subject deleted           -> ErrUnknownSubject
//	store failure             -> ErrStoreUnavailable
func (s *TokenService) Validate(ctx context.Context, tokenString string) (*Identity, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, errors.Join(ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, errors.Join(ErrInvalidSignature, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.Join(ErrTokenExpired, err)
		default:
			return nil, errors.Join(ErrTokenMalformed, err)
		}
	}

	id, err := bson.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	identity, err := s.store.FindByID(ctx, id)
	switch {
	case errors.Is(err, ErrIdentityNotFound):
		return nil, ErrUnknownSubject
	case err != nil:
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return identity, nil
}

// keyFunc pins the verification key to the process-wide HMAC secret.
func (s *TokenService) keyFunc(token *jwt.Token) (any, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("auth: unexpected signing method: %s", token.Method.Alg())
	}
	return s.secret, nil
}
