package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Identity is the authenticable principal stored in the users collection.
// Name is the case-sensitive lookup key used at login; ID is the durable
// surrogate key embedded in token subjects, so renaming an account does not
// invalidate tokens already in the wild.
type Identity struct {
	ID             bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string          `bson:"username" json:"username"`
	PasswordHash   string          `bson:"password_hash" json:"-"`
	Email          string          `bson:"email,omitempty" json:"email,omitempty"`
	Birthday       *time.Time      `bson:"birthday,omitempty" json:"birthday,omitempty"`
	FavoriteMovies []bson.ObjectID `bson:"favorite_movies" json:"favoriteMovies"`
	CreatedAt      time.Time       `bson:"created_at" json:"-"`
}

// Credential is a request-scoped plaintext login pair. It exists only for
// the duration of verification and is never persisted or logged.
type Credential struct {
	Name     string `json:"username"`
	Password string `json:"password"`
}

// CredentialStore resolves identities for login and for token validation.
// Implementations return ErrIdentityNotFound when no identity matches; any
// other error is treated as a store failure.
type CredentialStore interface {
	FindByName(ctx context.Context, name string) (*Identity, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*Identity, error)
}
