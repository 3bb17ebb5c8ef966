package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/myflixhq/myflix/pkg/auth"
)

// Repository persists identities in the "users" collection. It doubles as
// the auth.CredentialStore consumed by the token pipeline.
type Repository struct {
	users *mongo.Collection
}

// NewRepository creates a user repository over db.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{users: db.Collection("users")}
}

// EnsureIndexes creates the unique username index. Idempotent.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users: create indexes: %w", err)
	}
	return nil
}

// FindByName implements auth.CredentialStore.
func (r *Repository) FindByName(ctx context.Context, name string) (*auth.Identity, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: name}})
}

// FindByID implements auth.CredentialStore.
func (r *Repository) FindByID(ctx context.Context, id bson.ObjectID) (*auth.Identity, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *Repository) findOne(ctx context.Context, filter bson.D) (*auth.Identity, error) {
	var identity auth.Identity
	err := r.users.FindOne(ctx, filter).Decode(&identity)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, auth.ErrIdentityNotFound
	case err != nil:
		return nil, fmt.Errorf("users: find: %w", err)
	}
	return &identity, nil
}

// Create inserts a new identity and fills in its generated id.
func (r *Repository) Create(ctx context.Context, identity *auth.Identity) error {
	if identity.ID.IsZero() {
		identity.ID = bson.NewObjectID()
	}
	if identity.FavoriteMovies == nil {
		identity.FavoriteMovies = []bson.ObjectID{}
	}

	_, err := r.users.InsertOne(ctx, identity)
	switch {
	case mongo.IsDuplicateKeyError(err):
		return ErrNameTaken
	case err != nil:
		return fmt.Errorf("users: create: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of upd to the identity named name and
// returns the updated record.
func (r *Repository) Update(ctx context.Context, name string, upd profileUpdate) (*auth.Identity, error) {
	set := bson.D{}
	if upd.Name != nil {
		set = append(set, bson.E{Key: "username", Value: *upd.Name})
	}
	if upd.PasswordHash != nil {
		set = append(set, bson.E{Key: "password_hash", Value: *upd.PasswordHash})
	}
	if upd.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *upd.Email})
	}
	if upd.Birthday != nil {
		set = append(set, bson.E{Key: "birthday", Value: *upd.Birthday})
	}
	if len(set) == 0 {
		return r.FindByName(ctx, name)
	}

	var identity auth.Identity
	err := r.users.FindOneAndUpdate(ctx,
		bson.D{{Key: "username", Value: name}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&identity)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, auth.ErrIdentityNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, ErrNameTaken
	case err != nil:
		return nil, fmt.Errorf("users: update: %w", err)
	}
	return &identity, nil
}

// Delete removes the identity named name.
func (r *Repository) Delete(ctx context.Context, name string) error {
	result, err := r.users.DeleteOne(ctx, bson.D{{Key: "username", Value: name}})
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if result.DeletedCount == 0 {
		return auth.ErrIdentityNotFound
	}
	return nil
}

// AddFavorite adds movieID to the user's favorites. $addToSet keeps the
// operation idempotent.
func (r *Repository) AddFavorite(ctx context.Context, name string, movieID bson.ObjectID) (*auth.Identity, error) {
	return r.updateFavorites(ctx, name, bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "favorite_movies", Value: movieID}}},
	})
}

// RemoveFavorite removes movieID from the user's favorites.
func (r *Repository) RemoveFavorite(ctx context.Context, name string, movieID bson.ObjectID) (*auth.Identity, error) {
	return r.updateFavorites(ctx, name, bson.D{
		{Key: "$pull", Value: bson.D{{Key: "favorite_movies", Value: movieID}}},
	})
}

func (r *Repository) updateFavorites(ctx context.Context, name string, update bson.D) (*auth.Identity, error) {
	var identity auth.Identity
	err := r.users.FindOneAndUpdate(ctx,
		bson.D{{Key: "username", Value: name}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&identity)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, auth.ErrIdentityNotFound
	case err != nil:
		return nil, fmt.Errorf("users: update favorites: %w", err)
	}
	return &identity, nil
}
