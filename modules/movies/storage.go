package movies

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Repository persists movies in the "movies" collection.
type Repository struct {
	movies *mongo.Collection
}

// NewRepository creates a movie repository over db.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{movies: db.Collection("movies")}
}

// EnsureIndexes creates the unique title index. Idempotent.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.movies.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("movies: create indexes: %w", err)
	}
	return nil
}

// List returns every movie in the catalog.
func (r *Repository) List(ctx context.Context) ([]Movie, error) {
	cursor, err := r.movies.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("movies: list: %w", err)
	}

	var result []Movie
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("movies: decode list: %w", err)
	}
	return result, nil
}

// FindByTitle returns the movie with the exact title.
func (r *Repository) FindByTitle(ctx context.Context, title string) (*Movie, error) {
	var movie Movie
	err := r.movies.FindOne(ctx, bson.D{{Key: "title", Value: title}}).Decode(&movie)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, ErrMovieNotFound
	case err != nil:
		return nil, fmt.Errorf("movies: find by title: %w", err)
	}
	return &movie, nil
}

// FindGenre returns the genre subdocument of any movie carrying it.
func (r *Repository) FindGenre(ctx context.Context, name string) (*Genre, error) {
	var movie Movie
	err := r.movies.FindOne(ctx,
		bson.D{{Key: "genre.name", Value: name}},
		options.FindOne().SetProjection(bson.D{{Key: "genre", Value: 1}}),
	).Decode(&movie)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, ErrGenreNotFound
	case err != nil:
		return nil, fmt.Errorf("movies: find genre: %w", err)
	}
	return &movie.Genre, nil
}

// FindDirector returns the director subdocument of any movie carrying it.
func (r *Repository) FindDirector(ctx context.Context, name string) (*Director, error) {
	var movie Movie
	err := r.movies.FindOne(ctx,
		bson.D{{Key: "director.name", Value: name}},
		options.FindOne().SetProjection(bson.D{{Key: "director", Value: 1}}),
	).Decode(&movie)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, ErrDirectorNotFound
	case err != nil:
		return nil, fmt.Errorf("movies: find director: %w", err)
	}
	return &movie.Director, nil
}

// Exists reports whether a movie with the given id is in the catalog. Used
// by the users module before adding a favorite.
func (r *Repository) Exists(ctx context.Context, id bson.ObjectID) (bool, error) {
	err := r.movies.FindOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}}),
	).Err()
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("movies: exists: %w", err)
	}
	return true, nil
}
