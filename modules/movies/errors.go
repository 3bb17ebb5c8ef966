package movies

import "errors"

var (
	ErrMovieNotFound    = errors.New("movies: movie not found")
	ErrGenreNotFound    = errors.New("movies: genre not found")
	ErrDirectorNotFound = errors.New("movies: director not found")
)
