package movies

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myflixhq/myflix/pkg/auth"
	"github.com/myflixhq/myflix/pkg/logger"
	"github.com/myflixhq/myflix/pkg/render"
)

// Storage is the persistence surface the service needs; satisfied by
// *Repository in production and by fakes in tests.
type Storage interface {
	List(ctx context.Context) ([]Movie, error)
	FindByTitle(ctx context.Context, title string) (*Movie, error)
	FindGenre(ctx context.Context, name string) (*Genre, error)
	FindDirector(ctx context.Context, name string) (*Director, error)
}

// Service exposes the catalog read endpoints.
type Service struct {
	storage Storage
	tokens  *auth.TokenService
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		s.logger = log
	}
}

// NewService creates the movies service.
func NewService(storage Storage, tokens *auth.TokenService, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		tokens:  tokens,
		logger:  logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the catalog routes, all behind token authentication.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(auth.Authenticate(s.tokens))

	r.Get("/", s.handleList)
	r.Get("/genre/{name}", s.handleGenre)
	r.Get("/director/{name}", s.handleDirector)
	r.Get("/{title}", s.handleByTitle)

	return r
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.storage.List(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list movies", slog.Any("error", err))
		render.Error(w, http.StatusInternalServerError, "failed to load movies")
		return
	}
	render.JSON(w, http.StatusOK, list)
}

func (s *Service) handleByTitle(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")

	movie, err := s.storage.FindByTitle(r.Context(), title)
	switch {
	case errors.Is(err, ErrMovieNotFound):
		render.Error(w, http.StatusNotFound, "movie not found")
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "find movie", slog.String("title", title), slog.Any("error", err))
		render.Error(w, http.StatusInternalServerError, "failed to load movie")
		return
	}
	render.JSON(w, http.StatusOK, movie)
}

func (s *Service) handleGenre(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	genre, err := s.storage.FindGenre(r.Context(), name)
	switch {
	case errors.Is(err, ErrGenreNotFound):
		render.Error(w, http.StatusNotFound, "genre not found")
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "find genre", slog.String("name", name), slog.Any("error", err))
		render.Error(w, http.StatusInternalServerError, "failed to load genre")
		return
	}
	render.JSON(w, http.StatusOK, genre)
}

func (s *Service) handleDirector(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	director, err := s.storage.FindDirector(r.Context(), name)
	switch {
	case errors.Is(err, ErrDirectorNotFound):
		render.Error(w, http.StatusNotFound, "director not found")
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "find director", slog.String("name", name), slog.Any("error", err))
		render.Error(w, http.StatusInternalServerError, "failed to load director")
		return
	}
	render.JSON(w, http.StatusOK, director)
}
