package users

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/myflixhq/myflix/pkg/auth"
	"github.com/myflixhq/myflix/pkg/logger"
	"github.com/myflixhq/myflix/pkg/render"
)

// The login failure message never reveals whether the username or the
// password was wrong.
const msgBadLogin = "incorrect username or password"

// Storage is the persistence surface the service needs; satisfied by
// *Repository in production and by fakes in tests.
type Storage interface {
	auth.CredentialStore
	Create(ctx context.Context, identity *auth.Identity) error
	Update(ctx context.Context, name string, upd profileUpdate) (*auth.Identity, error)
	Delete(ctx context.Context, name string) error
	AddFavorite(ctx context.Context, name string, movieID bson.ObjectID) (*auth.Identity, error)
	RemoveFavorite(ctx context.Context, name string, movieID bson.ObjectID) (*auth.Identity, error)
}

// MovieCatalog checks that a movie exists before it is favorited.
type MovieCatalog interface {
	Exists(ctx context.Context, id bson.ObjectID) (bool, error)
}

// Service exposes registration, login, and the owner-only profile routes.
type Service struct {
	storage  Storage
	catalog  MovieCatalog
	hasher   *auth.PasswordHasher
	verifier *auth.CredentialVerifier
	tokens   *auth.TokenService
	validate *validator.Validate
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		s.logger = log
	}
}

// NewService creates the users service.
func NewService(
	storage Storage,
	catalog MovieCatalog,
	hasher *auth.PasswordHasher,
	verifier *auth.CredentialVerifier,
	tokens *auth.TokenService,
	opts ...Option,
) *Service {
	s := &Service{
		storage:  storage,
		catalog:  catalog,
		hasher:   hasher,
		verifier: verifier,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the /users routes. Registration is public; everything
// under /{username} requires a token for that same user.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(s.tokens))
		r.Route("/{username}", func(r chi.Router) {
			r.Use(auth.RequireSelf("username"))
			r.Get("/", s.handleProfile)
			r.Put("/", s.handleUpdate)
			r.Delete("/", s.handleDelete)
			r.Post("/movies/{movieID}", s.handleAddFavorite)
			r.Delete("/movies/{movieID}", s.handleRemoveFavorite)
		})
	})

	return r
}

// HandleLogin verifies credentials and issues a bearer token. Mounted at
// POST /login by the application router.
func (s *Service) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity, err := s.verifier.Verify(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		render.Error(w, http.StatusBadRequest, msgBadLogin)
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "login failed", slog.Any("error", err))
		render.Error(w, http.StatusInternalServerError, "login temporarily unavailable")
		return
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "token issue failed", slog.Any("error", err))
		render.Error(w, http.StatusInternalServerError, "login temporarily unavailable")
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"user":  identity,
		"token": token,
	})
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid registration data: "+err.Error())
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid password")
		return
	}

	identity := &auth.Identity{
		Name:         req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		Birthday:     req.Birthday,
		CreatedAt:    time.Now(),
	}

	err = s.storage.Create(r.Context(), identity)
	switch {
	case errors.Is(err, ErrNameTaken):
		render.Error(w, http.StatusConflict, "username already taken")
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "register failed", slog.Any("error", err))
		render.Error(w, http.StatusInternalServerError, "registration temporarily unavailable")
		return
	}

	s.logger.InfoContext(r.Context(), "user registered", slog.String("username", identity.Name))
	render.JSON(w, http.StatusCreated, identity)
}

func (s *Service) handleProfile(w http.ResponseWriter, r *http.Request) {
	// RequireSelf guarantees the context identity matches the path, and the
	// token validator already re-fetched it from the store.
	identity, _ := auth.IdentityFromContext(r.Context())
	render.JSON(w, http.StatusOK, identity)
}

func (s *Service) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid profile data: "+err.Error())
		return
	}

	upd := profileUpdate{
		Name:     req.Username,
		Email:    req.Email,
		Birthday: req.Birthday,
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			render.Error(w, http.StatusBadRequest, "invalid password")
			return
		}
		upd.PasswordHash = &hash
	}

	name := chi.URLParam(r, "username")
	identity, err := s.storage.Update(r.Context(), name, upd)
	switch {
	case errors.Is(err, ErrNameTaken):
		render.Error(w, http.StatusConflict, "username already taken")
		return
	case errors.Is(err, auth.ErrIdentityNotFound):
		render.Error(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "profile update failed", slog.Any("error", err))
		render.Error(w, http.StatusInternalServerError, "update temporarily unavailable")
		return
	}

	render.JSON(w, http.StatusOK, identity)
}

func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "username")

	err := s.storage.Delete(r.Context(), name)
	switch {
	case errors.Is(err, auth.ErrIdentityNotFound):
		render.Error(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "account delete failed", slog.Any("error", err))
		render.Error(w, http.StatusInternalServerError, "delete temporarily unavailable")
		return
	}

	s.logger.InfoContext(r.Context(), "user deleted", slog.String("username", name))
	render.JSON(w, http.StatusOK, map[string]string{"message": name + " was deleted"})
}

func (s *Service) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "username")
	movieID, err := bson.ObjectIDFromHex(chi.URLParam(r, "movieID"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	exists, err := s.catalog.Exists(r.Context(), movieID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "favorite lookup failed", slog.Any("error", err))
		render.Error(w, http.StatusInternalServerError, "favorites temporarily unavailable")
		return
	}
	if !exists {
		render.Error(w, http.StatusNotFound, "movie not found")
		return
	}

	identity, err := s.storage.AddFavorite(r.Context(), name, movieID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "add favorite failed", slog.Any("error", err))
		render.Error(w, http.StatusInternalServerError, "favorites temporarily unavailable")
		return
	}

	render.JSON(w, http.StatusOK, identity)
}

func (s *Service) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "username")
	movieID, err := bson.ObjectIDFromHex(chi.URLParam(r, "movieID"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	identity, err := s.storage.RemoveFavorite(r.Context(), name, movieID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "remove favorite failed", slog.Any("error", err))
		render.Error(w, http.StatusInternalServerError, "favorites temporarily unavailable")
		return
	}

	render.JSON(w, http.StatusOK, identity)
}
