package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/myflixhq/myflix/modules/movies"
	"github.com/myflixhq/myflix/modules/users"
	"github.com/myflixhq/myflix/pkg/auth"
	"github.com/myflixhq/myflix/pkg/config"
	"github.com/myflixhq/myflix/pkg/httpserver"
	"github.com/myflixhq/myflix/pkg/logger"
	mongodb "github.com/myflixhq/myflix/pkg/mongo"
	"github.com/myflixhq/myflix/pkg/render"
)

type appConfig struct {
	HTTP  httpserver.Config
	Mongo mongodb.Config
	Auth  auth.Config
	Log   logger.Config

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	StaticDir          string   `env:"STATIC_DIR" envDefault:"public"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(cfg.Log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	db, err := mongodb.Database(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Warn("mongo disconnect", slog.Any("error", err))
		}
	}()

	usersRepo := users.NewRepository(db)
	if err := usersRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	moviesRepo := movies.NewRepository(db)
	if err := moviesRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	hasher := auth.NewPasswordHasher(auth.WithBcryptCost(cfg.Auth.BcryptCost))
	tokens, err := auth.NewTokenService(cfg.Auth, usersRepo)
	if err != nil {
		return err
	}
	verifier := auth.NewCredentialVerifier(usersRepo, hasher, auth.WithVerifierLogger(log))

	usersSvc := users.NewService(usersRepo, moviesRepo, hasher, verifier, tokens, users.WithLogger(log))
	moviesSvc := movies.NewService(moviesRepo, tokens, movies.WithLogger(log))

	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, router(cfg, log, db, usersSvc, moviesSvc))
}

func router(cfg appConfig, log *slog.Logger, db *mongo.Database, usersSvc *users.Service, moviesSvc *movies.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httpserver.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	healthcheck := mongodb.Healthcheck(db.Client())

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"message": "Welcome to the myFlix API"})
	})
	r.Get("/documentation", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(cfg.StaticDir, "documentation.html"))
	})
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := healthcheck(req.Context()); err != nil {
			render.Error(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/login", usersSvc.HandleLogin)
	r.Mount("/users", usersSvc.Router())
	r.Mount("/movies", moviesSvc.Router())

	return r
}
