package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/myflixhq/myflix/pkg/auth"
)

// fakeStorage is an in-memory Storage for handler tests.
type fakeStorage struct {
	mu    sync.Mutex
	users map[string]*auth.Identity
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{users: make(map[string]*auth.Identity)}
}

func (f *fakeStorage) FindByName(_ context.Context, name string) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if identity, ok := f.users[name]; ok {
		clone := *identity
		return &clone, nil
	}
	return nil, auth.ErrIdentityNotFound
}

func (f *fakeStorage) FindByID(_ context.Context, id bson.ObjectID) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, identity := range f.users {
		if identity.ID == id {
			clone := *identity
			return &clone, nil
		}
	}
	return nil, auth.ErrIdentityNotFound
}

func (f *fakeStorage) Create(_ context.Context, identity *auth.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[identity.Name]; ok {
		return ErrNameTaken
	}
	if identity.ID.IsZero() {
		identity.ID = bson.NewObjectID()
	}
	if identity.FavoriteMovies == nil {
		identity.FavoriteMovies = []bson.ObjectID{}
	}
	clone := *identity
	f.users[identity.Name] = &clone
	return nil
}

func (f *fakeStorage) Update(_ context.Context, name string, upd profileUpdate) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.users[name]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	if upd.Name != nil && *upd.Name != name {
		if _, taken := f.users[*upd.Name]; taken {
			return nil, ErrNameTaken
		}
		delete(f.users, name)
		identity.Name = *upd.Name
		f.users[identity.Name] = identity
	}
	if upd.PasswordHash != nil {
		identity.PasswordHash = *upd.PasswordHash
	}
	if upd.Email != nil {
		identity.Email = *upd.Email
	}
	if upd.Birthday != nil {
		identity.Birthday = upd.Birthday
	}
	clone := *identity
	return &clone, nil
}

func (f *fakeStorage) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[name]; !ok {
		return auth.ErrIdentityNotFound
	}
	delete(f.users, name)
	return nil
}

func (f *fakeStorage) AddFavorite(_ context.Context, name string, movieID bson.ObjectID) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.users[name]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	for _, id := range identity.FavoriteMovies {
		if id == movieID {
			clone := *identity
			return &clone, nil
		}
	}
	identity.FavoriteMovies = append(identity.FavoriteMovies, movieID)
	clone := *identity
	return &clone, nil
}

func (f *fakeStorage) RemoveFavorite(_ context.Context, name string, movieID bson.ObjectID) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.users[name]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	kept := identity.FavoriteMovies[:0]
	for _, id := range identity.FavoriteMovies {
		if id != movieID {
			kept = append(kept, id)
		}
	}
	identity.FavoriteMovies = kept
	clone := *identity
	return &clone, nil
}

// fakeCatalog knows a fixed set of movie ids.
type fakeCatalog struct {
	known map[bson.ObjectID]bool
}

func (f *fakeCatalog) Exists(_ context.Context, id bson.ObjectID) (bool, error) {
	return f.known[id], nil
}

type testEnv struct {
	router  http.Handler
	storage *fakeStorage
	catalog *fakeCatalog
	tokens  *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	storage := newFakeStorage()
	catalog := &fakeCatalog{known: make(map[bson.ObjectID]bool)}
	hasher := auth.NewPasswordHasher(auth.WithBcryptCost(bcrypt.MinCost))
	tokens, err := auth.NewTokenService(auth.Config{Secret: "router-test-secret-0123456789abc"}, storage)
	require.NoError(t, err)
	verifier := auth.NewCredentialVerifier(storage, hasher)

	svc := NewService(storage, catalog, hasher, verifier, tokens)

	r := chi.NewRouter()
	r.Post("/login", svc.HandleLogin)
	r.Mount("/users", svc.Router())

	return &testEnv{router: r, storage: storage, catalog: catalog, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(t *testing.T, username, password string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/users", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates a user without leaking the hash", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/users", "", map[string]string{
			"username": "alice",
			"password": "Secret123!",
			"email":    "alice@example.com",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `"username":"alice"`)
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "Secret123!")

		stored, err := env.storage.FindByName(context.Background(), "alice")
		require.NoError(t, err)
		assert.NotEmpty(t, stored.PasswordHash)
		assert.NotEqual(t, "Secret123!", stored.PasswordHash)
	})

	t.Run("duplicate username is 409", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.register(t, "alice", "Secret123!")

		rec := env.do(t, http.MethodPost, "/users", "", map[string]string{
			"username": "alice",
			"password": "Another123!",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid payload is 400", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		for _, body := range []map[string]string{
			{"username": "al", "password": "Secret123!"},     // too short
			{"username": "alice", "password": "short"},       // weak password
			{"username": "bad name!", "password": "Secret123!"}, // not alphanumeric
			{"username": "alice"},                            // no password
		} {
			rec := env.do(t, http.MethodPost, "/users", "", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, "body %v", body)
		}
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials return a token", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.register(t, "alice", "Secret123!")

		token := env.login(t, "alice", "Secret123!")
		identity, err := env.tokens.Validate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "alice", identity.Name)
	})

	t.Run("wrong password and unknown user give the same response", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.register(t, "alice", "Secret123!")

		wrongPass := env.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice", "password": "WrongPass",
		})
		unknown := env.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "nobody", "password": "WrongPass",
		})

		assert.Equal(t, http.StatusBadRequest, wrongPass.Code)
		assert.Equal(t, http.StatusBadRequest, unknown.Code)
		assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
	})
}

func TestProfileRoutes(t *testing.T) {
	t.Parallel()

	t.Run("owner can read and update their profile", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.register(t, "alice", "Secret123!")
		token := env.login(t, "alice", "Secret123!")

		rec := env.do(t, http.MethodGet, "/users/alice", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"username":"alice"`)
		assert.NotContains(t, rec.Body.String(), "password")

		rec = env.do(t, http.MethodPut, "/users/alice", token, map[string]string{
			"email": "new@example.com",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "new@example.com")
	})

	t.Run("password update re-hashes and old password stops working", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.register(t, "alice", "Secret123!")
		token := env.login(t, "alice", "Secret123!")

		rec := env.do(t, http.MethodPut, "/users/alice", token, map[string]string{
			"password": "Fresh456pass",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		env.login(t, "alice", "Fresh456pass")
		rec = env.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice", "password": "Secret123!",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("another user's token is rejected with 403", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.register(t, "alice", "Secret123!")
		env.register(t, "bob", "Hunter2222!")
		aliceToken := env.login(t, "alice", "Secret123!")

		for _, tc := range []struct {
			method, path string
		}{
			{http.MethodGet, "/users/bob"},
			{http.MethodPut, "/users/bob"},
			{http.MethodDelete, "/users/bob"},
		} {
			rec := env.do(t, tc.method, tc.path, aliceToken, map[string]string{})
			assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", tc.method, tc.path)
		}
	})

	t.Run("missing token is 401", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.register(t, "alice", "Secret123!")

		rec := env.do(t, http.MethodGet, "/users/alice", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deleting the account invalidates the token subject", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.register(t, "alice", "Secret123!")
		token := env.login(t, "alice", "Secret123!")

		rec := env.do(t, http.MethodDelete, "/users/alice", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice was deleted")

		rec = env.do(t, http.MethodGet, "/users/alice", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestFavorites(t *testing.T) {
	t.Parallel()

	t.Run("add and remove a favorite", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.register(t, "alice", "Secret123!")
		token := env.login(t, "alice", "Secret123!")

		movieID := bson.NewObjectID()
		env.catalog.known[movieID] = true

		rec := env.do(t, http.MethodPost, "/users/alice/movies/"+movieID.Hex(), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), movieID.Hex())

		// Idempotent: adding again keeps a single entry.
		rec = env.do(t, http.MethodPost, "/users/alice/movies/"+movieID.Hex(), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, strings.Count(rec.Body.String(), movieID.Hex()))

		rec = env.do(t, http.MethodDelete, "/users/alice/movies/"+movieID.Hex(), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), movieID.Hex())
	})

	t.Run("unknown movie is 404", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.register(t, "alice", "Secret123!")
		token := env.login(t, "alice", "Secret123!")

		rec := env.do(t, http.MethodPost, "/users/alice/movies/"+bson.NewObjectID().Hex(), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed movie id is 400", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.register(t, "alice", "Secret123!")
		token := env.login(t, "alice", "Secret123!")

		rec := env.do(t, http.MethodPost, "/users/alice/movies/not-an-id", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cannot touch another user's favorites", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.register(t, "alice", "Secret123!")
		env.register(t, "bob", "Hunter2222!")
		aliceToken := env.login(t, "alice", "Secret123!")

		movieID := bson.NewObjectID()
		env.catalog.known[movieID] = true

		rec := env.do(t, http.MethodPost, "/users/bob/movies/"+movieID.Hex(), aliceToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestBirthdayRoundTrip(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	birthday := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)

	rec := env.do(t, http.MethodPost, "/users", "", map[string]any{
		"username": "alice",
		"password": "Secret123!",
		"birthday": birthday.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "1990-06-15")
}
