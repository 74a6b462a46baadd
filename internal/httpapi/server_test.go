// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package httpapi

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

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/content"
	"github.com/inkwell/inkwell/internal/token"
	"github.com/inkwell/inkwell/internal/validate"
)

// memUsers is an in-memory auth.UserRepository.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*auth.User // keyed by lowercase email
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*auth.User)}
}

func (m *memUsers) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, taken := m.users[key]; taken {
		return auth.ErrConflict
	}
	clone := *user
	m.users[key] = &clone
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, auth.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *memUsers) Update(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := m.users[key]; !ok {
		return auth.ErrNotFound
	}
	clone := *user
	m.users[key] = &clone
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, email, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return auth.ErrNotFound
	}
	user.PasswordHash = hash
	return nil
}

func (m *memUsers) SetConfirmed(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return auth.ErrNotFound
	}
	user.Confirmed = true
	return nil
}

func (m *memUsers) Delete(_ context.Context, id ulid.ULID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, user := range m.users {
		if user.ID == id {
			delete(m.users, key)
			return nil
		}
	}
	return auth.ErrNotFound
}

// memProfiles is an in-memory auth.ProfileRepository.
type memProfiles struct {
	mu       sync.Mutex
	profiles map[string]*auth.Profile // keyed by lowercase username
}

func newMemProfiles() *memProfiles {
	return &memProfiles{profiles: make(map[string]*auth.Profile)}
}

func (m *memProfiles) Create(_ context.Context, profile *auth.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(profile.Username)
	if _, taken := m.profiles[key]; taken {
		return auth.ErrConflict
	}
	clone := *profile
	m.profiles[key] = &clone
	return nil
}

func (m *memProfiles) GetByUsername(_ context.Context, username string) (*auth.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[strings.ToLower(username)]
	if !ok {
		return nil, auth.ErrNotFound
	}
	clone := *profile
	return &clone, nil
}

func (m *memProfiles) GetByUser(_ context.Context, userID ulid.ULID) (*auth.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, profile := range m.profiles {
		if profile.UserID == userID {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (m *memProfiles) List(_ context.Context, limit, offset int) ([]*auth.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*auth.Profile, 0, len(m.profiles))
	for _, profile := range m.profiles {
		clone := *profile
		out = append(out, &clone)
	}
	return out, nil
}

func (m *memProfiles) Update(_ context.Context, profile *auth.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(profile.Username)
	if _, ok := m.profiles[key]; !ok {
		return auth.ErrNotFound
	}
	clone := *profile
	m.profiles[key] = &clone
	return nil
}

// memSettings is an in-memory auth.SettingsRepository.
type memSettings struct {
	mu       sync.Mutex
	settings map[ulid.ULID]*auth.Settings
}

func newMemSettings() *memSettings {
	return &memSettings{settings: make(map[ulid.ULID]*auth.Settings)}
}

func (m *memSettings) Create(_ context.Context, s *auth.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *s
	m.settings[s.UserID] = &clone
	return nil
}

func (m *memSettings) GetByUser(_ context.Context, userID ulid.ULID) (*auth.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[userID]
	if !ok {
		return nil, auth.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *memSettings) Update(_ context.Context, s *auth.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *s
	m.settings[s.UserID] = &clone
	return nil
}

// nullMailer swallows mail sends.
type nullMailer struct{}

func (nullMailer) SendConfirmation(context.Context, string, string) error  { return nil }

func (nullMailer) SendPasswordReset(context.Context, string, string) error { return nil }

// memArticles is an in-memory content.ArticleRepository.
type memArticles struct {
	mu       sync.Mutex
	articles []*content.Article
}

func (m *memArticles) Create(_ context.Context, a *content.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *a
	m.articles = append(m.articles, &clone)
	return nil
}

func (m *memArticles) GetBySlug(_ context.Context, slug string) (*content.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.articles {
		if a.Slug == slug {
			clone := *a
			return &clone, nil
		}
	}
	return nil, content.ErrNotFound
}

func (m *memArticles) GetByAuthorAndTitle(_ context.Context, authorID ulid.ULID, title string) (*content.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.articles {
		if a.AuthorID == authorID && a.Title == title {
			clone := *a
			return &clone, nil
		}
	}
	return nil, content.ErrNotFound
}

func (m *memArticles) List(_ context.Context, _ content.SearchFilter, limit, offset int) ([]content.Article, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []content.Article
	for _, a := range m.articles {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *memArticles) Update(context.Context, *content.Article) error { return nil }

func (m *memArticles) Delete(context.Context, ulid.ULID) error { return nil }

type memCategories struct{}

func (memCategories) Create(context.Context, *content.Category) error { return nil }
func (memCategories) GetByID(context.Context, ulid.ULID) (*content.Category, error) {
	return nil, content.ErrNotFound
}
func (memCategories) List(context.Context) ([]content.Category, error) { return nil, nil }

type memRatings struct{}

func (memRatings) Upsert(context.Context, *content.Rating) error { return nil }
func (memRatings) Average(context.Context, ulid.ULID) (float64, int, error) {
	return 0, 0, nil
}

type memLikes struct{}

func (memLikes) Upsert(context.Context, *content.Like) error { return nil }
func (memLikes) Counts(context.Context, ulid.ULID) (int, int, error) {
	return 0, 0, nil
}

type memReports struct{}

func (memReports) Create(context.Context, *content.Report) error { return nil }
func (memReports) ListByArticle(context.Context, ulid.ULID) ([]content.Report, error) {
	return nil, nil
}

type fixture struct {
	server *Server
	tokens *token.Service
	users  *memUsers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := newMemUsers()
	profiles := newMemProfiles()
	settings := newMemSettings()
	hasher := auth.NewArgon2idHasher()
	tokens, err := token.NewService("test-secret", time.Hour, time.Hour, time.Hour)
	require.NoError(t, err)

	register, err := auth.NewRegisterService(users, profiles, settings, hasher, tokens, nullMailer{}, "http://localhost:8080", nil)
	require.NoError(t, err)
	login, err := auth.NewLoginService(users, hasher, tokens)
	require.NoError(t, err)
	recovery, err := auth.NewRecoveryService(users, hasher, tokens, nullMailer{}, "http://localhost:8080", nil)
	require.NoError(t, err)
	confirm, err := auth.NewConfirmService(users)
	require.NoError(t, err)

	articles, err := content.NewService(&memArticles{}, memCategories{}, memRatings{}, memLikes{}, memReports{}, nil)
	require.NoError(t, err)

	server, err := NewServer("127.0.0.1:0", Deps{
		Register: register,
		Login:    login,
		Recovery: recovery,
		Confirm:  confirm,
		Users:    users,
		Profiles: profiles,
		Articles: articles,
		Tokens:   tokens,
	})
	require.NoError(t, err)

	return &fixture{server: server, tokens: tokens, users: users}
}

func (f *fixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
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
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

type testEnvelope struct {
	Status  bool            `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeFieldErrors(t *testing.T, env testEnvelope) map[string]string {
	t.Helper()
	var data []struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 1)
	return data[0].Errors
}

func registerUser(t *testing.T, f *fixture, email, password, username string) testEnvelope {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/users", map[string]string{
		"email":    email,
		"password": password,
		"username": username,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeEnvelope(t, rec)
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("creates account and returns identity token", func(t *testing.T) {
		f := newFixture(t)
		env := registerUser(t, f, "ada@example.com", "sturdy9password", "ada")
		assert.True(t, env.Status)
		assert.NotEmpty(t, env.Token)

		claims, err := f.tokens.Verify(env.Token)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", claims.Email)
	})

	t.Run("padded email is stored trimmed", func(t *testing.T) {
		f := newFixture(t)
		env := registerUser(t, f, "  ada@example.com  ", "sturdy9password", "ada")
		assert.True(t, env.Status)

		// The canonical form must log in against the stored account.
		rec := f.do(t, http.MethodPost, "/api/v1/users/login", map[string]string{
			"email":    "ada@example.com",
			"password": "sturdy9password",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("short password reports only the password error", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(t, http.MethodPost, "/api/v1/users", map[string]string{
			"email":    "a@b.com",
			"password": "short",
			"username": "x",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.False(t, env.Status)
		errs := decodeFieldErrors(t, env)
		assert.Len(t, errs, 1)
		assert.Equal(t, validate.MsgPasswordTooShort, errs["password"])
	})

	t.Run("all invalid fields reported at once", func(t *testing.T) {
		f := newFixture(t)
		registerUser(t, f, "taken@example.com", "sturdy9password", "taken")

		rec := f.do(t, http.MethodPost, "/api/v1/users", map[string]string{
			"email":    "taken@example.com",
			"password": "lettersonly",
			"username": "taken",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		errs := decodeFieldErrors(t, decodeEnvelope(t, rec))
		assert.Len(t, errs, 3)
		assert.Equal(t, validate.MsgEmailExists, errs["email"])
		assert.Equal(t, validate.MsgPasswordNotAlphanumeric, errs["password"])
		assert.Equal(t, validate.MsgUsernameExists, errs["username"])
	})
}

func TestLoginEndpoint(t *testing.T) {
	f := newFixture(t)
	registerUser(t, f, "ada@example.com", "sturdy9password", "ada")

	t.Run("valid credentials issue a token", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/users/login", map[string]string{
			"email":    "ada@example.com",
			"password": "sturdy9password",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		env := decodeEnvelope(t, rec)
		assert.NotEmpty(t, env.Token)
	})

	t.Run("wrong password is rejected with a uniform message", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/users/login", map[string]string{
			"email":    "ada@example.com",
			"password": "wrong9password",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "invalid email or password", env.Message)
	})

	t.Run("unknown email gets the same message", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/users/login", map[string]string{
			"email":    "ghost@example.com",
			"password": "sturdy9password",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "invalid email or password", env.Message)
	})
}

func TestForgotPasswordEndpoint(t *testing.T) {
	f := newFixture(t)
	registerUser(t, f, "ada@example.com", "sturdy9password", "ada")

	t.Run("known email succeeds", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/users/forgot_password", map[string]string{
			"email": "ada@example.com",
		}, nil)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("unknown email fails validation without side effects", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/users/forgot_password", map[string]string{
			"email": "ghost@example.com",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		errs := decodeFieldErrors(t, decodeEnvelope(t, rec))
		assert.Equal(t, validate.MsgEmailNotExists, errs["email"])
	})
}

func TestResetPasswordEndpoint(t *testing.T) {
	f := newFixture(t)
	registerUser(t, f, "ada@example.com", "sturdy9password", "ada")

	resetToken, err := f.tokens.IssueReset("ada@example.com")
	require.NoError(t, err)
	authHeader := map[string]string{"Authorization": "Bearer " + resetToken}

	t.Run("mismatched confirmation is field-scoped", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/api/v1/users/reset_password", map[string]string{
			"password":         "another9password",
			"confirm_password": "different9password",
		}, authHeader)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		errs := decodeFieldErrors(t, decodeEnvelope(t, rec))
		assert.Len(t, errs, 1)
		assert.Equal(t, validate.MsgPasswordNotMatch, errs["confirm_password"])
	})

	t.Run("matching passwords reset the credential", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/api/v1/users/reset_password", map[string]string{
			"password":         "another9password",
			"confirm_password": "another9password",
		}, authHeader)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		login := f.do(t, http.MethodPost, "/api/v1/users/login", map[string]string{
			"email":    "ada@example.com",
			"password": "another9password",
		}, nil)
		assert.Equal(t, http.StatusOK, login.Code)
	})

	t.Run("identity token cannot reset a password", func(t *testing.T) {
		login := f.do(t, http.MethodPost, "/api/v1/users/login", map[string]string{
			"email":    "ada@example.com",
			"password": "another9password",
		}, nil)
		identityToken := decodeEnvelope(t, login).Token

		rec := f.do(t, http.MethodPatch, "/api/v1/users/reset_password", map[string]string{
			"password":         "third9password",
			"confirm_password": "third9password",
		}, map[string]string{"Authorization": "Bearer " + identityToken})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid/expired token", decodeEnvelope(t, rec).Message)
	})
}

func TestConfirmAccountEndpoint(t *testing.T) {
	f := newFixture(t)
	registerUser(t, f, "ada@example.com", "sturdy9password", "ada")

	confirmToken, err := f.tokens.IssueConfirm("ada@example.com")
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/v1/users/confirm_account?token="+confirmToken, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	user, err := f.users.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.True(t, user.Confirmed)
}

func TestAuthGate(t *testing.T) {
	f := newFixture(t)

	t.Run("missing token is a uniform 401", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/articles", map[string]string{}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Status)
		assert.Equal(t, "invalid/expired token", env.Message)
	})

	t.Run("expired token gets the same body", func(t *testing.T) {
		past, err := token.NewService("test-secret", time.Hour, time.Hour, time.Hour)
		require.NoError(t, err)
		past.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
		expired, err := past.IssueIdentity(ulid.Make(), "ada@example.com")
		require.NoError(t, err)

		rec := f.do(t, http.MethodPost, "/api/v1/articles", map[string]string{}, map[string]string{
			"Authorization": "Bearer " + expired,
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid/expired token", decodeEnvelope(t, rec).Message)
	})

	t.Run("garbled token gets the same body", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/articles", map[string]string{}, map[string]string{
			"Authorization": "Bearer not.a.token",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid/expired token", decodeEnvelope(t, rec).Message)
	})
}

func TestArticleEndpoints(t *testing.T) {
	f := newFixture(t)
	env := registerUser(t, f, "ada@example.com", "sturdy9password", "ada")
	authHeader := map[string]string{"Authorization": "Bearer " + env.Token}

	article := map[string]any{
		"title":       "Hello World",
		"description": "an introduction",
		"body":        "some words to read",
	}

	t.Run("create requires auth", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/articles", article, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("create succeeds with auth", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/articles", article, authHeader)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("duplicate title for the same author is rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/articles", article, authHeader)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "an article with that title already exist",
			decodeEnvelope(t, rec).Message)
	})

	t.Run("missing fields are aggregated", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/articles", map[string]string{}, authHeader)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		errs := decodeFieldErrors(t, decodeEnvelope(t, rec))
		assert.Len(t, errs, 3)
	})
}
