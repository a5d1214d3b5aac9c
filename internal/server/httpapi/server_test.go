package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uncovr/uncovr/internal/common"
	"github.com/uncovr/uncovr/internal/dbx"
	"github.com/uncovr/uncovr/internal/logging"
	sc "github.com/uncovr/uncovr/internal/server/config"
	"github.com/uncovr/uncovr/internal/server/models"
	releasesrepo "github.com/uncovr/uncovr/internal/server/repositories/releases"
	tokensrepo "github.com/uncovr/uncovr/internal/server/repositories/tokens"
	usersrepo "github.com/uncovr/uncovr/internal/server/repositories/users"
	"github.com/uncovr/uncovr/internal/server/services"
)

// --- in-memory repositories ---

type memUsers struct {
	seq  int64
	rows map[int64]*models.User
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.seq++
	u.ID = m.seq
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.rows[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := m.rows[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) UpdateName(ctx context.Context, id int64, name string) (*models.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Name = name
	u.UpdatedAt = time.Now().UTC()
	return u, nil
}

func (m *memUsers) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	u, ok := m.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memTokens struct {
	rows map[string]*models.AccessToken
}

func (m *memTokens) Create(ctx context.Context, token *models.AccessToken) error {
	m.rows[token.ID] = token
	return nil
}

func (m *memTokens) Get(ctx context.Context, id string) (*models.AccessToken, error) {
	if tok, ok := m.rows[id]; ok {
		return tok, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memTokens) Delete(ctx context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memTokens) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64
	for id, tok := range m.rows {
		if time.Now().After(tok.ExpiresAt) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

type memReleases struct {
	latest   []*models.Release
	featured []*models.Release
}

func (m *memReleases) Latest(ctx context.Context, limit int) ([]*models.Release, error) {
	return m.latest, nil
}

func (m *memReleases) Featured(ctx context.Context) ([]*models.Release, error) {
	return m.featured, nil
}

type memManager struct {
	users    *memUsers
	tokens   *memTokens
	releases *memReleases
}

func (m *memManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (m *memManager) Users(db dbx.DBTX) usersrepo.Repository { return m.users }

func (m *memManager) Tokens(db dbx.DBTX) tokensrepo.Repository { return m.tokens }

func (m *memManager) Releases(db dbx.DBTX) releasesrepo.Repository { return m.releases }

// --- helpers ---

const strongPassword = "Str0ngPassw0rd!x"

func newTestServer(t *testing.T) (*Server, *memManager) {
	t.Helper()

	rm := &memManager{
		users:    &memUsers{rows: map[int64]*models.User{}},
		tokens:   &memTokens{rows: map[string]*models.AccessToken{}},
		releases: &memReleases{},
	}

	cfg := &sc.Config{
		SecretKey:      "test-secret",
		TokenValidity:  time.Hour,
		S3RootUser:     "admin",
		S3RootPassword: "secret",
		S3Bucket:       "covers",
		S3Region:       "us-east-1",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	users := services.NewUserService(nil, rm, cfg)
	releases := services.NewReleaseService(nil, rm, cfg)

	return NewServer(":0", logger, users, releases), rm
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, s *Server, email string) authPayload {
	t.Helper()

	rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/register", "", registerRequest{
		Name:                 "Jane",
		Email:                email,
		Password:             strongPassword,
		PasswordConfirmation: strongPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var payload authPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Token)
	return payload
}

// --- tests ---

func TestRegisterAndMe_Flow(t *testing.T) {
	s, _ := newTestServer(t)

	payload := registerUser(t, s, "j@x.com")
	assert.Equal(t, "Jane", payload.User.Name)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/me", payload.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user userPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, payload.User.ID, user.ID)
	assert.Equal(t, "j@x.com", user.Email)
	assert.Nil(t, user.EmailVerifiedAt)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, _ := newTestServer(t)

	registerUser(t, s, "j@x.com")

	rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/register", "", registerRequest{
		Name:                 "Other",
		Email:                "j@x.com",
		Password:             strongPassword,
		PasswordConfirmation: strongPassword,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "already been taken")
}

func TestRegister_WeakPassword(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/register", "", registerRequest{
		Name:                 "Jane",
		Email:                "j@x.com",
		Password:             "aaaaaaaa",
		PasswordConfirmation: "aaaaaaaa",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLogin_Flow(t *testing.T) {
	s, _ := newTestServer(t)
	registerUser(t, s, "j@x.com")

	rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Email:    "j@x.com",
		Password: strongPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var payload authPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload.Token)
	assert.Equal(t, "j@x.com", payload.User.Email)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s, _ := newTestServer(t)
	registerUser(t, s, "j@x.com")

	rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Email:    "j@x.com",
		Password: "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestMe_NoToken(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthenticated.")
}

func TestLogout_RevokesToken(t *testing.T) {
	s, _ := newTestServer(t)
	payload := registerUser(t, s, "j@x.com")

	rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/logout", payload.Token, struct{}{})
	require.Equal(t, http.StatusOK, rec.Code)

	// the JWT is still signed and unexpired, but its record is gone
	rec = doRequest(t, s, http.MethodGet, "/api/v1/me", payload.Token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthenticated.")
}

func TestUpdateProfile(t *testing.T) {
	s, _ := newTestServer(t)
	payload := registerUser(t, s, "j@x.com")

	rec := doRequest(t, s, http.MethodPut, "/api/v1/me", payload.Token, updateProfileRequest{Name: "Janet"})
	require.Equal(t, http.StatusOK, rec.Code)

	var user userPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "Janet", user.Name)
}

func TestChangePassword_Flow(t *testing.T) {
	s, _ := newTestServer(t)
	payload := registerUser(t, s, "j@x.com")

	next := "An0therPassw0rd!y"

	rec := doRequest(t, s, http.MethodPut, "/api/v1/auth/password", payload.Token, changePasswordRequest{
		CurrentPassword:      "wrong",
		Password:             next,
		PasswordConfirmation: next,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "current password is incorrect")

	rec = doRequest(t, s, http.MethodPut, "/api/v1/auth/password", payload.Token, changePasswordRequest{
		CurrentPassword:      strongPassword,
		Password:             next,
		PasswordConfirmation: next,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// old token still works: changing a password is not a logout
	rec = doRequest(t, s, http.MethodGet, "/api/v1/me", payload.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// and the new password signs in
	rec = doRequest(t, s, http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Email:    "j@x.com",
		Password: next,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReleases_Public(t *testing.T) {
	s, rm := newTestServer(t)

	released := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rm.releases.latest = []*models.Release{
		{
			ID: 1, Title: "First", Type: "album", CoverKey: "covers/1.jpg",
			ReleaseDate: released,
			Artist:      models.Artist{ID: 1, Name: "Band", Slug: "band", ImageKey: "artists/1.jpg"},
		},
	}

	rec := doRequest(t, s, http.MethodGet, "/api/v1/releases", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload releasesPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "First", payload.Data[0].Title)
	assert.Equal(t, "2025-06-01", payload.Data[0].ReleaseDate)
	// presigning is local, so even offline the URL comes out signed
	assert.Contains(t, payload.Data[0].CoverImage, "covers/1.jpg")
	assert.Contains(t, payload.Data[0].Artist.ArtistImage, "artists/1.jpg")
}

func TestFeaturedReleases_Public(t *testing.T) {
	s, rm := newTestServer(t)

	rm.releases.featured = []*models.Release{
		{ID: 2, Title: "Second", Type: "single", ReleaseDate: time.Now(), Featured: true},
	}

	rec := doRequest(t, s, http.MethodGet, "/api/v1/releases/featured", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload releasesPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "Second", payload.Data[0].Title)
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestInvalidBody(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}
