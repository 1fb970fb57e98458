package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenspark-backend/internal/logging"
	"greenspark-backend/internal/models"
	"greenspark-backend/internal/storage"
)

type fakeRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (f *fakeRevocations) Revoke(_ context.Context, jti string, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[jti] = until
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[jti]
	return ok, nil
}

type testServer struct {
	router http.Handler
	store  *storage.Memory
	issuer *TokenIssuer
}

func newTestServer(t *testing.T, users UserStore, revoked RevocationList) *testServer {
	t.Helper()
	mem := storage.NewMemory()
	if users == nil {
		users = mem
	}

	issuer, err := NewTokenIssuer(testSecret, DefaultSessionTTL)
	require.NoError(t, err)

	authn := NewAuthenticator(issuer, users, revoked)
	h := NewHandler(users, authn, CookiePolicy{MaxAge: issuer.TTL()}, logging.Nop())

	r := chi.NewRouter()
	h.RegisterRoutes(r, nil)
	return &testServer{router: r, store: mem, issuer: issuer}
}

func (s *testServer) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAuthFlow_ExampleScenario(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"p1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Registration successful", body["msg"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "Ann", user["name"])
	assert.Equal(t, "ann@x.com", user["email"])
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Equal(t, body["token"], sessionCookie(t, rec).Value)

	rec = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"msg":"Invalid credentials"}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())

	rec = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", decodeBody(t, rec)["msg"])
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	rec = s.do(t, http.MethodGet, "/api/auth/check-auth", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["loggedIn"])
	assert.Equal(t, "Ann", body["name"])
	assert.Equal(t, "ann@x.com", body["email"])

	rec = s.do(t, http.MethodPost, "/api/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg":"Logged out successfully"}`, rec.Body.String())
	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	rec = s.do(t, http.MethodGet, "/api/auth/check-auth", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"loggedIn":false}`, rec.Body.String())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"p1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	first, err := s.store.GetUserByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)

	for _, email := range []string{"ann@x.com", "ANN@x.com", "  ann@x.com "} {
		rec = s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Imposter","email":"`+email+`","password":"p2"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, email)
		assert.JSONEq(t, `{"msg":"User already exists"}`, rec.Body.String())
	}

	again, err := s.store.GetUserByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Ann", again.Name)
}

func TestRegister_BadInput(t *testing.T) {
	s := newTestServer(t, nil, nil)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "unknown field", body: `{"name":"Ann","email":"ann@x.com","password":"p1","role":"admin"}`, wantMsg: "Invalid request body"},
		{name: "malformed", body: `{"name":`, wantMsg: "Invalid request body"},
		{name: "missing name", body: `{"email":"ann@x.com","password":"p1"}`, wantMsg: "name is required"},
		{name: "blank name", body: `{"name":"  ","email":"ann@x.com","password":"p1"}`, wantMsg: "name is required"},
		{name: "bad email", body: `{"name":"Ann","email":"ann","password":"p1"}`, wantMsg: "email must be a valid email address"},
		{name: "missing password", body: `{"name":"Ann","email":"ann@x.com"}`, wantMsg: "password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"msg":"`+tt.wantMsg+`"}`, rec.Body.String())
		})
	}
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"p1"}`)

	unknown := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"nobody@x.com","password":"p1"}`)
	wrong := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"p2"}`)

	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestLogin_EmailIsCaseInsensitive(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"Ann@X.com","password":"p1"}`)

	rec := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"p1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckAuth_InvalidSessions(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"p1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	token := sessionCookie(t, rec).Value

	ann, err := s.store.GetUserByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)

	expired, err := NewTokenIssuer(testSecret, DefaultSessionTTL)
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	expiredToken, err := expired.Issue(ann.ID)
	require.NoError(t, err)

	ghostToken, err := s.issuer.Issue("no-such-user")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
	}{
		{name: "tampered", value: flipByte(token, 20)},
		{name: "garbage", value: "abc.def.ghi"},
		{name: "expired", value: expiredToken},
		{name: "unknown user", value: ghostToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/auth/check-auth", "", &http.Cookie{Name: CookieName, Value: tt.value})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"loggedIn":false}`, rec.Body.String())
		})
	}
}

func TestCheckAuth_DeletedUser(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"p1"}`)
	cookie := sessionCookie(t, rec)

	ann, err := s.store.GetUserByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	s.store.DeleteUser(ann.ID)

	rec = s.do(t, http.MethodGet, "/api/auth/check-auth", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_CopiedTokenStillValidWithoutDenylist(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"p1"}`)
	copied := sessionCookie(t, rec)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", "", copied)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/auth/check-auth", "", &http.Cookie{Name: CookieName, Value: copied.Value})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogout_RevokesTokenWithDenylist(t *testing.T) {
	revoked := &fakeRevocations{}
	s := newTestServer(t, nil, revoked)
	rec := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"p1"}`)
	copied := sessionCookie(t, rec)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", "", copied)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, revoked.revoked, 1)

	rec = s.do(t, http.MethodGet, "/api/auth/check-auth", "", &http.Cookie{Name: CookieName, Value: copied.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// logging out without a cookie is still fine
	rec = s.do(t, http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

type failingStore struct {
	*storage.Memory
	createErr error
	lookupErr error
}

func (f *failingStore) CreateUser(ctx context.Context, u *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.Memory.CreateUser(ctx, u)
}

func (f *failingStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.Memory.GetUserByEmail(ctx, email)
}

func TestRegister_StorageFailures(t *testing.T) {
	t.Run("insert fails", func(t *testing.T) {
		s := newTestServer(t, &failingStore{Memory: storage.NewMemory(), createErr: errors.New("pq: connection refused")}, nil)
		rec := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"p1"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"msg":"Registration failed"}`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "pq:")
	})

	t.Run("lost race to unique constraint", func(t *testing.T) {
		s := newTestServer(t, &failingStore{Memory: storage.NewMemory(), createErr: storage.ErrEmailTaken}, nil)
		rec := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"p1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"msg":"User already exists"}`, rec.Body.String())
	})

	t.Run("lookup fails", func(t *testing.T) {
		s := newTestServer(t, &failingStore{Memory: storage.NewMemory(), lookupErr: errors.New("timeout")}, nil)
		rec := s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"p1"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestLogin_ServerFailures(t *testing.T) {
	t.Run("lookup fails", func(t *testing.T) {
		s := newTestServer(t, &failingStore{Memory: storage.NewMemory(), lookupErr: errors.New("timeout")}, nil)
		rec := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"p1"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"msg":"Login failed"}`, rec.Body.String())
	})

	t.Run("corrupt hash", func(t *testing.T) {
		mem := storage.NewMemory()
		require.NoError(t, mem.CreateUser(context.Background(), &models.User{
			ID: "u-1", Name: "Ann", Email: "ann@x.com", PasswordHash: "corrupt",
		}))
		s := newTestServer(t, mem, nil)
		rec := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ann@x.com","password":"p1"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"msg":"Login failed"}`, rec.Body.String())
	})
}
