package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/mobilecore/internal/logging"
	"github.com/dmitrijs2005/mobilecore/internal/server/auth"
	"github.com/dmitrijs2005/mobilecore/internal/server/config"
	"github.com/dmitrijs2005/mobilecore/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mobilecore/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{SecretKey: testSecret, AccessTokenValidityDuration: time.Minute}
	m := repomanager.NewInMemoryRepositoryManager()
	h := NewHandler(services.NewUserService(nil, m, cfg), services.NewNoteService(nil, m), logging.Nop())
	return h.Routes()
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, h http.Handler, email string) authResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ann", "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e.Error
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRegister(t *testing.T) {
	h := newTestRouter(t)

	res := register(t, h, "Ann@Example.com")
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.User.ID)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.Equal(t, "Ann", res.User.Name)

	claims, err := auth.ParseToken(res.Token, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
}

func TestRegister_Duplicate(t *testing.T) {
	h := newTestRouter(t)
	register(t, h, "ann@example.com")

	rec := do(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ANN@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "user already exists", errorOf(t, rec))
}

func TestRegister_Validation(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]string
		want string
	}{
		{"missing email", map[string]string{"password": "password123"}, "email is required"},
		{"bad email", map[string]string{"email": "nope", "password": "password123"}, "email must be a valid email address"},
		{"short password", map[string]string{"email": "a@b.co", "password": "short"}, "password must be at least 8 characters"},
		{"long name", map[string]string{"name": strings.Repeat("x", 101), "email": "a@b.co", "password": "password123"}, "name must be at most 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, errorOf(t, rec))
		})
	}
}

func TestRegister_BadJSON(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", errorOf(t, rec))
}

func TestLogin(t *testing.T) {
	h := newTestRouter(t)
	reg := register(t, h, "ann@example.com")

	t.Run("ok", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ann@example.com", "password": "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var res authResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, reg.User, res.User)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ann@example.com", "password": "password999",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid email or password", errorOf(t, rec))
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "bob@example.com", "password": "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMe(t *testing.T) {
	h := newTestRouter(t)
	reg := register(t, h, "ann@example.com")

	rec := do(t, h, http.MethodGet, "/api/auth/me", reg.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var u userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, reg.User, u)
}

func TestProtected_Unauthorized(t *testing.T) {
	h := newTestRouter(t)

	expired, err := auth.GenerateToken("u1", "a@b.co", []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken("u1", "a@b.co", []byte("other"), time.Minute)
	require.NoError(t, err)
	// пользователя с таким id нет
	orphan, err := auth.GenerateToken("ghost", "g@b.co", []byte(testSecret), time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		path  string
		token string
		want  string
	}{
		{"no token", "/api/notes", "", "missing token"},
		{"garbage", "/api/notes", "garbage", "invalid token"},
		{"expired", "/api/auth/me", expired, "token expired"},
		{"wrong secret", "/api/auth/me", foreign, "invalid token"},
		{"unknown user", "/api/auth/me", orphan, "unknown user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.want, errorOf(t, rec))
		})
	}
}

func TestNotes(t *testing.T) {
	h := newTestRouter(t)
	ann := register(t, h, "ann@example.com")
	bob := register(t, h, "bob@example.com")

	rec := do(t, h, http.MethodPost, "/api/notes", ann.Token, map[string]string{"title": " first ", "body": "hello"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created noteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "first", created.Title)
	assert.Equal(t, "hello", created.Body)
	assert.NotEmpty(t, created.CreatedAt)

	rec = do(t, h, http.MethodGet, "/api/notes", ann.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []noteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	// чужие заметки не видны
	rec = do(t, h, http.MethodGet, "/api/notes", bob.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateNote_Validation(t *testing.T) {
	h := newTestRouter(t)
	ann := register(t, h, "ann@example.com")

	rec := do(t, h, http.MethodPost, "/api/notes", ann.Token, map[string]string{"body": "no title"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title is required", errorOf(t, rec))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, http.MethodGet, "/api/health", "", nil)

	rec := do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `mobilecore_http_requests_total{method="GET",path="/api/health",status="200"}`)
}
