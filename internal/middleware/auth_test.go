package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital/internal/token"
)

var gateSecret = []byte("gate-test-secret")

func gateRequest(t *testing.T, path, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	Gate(gateSecret)(next).ServeHTTP(rec, req)
	return rec
}

func TestGatePublicPathsPassWithoutToken(t *testing.T) {
	t.Parallel()

	for _, path := range []string{
		"/login", "/signup", "/api/auth/login", "/api/auth/signup",
		"/api/test-db/create-test-user", "/health", "/favicon.ico", "/assets/app.js",
	} {
		rec := gateRequest(t, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}

func TestGateNoTokenPageRedirectsToSignup(t *testing.T) {
	t.Parallel()

	rec := gateRequest(t, "/dashboard", "")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/signup", rec.Header().Get("Location"))
}

func TestGateNoTokenAPIRedirectsToLogin(t *testing.T) {
	t.Parallel()

	rec := gateRequest(t, "/api/patients", "")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGateInvalidTokenRedirectsToLogin(t *testing.T) {
	t.Parallel()

	rec := gateRequest(t, "/dashboard", "not-a-jwt")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGateWrongSecretRedirectsToLogin(t *testing.T) {
	t.Parallel()

	tok, err := token.Issue(7, "a@b.com", "A", "user", []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	rec := gateRequest(t, "/api/patients", tok)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGateValidTokenPassesAndInjectsClaims(t *testing.T) {
	t.Parallel()

	tok, err := token.Issue(7, "a@b.com", "A", "Admin", gateSecret, time.Hour)
	require.NoError(t, err)

	var userID int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: tok})
	rec := httptest.NewRecorder()
	Gate(gateSecret)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, userID)
}

// Токен без состояния на сервере: после "выхода" неистёкший токен всё ещё
// проходит проверку.
func TestGateUnexpiredTokenStillValidAfterLogout(t *testing.T) {
	t.Parallel()

	tok, err := token.Issue(7, "a@b.com", "A", "user", gateSecret, time.Hour)
	require.NoError(t, err)

	rec := gateRequest(t, "/api/patients", tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	// Повтор того же токена (имитация replay после logout).
	rec = gateRequest(t, "/api/patients", tok)
	assert.Equal(t, http.StatusOK, rec.Code)
}
