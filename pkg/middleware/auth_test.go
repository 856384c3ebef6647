package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/carelog/carelog/pkg/composables"
	"github.com/carelog/carelog/pkg/constants"
	"github.com/carelog/carelog/pkg/pgrest"
)

const testSecret = "test-jwt-secret"

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "carelog-middleware-test")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv("AUTH_JWT_SECRET", testSecret)
	_ = os.Setenv("LOG_PATH", filepath.Join(tmp, "app.log"))
	code := m.Run()
	_ = os.RemoveAll(tmp)
	os.Exit(code)
}

func signToken(t *testing.T, subject string, secret string) string {
	t.Helper()
	claims := principalClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "anna@example.com",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authStack(t *testing.T, inner http.HandlerFunc) http.Handler {
	t.Helper()
	base, err := pgrest.New(pgrest.Config{BaseURL: "http://store.local", APIKey: "anon"})
	require.NoError(t, err)

	var handler http.Handler = inner
	handler = Authenticate()(handler)
	handler = Provide(constants.StoreBaseKey, base)(handler)
	handler = RequestParams()(handler)
	return handler
}

func TestAuthenticate_MissingToken(t *testing.T) {
	handler := authStack(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a credential")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "UNAUTHENTICATED", envelope["code"])
}

func TestAuthenticate_BadSignature(t *testing.T) {
	handler := authStack(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a forged credential")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.NewString(), "wrong-secret"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_NonUUIDSubject(t *testing.T) {
	handler := authStack(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for an unresolvable principal")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "service-account", testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ScopesStoreClient(t *testing.T) {
	subject := uuid.New()

	var sawPrincipal *composables.Principal
	var sawStore *pgrest.Client
	handler := authStack(t, func(w http.ResponseWriter, r *http.Request) {
		p, err := composables.UsePrincipal(r.Context())
		require.NoError(t, err)
		sawPrincipal = p

		store, err := composables.UseStore(r.Context())
		require.NoError(t, err)
		sawStore = store

		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, subject.String(), testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, subject, sawPrincipal.ID)
	require.Equal(t, "anna@example.com", sawPrincipal.Email)
	require.True(t, sawStore.Authenticated())
}

// An authenticated caller with no usable base client gets a 502, never a
// privileged fallback.
func TestAuthenticate_NoBaseClient(t *testing.T) {
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credential propagation")
	})
	handler = Authenticate()(handler)
	handler = RequestParams()(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.NewString(), testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "UPSTREAM_UNAVAILABLE", envelope["code"])
}
