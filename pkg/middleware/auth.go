package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/carelog/carelog/pkg/composables"
	"github.com/carelog/carelog/pkg/configuration"
	"github.com/carelog/carelog/pkg/httpapi"
	"github.com/carelog/carelog/pkg/serrors"
)

type principalClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Authenticate verifies the inbound bearer token and binds both the
// resolved principal and a store client scoped to that exact credential to
// the request context. The token is read from the request exactly once;
// nothing about it is cached across requests.
//
// An authenticated request that cannot be given a scoped client fails with
// 502: falling back to an unscoped or privileged client would silently widen
// access scope, which is a fatal design error rather than a retryable one.
func Authenticate() mux.MiddlewareFunc {
	conf := configuration.Use()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, serrors.Code(serrors.KindUnauthenticated), "missing bearer credential", nil)
				return
			}

			principal, err := verifyToken(token, conf)
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, serrors.Code(serrors.KindUnauthenticated), "invalid bearer credential", nil)
				return
			}

			base, ok := composables.UseStoreBase(r.Context())
			if !ok || !base.Ready() {
				_ = httpapi.WriteError(w, http.StatusBadGateway, serrors.Code(serrors.KindUpstreamUnavailable), "store client unavailable", nil)
				return
			}

			ctx := composables.WithPrincipal(r.Context(), principal)
			ctx = composables.WithStore(ctx, base.WithToken(token))
			if params, found := composables.UseParams(ctx); found {
				params.Authenticated = true
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func verifyToken(token string, conf *configuration.Configuration) (*composables.Principal, error) {
	claims := &principalClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(conf.Auth.JWTSecret), nil
	}, jwt.WithAudience(conf.Auth.Audience))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, err
	}

	return &composables.Principal{ID: subject, Email: claims.Email}, nil
}
