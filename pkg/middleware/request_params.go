package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carelog/carelog/pkg/composables"
	"github.com/carelog/carelog/pkg/configuration"
)

// RequestParams captures per-request metadata in the context ahead of
// authentication and the controllers.
func RequestParams() mux.MiddlewareFunc {
	conf := configuration.Use()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params := &composables.Params{
				IP:        getRealIP(r, conf),
				UserAgent: r.UserAgent(),
				Request:   r,
				Writer:    w,
			}
			next.ServeHTTP(w, r.WithContext(composables.WithParams(r.Context(), params)))
		})
	}
}
