package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/carelog/carelog/pkg/application"
	"github.com/carelog/carelog/pkg/configuration"
	"github.com/carelog/carelog/pkg/constants"
	"github.com/carelog/carelog/pkg/httpapi"
	"github.com/carelog/carelog/pkg/metrics"
	"github.com/carelog/carelog/pkg/middleware"
	"github.com/carelog/carelog/pkg/pgrest"
	"github.com/carelog/carelog/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Store         *pgrest.Client
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, middleware.DefaultLoggerOptions()),

		middleware.TracedMiddleware("provide"),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.StoreBaseKey, options.Store),

		middleware.TracedMiddleware("cors"),
		middleware.Cors(corsOrigins(options.Configuration)...),
	}

	if options.Configuration.RateLimit.Enabled {
		middlewares = append(middlewares,
			middleware.TracedMiddleware("rateLimit"),
			middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerPeriod: options.Configuration.RateLimit.GlobalRPS,
				Store:             middleware.NewMemoryStore(),
			}),
		)
	}

	middlewares = append(middlewares,
		middleware.TracedMiddleware("requestParams"),
		middleware.RequestParams(),
		metrics.Measure(),
	)

	app.RegisterMiddleware(middlewares...)

	return server.NewHTTPServer(app, notFound(), methodNotAllowed()), nil
}

func corsOrigins(conf *configuration.Configuration) []string {
	var origins []string
	for _, origin := range strings.Split(conf.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func notFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
}

func methodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
}
