package composables

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/carelog/carelog/pkg/constants"
)

// Params carries per-request metadata set by the RequestParams middleware.
type Params struct {
	IP            string
	UserAgent     string
	Authenticated bool
	Request       *http.Request
	Writer        http.ResponseWriter
}

func WithParams(ctx context.Context, params *Params) context.Context {
	return context.WithValue(ctx, constants.ParamsKey, params)
}

// UseParams returns the request parameters from the context.
// If the parameters are not found, the second return value will be false.
func UseParams(ctx context.Context) (*Params, bool) {
	params, ok := ctx.Value(constants.ParamsKey).(*Params)
	return params, ok
}

// UseAuthenticated reports whether the request carries a verified principal.
func UseAuthenticated(ctx context.Context) bool {
	params, ok := UseParams(ctx)
	return ok && params.Authenticated
}

// UseLogger returns the request-scoped log entry set by the logging
// middleware, if any.
func UseLogger(ctx context.Context) (*logrus.Entry, bool) {
	entry, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	return entry, ok
}
