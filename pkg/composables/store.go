package composables

import (
	"context"

	"github.com/carelog/carelog/pkg/constants"
	"github.com/carelog/carelog/pkg/pgrest"
	"github.com/carelog/carelog/pkg/serrors"
)

// WithStore binds a request-scoped, credential-bound store client to the
// context. The client must only ever be attached by the authentication
// middleware and must not survive the request.
func WithStore(ctx context.Context, client *pgrest.Client) context.Context {
	return context.WithValue(ctx, constants.StoreKey, client)
}

// UseStore returns the scoped store client for the current request. A
// missing or unready client means credential propagation failed; callers
// surface that as upstream unavailability, never by falling back to a
// privileged client.
func UseStore(ctx context.Context) (*pgrest.Client, error) {
	client, ok := ctx.Value(constants.StoreKey).(*pgrest.Client)
	if !ok || !client.Ready() {
		return nil, serrors.New(serrors.KindUpstreamUnavailable, "composables.UseStore", "no scoped store client in request context")
	}
	return client, nil
}

// WithStoreBase attaches the credential-free base client used by the
// authentication middleware to mint per-request scoped clients.
func WithStoreBase(ctx context.Context, client *pgrest.Client) context.Context {
	return context.WithValue(ctx, constants.StoreBaseKey, client)
}

func UseStoreBase(ctx context.Context) (*pgrest.Client, bool) {
	client, ok := ctx.Value(constants.StoreBaseKey).(*pgrest.Client)
	return client, ok
}
