package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/carelog/carelog/pkg/composables"
	"github.com/carelog/carelog/pkg/configuration"
	"github.com/carelog/carelog/pkg/pgrest"
	"github.com/carelog/carelog/pkg/serrors"
)

// scoped resolves the request's credential-bound store client together with
// the principal it is scoped to. Repositories never hold a client of their
// own.
func scoped(ctx context.Context) (*pgrest.Client, *composables.Principal, error) {
	store, err := composables.UseStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	principal, err := composables.UsePrincipal(ctx)
	if err != nil {
		return nil, nil, err
	}
	return store, principal, nil
}

// upstream classifies a store failure and logs operation, owner and
// identifier. Field contents are never logged.
func upstream(ctx context.Context, op string, ownerID, id uuid.UUID, err error) error {
	if ctx.Err() != nil {
		return serrors.Wrap(serrors.KindUpstreamUnavailable, op, ctx.Err())
	}
	if pgrest.IsUniqueViolation(err) {
		return serrors.Wrap(serrors.KindDuplicateConflict, op, err)
	}
	log, ok := composables.UseLogger(ctx)
	if !ok {
		log = configuration.Use().Logger().WithContext(ctx)
	}
	log.WithFields(map[string]interface{}{
		"op":    op,
		"owner": ownerID.String(),
		"id":    id.String(),
	}).WithError(err).Error("store request failed")
	return serrors.Wrap(serrors.KindUpstreamUnavailable, op, err)
}
