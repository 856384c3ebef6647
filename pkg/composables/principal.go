package composables

import (
	"context"

	"github.com/google/uuid"

	"github.com/carelog/carelog/pkg/constants"
	"github.com/carelog/carelog/pkg/serrors"
)

// Principal is the authenticated caller for exactly one inbound request. It
// is created at request entry from the verified bearer token and dropped at
// request exit; it must never be stored in a field that outlives the request.
type Principal struct {
	ID    uuid.UUID
	Email string
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, constants.PrincipalKey, p)
}

// UsePrincipal returns the request's verified principal, or an
// unauthenticated error when the request carried no verifiable credential.
func UsePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := ctx.Value(constants.PrincipalKey).(*Principal)
	if !ok || p == nil {
		return nil, serrors.New(serrors.KindUnauthenticated, "composables.UsePrincipal", "no principal in request context")
	}
	return p, nil
}
