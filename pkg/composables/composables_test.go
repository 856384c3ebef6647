package composables_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/carelog/carelog/pkg/composables"
	"github.com/carelog/carelog/pkg/pgrest"
	"github.com/carelog/carelog/pkg/serrors"
)

func TestUsePrincipal_Missing(t *testing.T) {
	_, err := composables.UsePrincipal(context.Background())
	require.Error(t, err)
	require.Equal(t, serrors.KindUnauthenticated, serrors.KindOf(err))
}

func TestUsePrincipal_RoundTrip(t *testing.T) {
	p := &composables.Principal{ID: uuid.New(), Email: "anna@example.com"}
	ctx := composables.WithPrincipal(context.Background(), p)

	got, err := composables.UsePrincipal(ctx)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestUseStore_MissingOrUnready(t *testing.T) {
	_, err := composables.UseStore(context.Background())
	require.Equal(t, serrors.KindUpstreamUnavailable, serrors.KindOf(err))

	// A zero client means configuration never produced a usable base; the
	// request must fail rather than widen access scope.
	ctx := composables.WithStore(context.Background(), &pgrest.Client{})
	_, err = composables.UseStore(ctx)
	require.Equal(t, serrors.KindUpstreamUnavailable, serrors.KindOf(err))
}

func TestUseStore_RoundTrip(t *testing.T) {
	client, err := pgrest.New(pgrest.Config{BaseURL: "http://store.local"})
	require.NoError(t, err)

	ctx := composables.WithStore(context.Background(), client.WithToken("tok"))
	got, err := composables.UseStore(ctx)
	require.NoError(t, err)
	require.True(t, got.Authenticated())
}

func TestUseParams(t *testing.T) {
	_, ok := composables.UseParams(context.Background())
	require.False(t, ok)

	ctx := composables.WithParams(context.Background(), &composables.Params{IP: "10.0.0.1", Authenticated: true})
	params, ok := composables.UseParams(ctx)
	require.True(t, ok)
	require.Equal(t, "10.0.0.1", params.IP)
	require.True(t, composables.UseAuthenticated(ctx))
}
