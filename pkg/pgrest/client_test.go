package pgrest_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carelog/carelog/pkg/pgrest"
)

type capturedRequest struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*pgrest.Client, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.query, _ = url.QueryUnescape(r.URL.RawQuery)
		captured.header = r.Header.Clone()
		captured.body, _ = io.ReadAll(r.Body)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := pgrest.New(pgrest.Config{BaseURL: srv.URL, APIKey: "anon-key"})
	require.NoError(t, err)
	return client, captured
}

func TestGet_FiltersAndHeaders(t *testing.T) {
	client, captured := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1","first_name":"Anna"}]`))
	})

	var rows []struct {
		ID        string `json:"id"`
		FirstName string `json:"first_name"`
	}
	err := client.WithToken("user-token").
		From("patients").
		Select("*").
		Eq("owner_id", "o1").
		OrderBy("created_at", true).
		Get(context.Background(), &rows)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Anna", rows[0].FirstName)

	require.Equal(t, http.MethodGet, captured.method)
	require.Equal(t, "/patients", captured.path)
	require.Contains(t, captured.query, "owner_id=eq.o1")
	require.Contains(t, captured.query, "order=created_at.desc")
	require.Equal(t, "anon-key", captured.header.Get("apikey"))
	require.Equal(t, "Bearer user-token", captured.header.Get("Authorization"))
}

func TestInsert_PrefersRepresentation(t *testing.T) {
	client, captured := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"new-id"}]`))
	})

	var rows []struct {
		ID string `json:"id"`
	}
	err := client.From("patients").Insert(context.Background(), map[string]string{"first_name": "Anna"}, &rows)
	require.NoError(t, err)
	require.Equal(t, "new-id", rows[0].ID)
	require.Equal(t, "return=representation", captured.header.Get("Prefer"))
	require.Equal(t, "application/json", captured.header.Get("Content-Type"))
}

func TestStoreError_UniqueViolation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint"}`))
	})

	err := client.From("patients").Insert(context.Background(), map[string]string{}, nil)
	require.Error(t, err)
	require.True(t, pgrest.IsUniqueViolation(err))

	var se *pgrest.StoreError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusConflict, se.Status)
}

func TestStoreError_NonJSONBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream timeout"))
	})

	err := client.From("patients").Get(context.Background(), &[]struct{}{})
	var se *pgrest.StoreError
	require.ErrorAs(t, err, &se)
	require.False(t, pgrest.IsUniqueViolation(err))
	require.Equal(t, http.StatusBadGateway, se.Status)
}

func TestWithToken_DoesNotMutateBase(t *testing.T) {
	base, err := pgrest.New(pgrest.Config{BaseURL: "http://store.local"})
	require.NoError(t, err)

	scoped := base.WithToken("abc")
	require.True(t, scoped.Authenticated())
	require.False(t, base.Authenticated())
}

func TestReady_ZeroClient(t *testing.T) {
	var zero *pgrest.Client
	require.False(t, zero.Ready())
	require.False(t, (&pgrest.Client{}).Ready())
}

func TestContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := client.From("patients").Get(ctx, &[]struct{}{})
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPattern_EscapesWildcards(t *testing.T) {
	require.Equal(t, `*100\%\_x*`, pgrest.Pattern("100%_x"))
	require.Equal(t, `*a\*b*`, pgrest.Pattern("a*b"))
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := pgrest.New(pgrest.Config{})
	require.Error(t, err)
}
