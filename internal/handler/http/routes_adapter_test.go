package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/adapter"
	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRoundTripAdapter points a real HTTP adapter at a live instance of the
// full router, so both sides agree on paths, headers and payload shapes.
func newRoundTripAdapter(t *testing.T) adapter.ServerAdapter {
	t.Helper()

	srv := httptest.NewServer(newTestRouter(t))
	t.Cleanup(srv.Close)

	a, err := adapter.NewHTTPServerAdapter(
		config.ClientAdapter{HTTPAddress: srv.URL, RequestTimeout: 5 * time.Second},
		logger.Nop(),
	)
	require.NoError(t, err)
	return a
}

// TestRouterAdapter_RegisterRoundTrip verifies the adapter and the router
// agree on the registration route: the request lands on the handler and
// the bearer token from the Authorization response header ends up stored
// in the adapter.
func TestRouterAdapter_RegisterRoundTrip(t *testing.T) {
	a := newRoundTripAdapter(t)

	got, err := a.Register(context.Background(), models.User{Login: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "alice", got.Login)
	assert.Equal(t, "router.test.token", a.Token())
}

// TestRouterAdapter_LoginRoundTrip verifies the login route end to end.
func TestRouterAdapter_LoginRoundTrip(t *testing.T) {
	a := newRoundTripAdapter(t)

	got, err := a.Login(context.Background(), models.User{Login: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "alice", got.Login)
	assert.Equal(t, "router.test.token", a.Token())
}

// TestRouterAdapter_AuthenticatedSnapshot verifies that the token obtained
// through login grants access to a protected sync endpoint.
func TestRouterAdapter_AuthenticatedSnapshot(t *testing.T) {
	a := newRoundTripAdapter(t)

	_, err := a.Login(context.Background(), models.User{Login: "alice", Password: "secret"})
	require.NoError(t, err)

	snap, err := a.PullSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.ServerTimestamp)
}

// TestRouterAdapter_PingRoundTrip verifies the unauthenticated probe.
func TestRouterAdapter_PingRoundTrip(t *testing.T) {
	a := newRoundTripAdapter(t)

	require.NoError(t, a.Ping(context.Background()))
}
