package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	log := NewLogger("test-role")
	require.NotNil(t, log)

	// must not panic
	log.Debug().Msg("debug message")
}

func TestNop(t *testing.T) {
	log := Nop()
	require.NotNil(t, log)

	log.Error().Msg("discarded")
}

func TestGetChildLogger(t *testing.T) {
	parent := Nop()
	child := parent.GetChildLogger()

	require.NotNil(t, child)
	assert.NotSame(t, parent, child)
}

func TestFromContext_NoLoggerAttached(t *testing.T) {
	log := FromContext(context.Background())
	require.NotNil(t, log)
}

func TestFromRequest(t *testing.T) {
	base := Nop()
	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(base.WithContext(r.Context()))

	log := FromRequest(r)
	require.NotNil(t, log)
}
