package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWithGZip_CompressesResponse verifies that a client advertising gzip
// support receives a compressed body.
func TestWithGZip_CompressesResponse(t *testing.T) {
	const payload = "hello, compressed world"

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(payload))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	withGZip(next).ServeHTTP(rec, req)

	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	gzipReader, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	defer gzipReader.Close()

	decompressed, err := io.ReadAll(gzipReader)
	require.NoError(t, err)
	assert.Equal(t, payload, string(decompressed))
}

// TestWithGZip_PassthroughWithoutAcceptEncoding verifies that clients not
// advertising gzip get the raw body.
func TestWithGZip_PassthroughWithoutAcceptEncoding(t *testing.T) {
	const payload = "plain body"

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(payload))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	withGZip(next).ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, payload, rec.Body.String())
}

// TestWithGZip_DecompressesRequestBody verifies that a gzip-encoded request
// body is transparently decompressed before reaching the handler.
func TestWithGZip_DecompressesRequestBody(t *testing.T) {
	const payload = `{"login":"alice"}`

	var compressed bytes.Buffer
	gzipWriter := gzip.NewWriter(&compressed)
	_, err := gzipWriter.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	var seenBody string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, readErr := io.ReadAll(r.Body)
		require.NoError(t, readErr)
		seenBody = string(b)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", &compressed)
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()

	withGZip(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, seenBody)
}

// TestWithGZip_InvalidGzipBody verifies that a body claiming gzip encoding
// but containing garbage is rejected with 400.
func TestWithGZip_InvalidGzipBody(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not gzip at all"))
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()

	withGZip(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
