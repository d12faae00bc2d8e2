package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently held
// by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [ServerAdapter]. It POSTs the user credentials to
// POST /api/auth/register. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken. Returns an error if
// the request fails, the server returns a non-2xx status, or the token cannot
// be parsed.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/register")
	if err != nil {
		return models.User{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.User{}, fmt.Errorf("register parse bearer token: %w", err)
	}

	h.SetToken(token)
	return user, nil
}

// Login implements [ServerAdapter]. It POSTs the user credentials to
// POST /api/auth/login. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken. Returns an error if
// the request fails, the server returns a non-2xx status, or the token cannot
// be parsed.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.User, error) {
	var foundUser models.User

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		SetResult(&foundUser).
		Post("/api/auth/login")
	if err != nil {
		return user, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return user, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return user, fmt.Errorf("login parse bearer token: %w", err)
	}

	h.SetToken(token)
	foundUser.Login = user.Login
	return foundUser, nil
}

// Reconcile implements [ServerAdapter]. It POSTs the batch to
// POST /api/sync/reconcile and decodes the per-record outcomes. Requires a
// valid bearer token. Returns an error if the request, response mapping, or
// JSON decoding fails.
func (h *httpServerAdapter) Reconcile(ctx context.Context, req models.ReconcileRequest) (models.ReconcileResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/sync/reconcile")
	if err != nil {
		return models.ReconcileResponse{}, fmt.Errorf("reconcile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ReconcileResponse{}, err
	}

	var rr models.ReconcileResponse
	if err = json.Unmarshal(resp.Body(), &rr); err != nil {
		return models.ReconcileResponse{}, fmt.Errorf("decode reconcile response: %w", err)
	}

	return rr, nil
}

// PullSnapshot implements [ServerAdapter]. It GETs the full dataset from
// GET /api/sync/snapshot. Requires a valid bearer token. Returns an error if
// the request, response mapping, or JSON decoding fails.
func (h *httpServerAdapter) PullSnapshot(ctx context.Context) (models.SnapshotResponse, error) {
	resp, err := h.authedRequest(ctx).Get("/api/sync/snapshot")
	if err != nil {
		return models.SnapshotResponse{}, fmt.Errorf("pull snapshot request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SnapshotResponse{}, err
	}

	var sr models.SnapshotResponse
	if err = json.Unmarshal(resp.Body(), &sr); err != nil {
		return models.SnapshotResponse{}, fmt.Errorf("decode snapshot response: %w", err)
	}

	return sr, nil
}

// FetchEntity implements [ServerAdapter]. It GETs a single record from
// GET /api/{type}/{id}. Returns [ErrNotFound] (wrapped) on HTTP 404. Requires
// a valid bearer token.
func (h *httpServerAdapter) FetchEntity(ctx context.Context, entityType models.EntityType, id string) (models.Entity, error) {
	if !entityType.Valid() {
		return models.Entity{}, fmt.Errorf("%w: unknown entity type %q", ErrBadRequest, entityType)
	}

	resp, err := h.authedRequest(ctx).Get("/api/" + string(entityType) + "/" + url.PathEscape(id))
	if err != nil {
		return models.Entity{}, fmt.Errorf("fetch entity request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Entity{}, err
	}

	var entity models.Entity
	if err = json.Unmarshal(resp.Body(), &entity); err != nil {
		return models.Entity{}, fmt.Errorf("decode entity response: %w", err)
	}

	return entity, nil
}

// Ping implements [ServerAdapter]. It GETs GET /api/ping without
// authentication and maps any non-2xx status through mapHTTPError.
func (h *httpServerAdapter) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/api/ping")
	if err != nil {
		return fmt.Errorf("ping request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
