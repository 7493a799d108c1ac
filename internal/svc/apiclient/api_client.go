package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mkrupp/storefront/internal/domain"
	context_ "github.com/mkrupp/storefront/internal/infra/context"
	"github.com/mkrupp/storefront/internal/infra/logging"
	http_ "github.com/mkrupp/storefront/internal/infra/transport/http"
	"github.com/mkrupp/storefront/internal/repo/session"
	"github.com/mkrupp/storefront/internal/svc/authsvc/authtoken"
)

const (
	apiPrefix        = "api/v1"
	maxResponseBytes = 8 << 20
)

// Request describes one call against the remote API.
type Request struct {
	Method      string     // HTTP method, GET if empty
	Path        string     // Path below /api/v1/
	Query       url.Values // Optional query parameters
	Body        any        // JSON-encoded when not nil
	RequireAuth bool       // Attach the stored token, failing locally when there is none
}

// Client is the single gateway to the remote storefront API.
// It attaches the stored bearer token, pre-checks its expiry locally and
// translates every failure into the domain error taxonomy:
// - no usable token, or 401 on an authenticated call: domain.ErrAuthRequired (store cleared)
// - any other non-2xx status: *domain.RemoteError
// - no response: *domain.NetworkError
// - undecodable body: domain.ErrMalformedResponse.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	store      session.Store
	now        func() time.Time
	log        logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client built from the transport config.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithClock replaces the clock used for the local expiry pre-check.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a Client for the configured remote API backed by the given session store.
func New(cfg http_.HTTPTransportConfig, store session.Store, opts ...Option) (*Client, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not absolute", cfg.BaseURL)
	}

	client := &Client{
		baseURL: baseURL,
		store:   store,
		now:     time.Now,
		log:     logging.GetLogger("svc.apiclient"),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		client.httpClient = http_.NewHTTPClient(cfg, nil)
	}

	return client, nil
}

// Do issues the request and decodes a successful JSON response into out.
// A nil out discards the body.
func (c *Client) Do(ctx context.Context, req Request, out any) (err error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	log := c.log.With(logging.Group("request",
		"method", req.Method,
		"path", req.Path,
		"auth", req.RequireAuth,
	))

	defer func() {
		if err != nil {
			log.DebugContext(ctx, "api request failed", "error", err)
		} else {
			log.DebugContext(ctx, "api request succeeded")
		}
	}()

	if req.RequireAuth {
		token, err := c.authorize(ctx)
		if err != nil {
			return err
		}

		ctx = context_.WithAuthToken(ctx, token)
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &domain.NetworkError{Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode == http.StatusUnauthorized && req.RequireAuth {
		c.clearSession(ctx, "rejected by server")

		return domain.ErrAuthRequired
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &domain.RemoteError{Status: resp.StatusCode, Message: errorMessage(body)}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Join(domain.ErrMalformedResponse, fmt.Errorf("decode %s: %w", req.Path, err))
	}

	return nil
}

// Health reports whether the remote API answers an unauthenticated read.
func (c *Client) Health(ctx context.Context) bool {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: PathCategories}, nil) == nil
}

// Token returns the stored bearer token and whether one is present.
// It does not check expiry.
func (c *Client) Token(ctx context.Context) (string, bool, error) {
	token, ok, err := c.store.Get(ctx, domain.StoreKeyToken)
	if err != nil {
		return "", false, fmt.Errorf("get token: %w", err)
	}

	return token, ok && token != "", nil
}

func (c *Client) authorize(ctx context.Context) (string, error) {
	token, ok, err := c.Token(ctx)
	if err != nil {
		return "", err
	}

	if !ok {
		return "", domain.ErrAuthRequired
	}

	if _, err := authtoken.DecodeValid(token, c.now()); err != nil {
		c.clearSession(ctx, err.Error())

		return "", domain.ErrAuthRequired
	}

	return token, nil
}

func (c *Client) clearSession(ctx context.Context, reason string) {
	if err := c.store.Delete(ctx, domain.SessionKeys...); err != nil {
		c.log.ErrorContext(ctx, "clear session failed", "reason", reason, "error", err)

		return
	}

	c.log.InfoContext(ctx, "session discarded", "reason", reason)
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := c.baseURL.JoinPath(apiPrefix, req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader

	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}

		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	return httpReq, nil
}

// errorMessage extracts the most specific message from an error body.
// The API reports failures as {statusMsg, message} or, for validation errors,
// as {message: "fail", errors: {msg}}.
func errorMessage(body []byte) string {
	var payload struct {
		Message   string `json:"message"`
		StatusMsg string `json:"statusMsg"`
		Errors    struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	switch {
	case payload.Errors.Msg != "":
		return payload.Errors.Msg
	case payload.Message != "":
		return payload.Message
	default:
		return payload.StatusMsg
	}
}
