package http

import (
	"net/http"
	"time"

	"github.com/mkrupp/storefront/internal/infra/logging"
)

// HTTPTransportConfig contains configuration parameters for the remote API client.
type HTTPTransportConfig struct {
	// BaseURL is the origin of the remote storefront API
	BaseURL string `env:"BASE_URL" default:"https://ecommerce.routemisr.com"`
	// Timeout bounds every request including reading the response body
	Timeout time.Duration `env:"TIMEOUT" default:"15s"`
	// TokenHeader is the header the remote API reads the bearer token from
	TokenHeader string `env:"TOKEN_HEADER" default:"token"`
	// UserAgent is sent with every request
	UserAgent string `env:"USER_AGENT" default:"storefront-cli"`
}

// RoundTripperFunc adapts a function into an http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// NewHTTPClient creates an HTTP client for the remote API.
// Outgoing requests pass, in order, through tracing, authorization, logging,
// diagnostics (dev builds only) and panic recovery before reaching base.
// A nil base uses http.DefaultTransport.
func NewHTTPClient(cfg HTTPTransportConfig, base http.RoundTripper) *http.Client {
	log := logging.GetLogger("infra.transport.http")

	if base == nil {
		base = http.DefaultTransport
	}

	transport := RescueingRoundTripper(base, log)
	transport = DiagnosticsRoundTripper(transport, log)
	transport = LoggingRoundTripper(transport, log)
	transport = AuthorizingRoundTripper(transport, cfg.TokenHeader)
	transport = TracingRoundTripper(transport, cfg.UserAgent)

	//nolint:exhaustruct
	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
}
