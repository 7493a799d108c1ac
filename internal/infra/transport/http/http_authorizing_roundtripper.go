package http

import (
	"net/http"

	context_ "github.com/mkrupp/storefront/internal/infra/context"
)

// AuthorizingRoundTripper creates a round tripper that attaches the bearer token.
// The token is taken from the request context (see context.WithAuthToken) and
// sent in the given header. Requests without a token pass through untouched.
func AuthorizingRoundTripper(next http.RoundTripper, header string) http.RoundTripper {
	if header == "" {
		header = "token"
	}

	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		token, ok := context_.AuthTokenFromContext(r.Context())
		if !ok {
			return next.RoundTrip(r)
		}

		r = r.Clone(r.Context())
		r.Header.Set(header, token)

		return next.RoundTrip(r)
	})
}
