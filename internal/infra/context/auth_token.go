package context

import (
	"context"
)

const contextKeyAuthToken = contextKey("authToken")

// AuthTokenFromContext extracts the bearer token an outgoing request should carry.
// Returns the token and true if present, or empty string and false if not present.
func AuthTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(contextKeyAuthToken).(string)

	return token, ok && token != ""
}

// WithAuthToken creates a new context carrying the bearer token for outgoing requests.
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKeyAuthToken, token)
}
