package context

import (
	"context"
)

const contextKeyUserID = contextKey("userID")

// UserIDFromContext extracts the signed-in user id from the context.
// Returns the user id and true if present, or empty string and false if not present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKeyUserID).(string)

	return userID, ok && userID != ""
}

// WithUserID creates a new context carrying the signed-in user id.
// Log records emitted with this context are tagged with it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKeyUserID, userID)
}
