package http

import (
	"net/http"

	"github.com/google/uuid"

	context_ "github.com/mkrupp/storefront/internal/infra/context"
	"github.com/mkrupp/storefront/internal/util/encoding"
)

// TraceIDHeader carries the trace id of a command on every API request.
const TraceIDHeader = "X-Request-ID"

// TracingRoundTripper creates a round tripper that tags outgoing requests.
// It uses the trace id from the request context if present, otherwise generates
// a new UUIDv7. The id is sent in the X-Request-ID header and stored in the
// request context so downstream log records carry it.
func TracingRoundTripper(next http.RoundTripper, userAgent string) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		traceID := getTraceID(r)

		r = r.Clone(context_.WithTraceID(r.Context(), traceID))
		r.Header.Set(TraceIDHeader, traceID)

		if userAgent != "" && r.Header.Get("User-Agent") == "" {
			r.Header.Set("User-Agent", userAgent)
		}

		return next.RoundTrip(r)
	})
}

func getTraceID(r *http.Request) string {
	if traceID, ok := context_.TraceIDFromContext(r.Context()); ok {
		return traceID
	}

	if traceID := r.Header.Get(TraceIDHeader); traceID != "" {
		return traceID
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	return encoding.EncodeCrockfordB32LC(id[:])
}
