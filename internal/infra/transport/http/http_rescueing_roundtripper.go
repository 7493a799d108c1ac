package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mkrupp/storefront/internal/infra/logging"
)

// RescueingRoundTripper creates a round tripper that recovers from panics in the wrapped transport.
// It logs the panic and stack trace, then fails the request with an error instead of
// taking the process down.
func RescueingRoundTripper(next http.RoundTripper, log logging.Logger) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (resp *http.Response, err error) {
		defer func() {
			if p := recover(); p != nil {
				log.ErrorContext(r.Context(), "transport panic", slog.Group("http",
					"url", r.URL.Redacted(),
					"method", r.Method,
				), slog.Group("error",
					"panic", p,
					"stack", string(debug.Stack()),
				))

				resp, err = nil, fmt.Errorf("transport panic: %v", p)
			}
		}()

		return next.RoundTrip(r)
	})
}
