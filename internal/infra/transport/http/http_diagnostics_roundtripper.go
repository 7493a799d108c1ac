package http

import (
	"net/http"
	"net/http/httputil"

	"github.com/mkrupp/storefront/internal/infra/logging"
)

// DiagnosticsRoundTripper creates a round tripper that dumps full requests and responses,
// headers and bodies included, at DEBUG level.
// Dumping is compiled in only with the "dev" build tag; otherwise next is returned as is.
func DiagnosticsRoundTripper(next http.RoundTripper, log logging.Logger) http.RoundTripper {
	if !diagnosticsEnabled {
		return next
	}

	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		ctx := r.Context()

		if dump, err := httputil.DumpRequestOut(r, true); err == nil {
			log.DebugContext(ctx, "request dump", "dump", string(dump))
		}

		resp, err := next.RoundTrip(r)
		if err != nil {
			return nil, err
		}

		if dump, err := httputil.DumpResponse(resp, true); err == nil {
			log.DebugContext(ctx, "response dump", "dump", string(dump))
		}

		return resp, nil
	})
}
