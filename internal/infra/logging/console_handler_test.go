package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	context_ "github.com/mkrupp/storefront/internal/infra/context"
	"github.com/mkrupp/storefront/internal/infra/logging"
)

func newTestLogger(buf *bytes.Buffer, pkgLevels map[string]slog.Level, name string) logging.Logger {
	//nolint:exhaustruct
	handler := &logging.ConsoleHandler{
		Output:    buf,
		Level:     slog.LevelDebug,
		PkgLevels: pkgLevels,
	}

	return slog.New(logging.NewTracingHandler(handler)).With("logger", name)
}

func TestConsoleHandler_PkgLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pkgLevels map[string]slog.Level
		logger    string
		level     slog.Level
		wantLine  bool
	}{
		{
			name:     "no filters",
			logger:   "svc.cartsvc",
			level:    slog.LevelDebug,
			wantLine: true,
		},
		{
			name:      "parent filter suppresses debug",
			pkgLevels: map[string]slog.Level{"svc": slog.LevelInfo},
			logger:    "svc.cartsvc",
			level:     slog.LevelDebug,
			wantLine:  false,
		},
		{
			name:      "more specific filter wins",
			pkgLevels: map[string]slog.Level{"svc": slog.LevelError, "svc.cartsvc": slog.LevelDebug},
			logger:    "svc.cartsvc",
			level:     slog.LevelDebug,
			wantLine:  true,
		},
		{
			name:      "root filter applies to everything",
			pkgLevels: map[string]slog.Level{"": slog.LevelWarn},
			logger:    "repo.session",
			level:     slog.LevelInfo,
			wantLine:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			log := newTestLogger(&buf, tt.pkgLevels, tt.logger)
			log.Log(context.Background(), tt.level, "hello")

			assert.Equal(t, tt.wantLine, buf.Len() > 0, buf.String())
		})
	}
}

func TestConsoleHandler_RendersContextAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := context_.WithTraceID(context.Background(), "trace-1")
	ctx = context_.WithUserID(ctx, "user-1")

	log := newTestLogger(&buf, nil, "svc.authsvc")
	log.With(logging.Group("cart", "lines", 2)).InfoContext(ctx, "cart loaded")

	out := buf.String()
	assert.Contains(t, out, "cart loaded")
	assert.Contains(t, out, "cart.lines=")
	assert.Contains(t, out, "trace.id=")
	assert.Contains(t, out, "session.userId=")
}
