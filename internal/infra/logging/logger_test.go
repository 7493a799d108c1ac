package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/storefront/internal/infra/logging"
)

//nolint:paralleltest,exhaustruct
func TestConfigure_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.log")

	err := logging.Configure(context.Background(), logging.LoggerConfig{
		Output: path,
		Level:  "info",
		Filter: "svc.cartsvc:error",
	}, "storefront.test")
	require.NoError(t, err)

	t.Cleanup(func() { _ = logging.Shutdown() })

	logging.GetLogger("svc.authsvc").Info("signed in")
	logging.GetLogger("svc.cartsvc.cart_service").Warn("cart reloaded")
	logging.GetLogger("svc.authsvc").Debug("token decoded")

	require.NoError(t, logging.Shutdown())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "signed in")
	assert.Contains(t, out, "app=")
	assert.NotContains(t, out, "cart reloaded")
	assert.NotContains(t, out, "token decoded")

	// output is discarded after shutdown
	logging.GetLogger("svc.authsvc").Error("after shutdown")

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "after shutdown")
}

//nolint:paralleltest,exhaustruct
func TestConfigure_InvalidOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "storefront.log")

	err := logging.Configure(context.Background(), logging.LoggerConfig{Output: path}, "storefront.test")
	require.ErrorIs(t, err, logging.ErrInvalidOutput)
}

//nolint:paralleltest,exhaustruct
func TestConfigure_Discard(t *testing.T) {
	err := logging.Configure(context.Background(), logging.LoggerConfig{Output: "discard"}, "storefront.test")
	require.NoError(t, err)

	t.Cleanup(func() { _ = logging.Shutdown() })

	log := logging.GetLogger("svc.authsvc")
	assert.False(t, log.Enabled(context.Background(), logging.LevelError))
}
