package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/mkrupp/storefront/internal/infra/config"
)

type testConfig struct {
	EnvConfig

	StringValue   string        `env:"STRING_VALUE"   default:"default"`
	IntValue      int           `env:"INT_VALUE"      default:"42"`
	BoolValue     bool          `env:"BOOL_VALUE"     default:"true"`
	DurationValue time.Duration `env:"DURATION_VALUE" default:"5s"`
	NoEnvTag      string
	Nested        testNestedConfig `envPrefix:"NESTED_"`
}

type testNestedConfig struct {
	NestedString string `env:"STRING" default:"nested-default"`
}

func defaultTestConfig() testConfig {
	return testConfig{
		StringValue:   "default",
		IntValue:      42,
		BoolValue:     true,
		DurationValue: 5 * time.Second,
		Nested: testNestedConfig{
			NestedString: "nested-default",
		},
	}
}

//nolint:paralleltest
func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		envVars map[string]string
		want    func(*testConfig)
		wantErr bool
	}{
		{
			name:    "uses default values when env vars not set",
			envVars: map[string]string{},
			want:    func(*testConfig) {},
		},
		{
			name: "reads environment variables",
			envVars: map[string]string{
				"STRING_VALUE":   "env-value",
				"INT_VALUE":      "123",
				"BOOL_VALUE":     "false",
				"DURATION_VALUE": "250ms",
				"NESTED_STRING":  "env-nested",
			},
			want: func(c *testConfig) {
				c.StringValue = "env-value"
				c.IntValue = 123
				c.BoolValue = false
				c.DurationValue = 250 * time.Millisecond
				c.Nested.NestedString = "env-nested"
			},
		},
		{
			name:   "handles prefix correctly",
			prefix: "APP",
			envVars: map[string]string{
				"APP_STRING_VALUE": "prefixed-value",
			},
			want: func(c *testConfig) {
				c.StringValue = "prefixed-value"
			},
		},
		{
			name:   "ignores unprefixed variables when a prefix is set",
			prefix: "APP",
			envVars: map[string]string{
				"STRING_VALUE": "unprefixed",
			},
			want: func(*testConfig) {},
		},
		{
			name:   "handles multi-level prefixes",
			prefix: "APP_SERVICE",
			envVars: map[string]string{
				"APP_SERVICE_STRING_VALUE": "multi-level-prefix",
				"APP_INT_VALUE":            "7",
			},
			want: func(c *testConfig) {
				c.StringValue = "multi-level-prefix"
				c.IntValue = 7
			},
		},
		{
			name:   "prefers more specific prefix",
			prefix: "APP_SERVICE",
			envVars: map[string]string{
				"APP_STRING_VALUE":         "less-specific",
				"APP_SERVICE_STRING_VALUE": "more-specific",
			},
			want: func(c *testConfig) {
				c.StringValue = "more-specific"
			},
		},
		{
			name: "falls back to default on empty values",
			envVars: map[string]string{
				"STRING_VALUE": "",
			},
			want: func(*testConfig) {},
		},
		{
			name: "handles zero int values",
			envVars: map[string]string{
				"INT_VALUE": "0",
			},
			want: func(c *testConfig) {
				c.IntValue = 0
			},
		},
		{
			name: "fails on invalid int value",
			envVars: map[string]string{
				"INT_VALUE": "not-a-number",
			},
			wantErr: true,
		},
		{
			name: "fails on invalid bool value",
			envVars: map[string]string{
				"BOOL_VALUE": "not-a-bool",
			},
			wantErr: true,
		},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := &testConfig{}
			err := Parse(ctx, cfg, tt.prefix)

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)

			want := defaultTestConfig()
			tt.want(&want)

			assert.Equal(t, want.StringValue, cfg.StringValue)
			assert.Equal(t, want.IntValue, cfg.IntValue)
			assert.Equal(t, want.BoolValue, cfg.BoolValue)
			assert.Equal(t, want.DurationValue, cfg.DurationValue)
			assert.Empty(t, cfg.NoEnvTag)
			assert.Equal(t, want.Nested.NestedString, cfg.Nested.NestedString)
			assert.Equal(t, tt.prefix, cfg.Namespace())
		})
	}
}

//nolint:paralleltest
func TestParseRequiredVar(t *testing.T) {
	type requiredConfig struct {
		EnvConfig

		Value string `env:"STOREFRONT_TEST_REQUIRED_VALUE"`
	}

	err := Parse(context.Background(), &requiredConfig{}, "")
	require.ErrorIs(t, err, ErrVarNotSet)

	t.Setenv("STOREFRONT_TEST_REQUIRED_VALUE", "set")

	cfg := &requiredConfig{}
	require.NoError(t, Parse(context.Background(), cfg, ""))
	assert.Equal(t, "set", cfg.Value)
}

func TestParseInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  interface{}
	}{
		{
			name: "non-pointer config",
			cfg:  testConfig{},
		},
		{
			name: "non-struct pointer",
			cfg:  new(string),
		},
		{
			name: "missing EnvConfig embedding",
			cfg: &struct {
				Value string `env:"VALUE"`
			}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Parse(context.Background(), tt.cfg, "")
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
