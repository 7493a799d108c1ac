package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
)

var (
	// ErrInvalidConfig is returned when the provided config is not a pointer to a struct
	// that embeds EnvConfig.
	ErrInvalidConfig = errors.New("config must be a pointer to a struct embedding EnvConfig")

	// ErrVarNotSet is returned when a required environment variable is not set and has no default.
	ErrVarNotSet = errors.New("env var not set")
)

// EnvConfig is a base type that must be embedded in configuration structs
// to enable environment variable parsing.
type EnvConfig struct {
	namespace string
}

// Namespace returns the namespace the config was parsed with.
func (c EnvConfig) Namespace() string {
	return c.namespace
}

//nolint:varnamelen
func getEnvConfig(cfg any) (*EnvConfig, error) {
	v := reflect.ValueOf(cfg)

	// Ensure cfg is a pointer to a struct
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, ErrInvalidConfig
	}

	v = v.Elem()
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		//nolint:exhaustruct,forcetypeassert
		if field.Anonymous && field.Type == reflect.TypeOf(EnvConfig{}) {
			if ev := v.Field(i); ev.CanAddr() {
				return ev.Addr().Interface().(*EnvConfig), nil
			}
		}
	}

	return nil, ErrInvalidConfig
}

// Parse loads configuration values from environment variables into the provided struct.
// The struct must embed EnvConfig and use `env` tags to specify variable names,
// `default` tags for fallback values and `envPrefix` tags on nested structs.
//
// The namespace is split on "_" and tried from the most to the least specific prefix,
// so with namespace "STOREFRONT_CLI" the variable STOREFRONT_CLI_X wins over STOREFRONT_X.
// Variables without a default that are not set in any namespace fail with ErrVarNotSet.
func Parse(ctx context.Context, cfg any, namespace string) error {
	envConfig, err := getEnvConfig(cfg)
	if err != nil {
		return fmt.Errorf("get env config: %w", err)
	}

	envConfig.namespace = namespace

	//nolint:exhaustruct
	opts := env.Options{
		Environment:         namespacedEnvironment(namespace, os.Environ()),
		DefaultValueTagName: "default",
		RequiredIfNoDef:     true,
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		if isVarNotSet(err) {
			return errors.Join(ErrVarNotSet, err)
		}

		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

// namespacedEnvironment strips the namespace prefixes from the environment.
// Less specific prefixes are applied first so more specific ones overwrite them.
func namespacedEnvironment(namespace string, environ []string) map[string]string {
	var (
		nsParts  = strings.Split(namespace, "_")
		prefixes = make([]string, 0, len(nsParts))
		result   = make(map[string]string)
	)

	for i := 1; i <= len(nsParts); i++ {
		prefix := strings.Join(nsParts[:i], "_")
		if prefix != "" {
			prefix += "_"
		}

		prefixes = append(prefixes, prefix)
	}

	for _, prefix := range prefixes {
		for _, kv := range environ {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				continue
			}

			if name, found := strings.CutPrefix(key, prefix); found && name != "" {
				result[name] = value
			}
		}
	}

	return result
}

func isVarNotSet(err error) bool {
	var aggErr env.AggregateError
	if !errors.As(err, &aggErr) {
		return false
	}

	for _, e := range aggErr.Errors {
		var notSet env.VarIsNotSetError
		if errors.As(e, &notSet) {
			return true
		}
	}

	return false
}
