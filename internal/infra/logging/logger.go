package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Constants for log levels that match slog.Level values.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Type aliases for commonly used slog types.
type (
	Logger  = *slog.Logger
	Handler = slog.Handler
	Level   = slog.Level
)

// ErrInvalidOutput is returned by Configure when the log output cannot be opened.
var ErrInvalidOutput = errors.New("invalid log output")

//nolint:gochecknoglobals
var logLevelStrToLevel = map[string]Level{
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"error": LevelError,
}

// LoggerConfig holds configuration parameters for logging.
type LoggerConfig struct {
	// AppName is the application identifier added to all log entries
	AppName string

	// Output specifies where logs are written ("stdout", "stderr", "discard" or a file path).
	// Command output goes to stdout, so logs default to stderr.
	Output string `env:"OUTPUT" default:"stderr"`

	// Level sets the minimum log level ("debug", "info", "warn", "error")
	Level string `env:"LEVEL" default:"warn"`

	// Filter specifies per-logger overrides ("svc.cartsvc:debug,repo:error")
	Filter string `env:"FILTER" default:""`

	// JSON enables JSON-formatted output instead of human-readable console output
	JSON bool `env:"JSON" default:"false"`

	// Source appends the calling function and file to each entry
	Source bool `env:"SOURCE" default:"false"`

	OutputHandle io.Writer
}

//nolint:gochecknoglobals
var (
	Group = slog.Group

	state struct {
		sync.Mutex

		cfg    LoggerConfig
		levels map[string]Level
		closer io.Closer
	}
)

// Configure sets up global logging configuration for the application.
// Loggers obtained before Configure keep discarding their output.
func Configure(ctx context.Context, cfg LoggerConfig, appName string) error {
	if err := configure(cfg, appName); err != nil {
		return err
	}

	GetLogger("infra.logging").With(Group("config",
		"appName", appName,
		"output", cfg.Output,
		"level", cfg.Level,
		"filter", cfg.Filter,
		"json", cfg.JSON,
	)).DebugContext(ctx, "logging configured")

	return nil
}

// Shutdown closes a log file opened by Configure and resets output to discard.
func Shutdown() error {
	state.Lock()
	defer state.Unlock()

	closer := state.closer
	state.closer = nil
	state.cfg.OutputHandle = nil

	if closer == nil {
		return nil
	}

	if err := closer.Close(); err != nil {
		return fmt.Errorf("close log output: %w", err)
	}

	return nil
}

func configure(cfg LoggerConfig, appName string) error {
	cfg.AppName = appName

	var closer io.Closer

	if cfg.OutputHandle == nil {
		switch cfg.Output {
		case "", "discard":
			cfg.OutputHandle = io.Discard
		case "stdout":
			cfg.OutputHandle = os.Stdout
		case "stderr":
			cfg.OutputHandle = os.Stderr
		default:
			file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err != nil {
				return errors.Join(ErrInvalidOutput, fmt.Errorf("open log file: %w", err))
			}

			cfg.OutputHandle = file
			closer = file
		}
	}

	state.Lock()
	defer state.Unlock()

	if state.closer != nil {
		_ = state.closer.Close()
	}

	state.cfg = cfg
	state.levels = parseFilter(cfg.Filter)
	state.closer = closer

	slog.SetLogLoggerLevel(parseLogLevel(cfg.Level, LevelInfo))

	return nil
}

// GetLogger creates a new logger with the given name using the global configuration.
// The name identifies the emitting component in log entries and is matched
// against the Filter overrides by dotted prefix.
func GetLogger(name string) Logger {
	state.Lock()
	cfg, levels := state.cfg, state.levels
	state.Unlock()

	output := cfg.OutputHandle
	if output == nil || output == io.Discard {
		return NewNopLogger()
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLogLevel(cfg.Level, LevelInfo))

	var handler slog.Handler

	if cfg.JSON {
		//nolint:exhaustruct
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{
			AddSource: cfg.Source,
			Level:     levelVar,
		})
	} else {
		//nolint:exhaustruct
		handler = &ConsoleHandler{
			Output:    output,
			Level:     levelVar,
			PkgLevels: levels,
			AddSource: cfg.Source,
		}
	}

	logger := slog.New(NewTracingHandler(handler))

	if cfg.AppName != "" {
		logger = logger.With("app", cfg.AppName)
	}

	return logger.With("logger", name)
}

func parseFilter(filter string) map[string]Level {
	levels := make(map[string]Level)

	for _, entry := range strings.Split(filter, ",") {
		name, level, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || name == "" {
			continue
		}

		levels[name] = parseLogLevel(level, LevelDebug)
	}

	return levels
}

func parseLogLevel(levelStr string, fallback Level) Level {
	level, ok := logLevelStrToLevel[strings.ToLower(strings.TrimSpace(levelStr))]
	if !ok {
		return fallback
	}

	return level
}
