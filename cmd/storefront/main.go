package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mkrupp/storefront/internal/cmd"
	"github.com/mkrupp/storefront/internal/infra/config"
	"github.com/mkrupp/storefront/internal/infra/logging"
)

const (
	appName = "storefront"
	svcName = "cli"
)

func main() {
	var (
		cfg cmd.Config

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2) //nolint:gocritic
	}

	if err := logging.Configure(ctx, cfg.Log, loggerName); err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(2)
	}

	err := run(ctx, cfg)

	_ = logging.Shutdown()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cmd.Config) (err error) {
	log := logging.GetLogger("cmd.storefront")

	app, err := cmd.NewApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("new app: %w", err)
	}

	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			log.ErrorContext(ctx, "close failed", "error", closeErr)
		}
	}()

	return cmd.NewRootCommand(app).ExecuteContext(ctx) //nolint:wrapcheck
}
