package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mkrupp/storefront/internal/domain"
	context_ "github.com/mkrupp/storefront/internal/infra/context"
	"github.com/mkrupp/storefront/internal/infra/format"
	"github.com/mkrupp/storefront/internal/util/encoding"
)

// annotationSkipSession marks commands that run without restoring the stored session.
const annotationSkipSession = "storefront/skip-session"

var skipSession = map[string]string{annotationSkipSession: "true"} //nolint:gochecknoglobals

type cli struct {
	app *App

	output  string
	compact bool
	traceID string
}

// NewRootCommand creates the storefront command tree operating on app.
func NewRootCommand(app *App) *cobra.Command {
	c := &cli{app: app}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Shop the storefront from the command line",
		Long: `storefront talks to the storefront REST API.

It keeps your session in a local store, so after "storefront login" every
command runs as the signed-in user until "storefront logout" or until the
token expires.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.before,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.output, "output", "o", "text", "output format: text, json or yaml")
	flags.BoolVar(&c.compact, "compact", false, "compact json and yaml output")
	flags.StringVar(&c.traceID, "trace-id", "", "request id sent with every API call (generated when empty)")

	root.AddCommand(
		c.newHealthCommand(),
		c.newLoginCommand(),
		c.newSignupCommand(),
		c.newLogoutCommand(),
		c.newWhoamiCommand(),
		c.newProfileCommand(),
		c.newPasswordCommand(),
		c.newProductsCommand(),
		c.newCategoriesCommand(),
		c.newSubCategoriesCommand(),
		c.newBrandsCommand(),
		c.newCartCommand(),
		c.newWishlistCommand(),
		c.newAddressesCommand(),
		c.newOrdersCommand(),
		c.newCheckoutCommand(),
		c.newCacheCommand(),
	)

	return root
}

func (c *cli) before(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	traceID := encoding.NormalizeCrockfordB32LC(c.traceID)
	if traceID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("new trace id: %w", err)
		}

		traceID = encoding.EncodeCrockfordB32LC(id[:])
	}

	ctx = context_.WithTraceID(ctx, traceID)

	if cmd.Annotations[annotationSkipSession] == "" {
		if err := c.app.Auth.RestoreOnStartup(ctx); err != nil && !errors.Is(err, domain.ErrAuthRequired) {
			return fmt.Errorf("restore session: %w", err)
		}

		c.app.startSweep(ctx)
	}

	cmd.SetContext(c.app.Auth.Context(ctx))

	return nil
}

func (c *cli) print(cmd *cobra.Command, data any) error {
	formatter, err := format.NewFormatter(c.output, format.Options{
		Writer:  cmd.OutOrStdout(),
		Compact: c.compact,
		Prices:  c.app.Prices,
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	return formatter.Format(data) //nolint:wrapcheck
}

// requireSession fails with domain.ErrAuthRequired unless a session was restored.
func (c *cli) requireSession() error {
	if !c.app.Auth.State().IsAuthenticated {
		return domain.ErrAuthRequired
	}

	return nil
}

func (c *cli) newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "health",
		Short:       "Check whether the storefront API is reachable",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			healthy := c.app.Client.Health(cmd.Context())

			return c.print(cmd, format.NewView(map[string]bool{"healthy": healthy}, func(*format.PriceFormatter) any {
				if healthy {
					return "API is reachable"
				}

				return "API is not reachable"
			}))
		},
	}
}

func (c *cli) newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local thumbnail cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "prune",
		Short:       "Remove expired thumbnails",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pruned, err := c.app.Catalog.PruneThumbnails(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, format.NewView(map[string]int{"pruned": pruned}, func(*format.PriceFormatter) any {
				return fmt.Sprintf("Removed %d cached thumbnails", pruned)
			}))
		},
	})

	return cmd
}
