package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkrupp/storefront/internal/domain"
)

// readSecret returns value, or the first line of stdin when value is "-".
func readSecret(cmd *cobra.Command, value string) (string, error) {
	if value != "-" {
		return value, nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read stdin: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) newLoginCommand() *cobra.Command {
	var creds domain.Credentials

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Sign in and store the session",
		Example:     "  storefront login --email ada@example.com --password -",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readSecret(cmd, creds.Password)
			if err != nil {
				return err
			}

			creds.Password = password

			if err := c.app.Auth.Login(cmd.Context(), creds); err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, sessionView(c.app.Auth.State()))
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", `account password ("-" reads it from stdin)`)
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (c *cli) newSignupCommand() *cobra.Command {
	var data domain.SignupData

	cmd := &cobra.Command{
		Use:         "signup",
		Short:       "Register a new account and sign in with it",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if data.RePassword == "" {
				data.RePassword = data.Password
			}

			if err := c.app.Auth.Signup(cmd.Context(), data); err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, sessionView(c.app.Auth.State()))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&data.Name, "name", "", "display name")
	flags.StringVar(&data.Email, "email", "", "account email")
	flags.StringVar(&data.Password, "password", "", "account password")
	flags.StringVar(&data.RePassword, "confirm", "", "password confirmation (defaults to --password)")
	flags.StringVar(&data.Phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (c *cli) newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Forget the stored session",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Auth.Logout(cmd.Context()); err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, "Logged out")
		},
	}
}

func (c *cli) newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}

			return c.print(cmd, sessionView(c.app.Auth.State()))
		},
	}
}

func (c *cli) newProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the profile of the signed-in user",
	}

	var update domain.ProfileUpdate

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Change name, email or phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Auth.UpdateProfile(cmd.Context(), update); err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, sessionView(c.app.Auth.State()))
		},
	}

	updateCmd.Flags().StringVar(&update.Name, "name", "", "new display name")
	updateCmd.Flags().StringVar(&update.Email, "email", "", "new email")
	updateCmd.Flags().StringVar(&update.Phone, "phone", "", "new phone number")
	updateCmd.MarkFlagsOneRequired("name", "email", "phone")

	cmd.AddCommand(updateCmd)

	return cmd
}

func (c *cli) newPasswordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change or reset the account password",
		Long: `Change the password of the signed-in user, or reset a forgotten one:

  storefront password forgot --email ada@example.com
  storefront password verify --code 123456
  storefront password reset --email ada@example.com --new -`,
	}

	var change domain.PasswordChange

	changeCmd := &cobra.Command{
		Use:   "change",
		Short: "Change the password of the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if change.Confirm == "" {
				change.Confirm = change.Password
			}

			if err := c.app.Auth.ChangePassword(cmd.Context(), change); err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, "Password changed")
		},
	}

	changeCmd.Flags().StringVar(&change.CurrentPassword, "current", "", "current password")
	changeCmd.Flags().StringVar(&change.Password, "new", "", "new password")
	changeCmd.Flags().StringVar(&change.Confirm, "confirm", "", "new password confirmation (defaults to --new)")
	_ = changeCmd.MarkFlagRequired("current")
	_ = changeCmd.MarkFlagRequired("new")

	var email, code, newPassword string

	forgotCmd := &cobra.Command{
		Use:         "forgot",
		Short:       "Mail a reset code",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := c.app.Auth.ForgotPassword(cmd.Context(), email)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, msg)
		},
	}
	forgotCmd.Flags().StringVar(&email, "email", "", "account email")

	verifyCmd := &cobra.Command{
		Use:         "verify",
		Short:       "Check a mailed reset code",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := c.app.Auth.VerifyResetCode(cmd.Context(), code)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, msg)
		},
	}
	verifyCmd.Flags().StringVar(&code, "code", "", "reset code")

	resetCmd := &cobra.Command{
		Use:         "reset",
		Short:       "Set a new password after verifying the reset code",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readSecret(cmd, newPassword)
			if err != nil {
				return err
			}

			if err := c.app.Auth.ResetPassword(cmd.Context(), email, password); err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, "Password reset, please log in again")
		},
	}
	resetCmd.Flags().StringVar(&email, "email", "", "account email")
	resetCmd.Flags().StringVar(&newPassword, "new", "", `new password ("-" reads it from stdin)`)

	cmd.AddCommand(changeCmd, forgotCmd, verifyCmd, resetCmd)

	return cmd
}
