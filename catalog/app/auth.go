package app

import (
	"github.com/Astemirdum/library-catalog/catalog/internal/form"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/spf13/cobra"
)

func (a *App) registerCommand() *cobra.Command {
	var in form.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.Username == "" {
				if in.Username, err = a.prompt("Username: "); err != nil {
					return err
				}
			}
			if in.Email == "" {
				if in.Email, err = a.prompt("Email: "); err != nil {
					return err
				}
			}
			if in.Password, err = a.password("Password: "); err != nil {
				return err
			}
			if in.ConfirmPassword, err = a.password("Confirm password: "); err != nil {
				return err
			}
			b, err := a.h.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.out.Banner(b)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "", "letters and spaces, 3 to 30 characters")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Role, "role", "user", "user or admin")
	cmd.Flags().BoolVar(&in.AcceptTerms, "accept-terms", false, "accept the terms and conditions")
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var (
		email    string
		remember bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email == "" {
				if email, err = a.prompt("Email: "); err != nil {
					return err
				}
			}
			pw, err := a.password("Password: ")
			if err != nil {
				return err
			}
			v, err := a.h.Login(cmd.Context(), email, pw, remember)
			if err != nil {
				return err
			}
			a.out.Login(v)
			if !remember && !a.interactive {
				a.out.Banner(model.Info("The session ends with this command; use --remember or the shell to stay logged in."))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&remember, "remember", false, "keep the session across runs")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.h.Logout(cmd.Context())
			if err != nil {
				return err
			}
			a.out.Banner(b)
			return nil
		},
	}
}

func (a *App) forgotPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password [email]",
		Short: "Request a password reset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var email string
			if len(args) == 1 {
				email = args[0]
			} else {
				var err error
				if email, err = a.prompt("Email: "); err != nil {
					return err
				}
			}
			v, err := a.h.ForgotPassword(cmd.Context(), email)
			if err != nil {
				return err
			}
			a.out.ResetTicket(v)
			return nil
		},
	}
}

func (a *App) resetPasswordCommand() *cobra.Command {
	var in form.PasswordReset
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.Password, err = a.password("New password: "); err != nil {
				return err
			}
			if in.ConfirmPassword, err = a.password("Confirm password: "); err != nil {
				return err
			}
			b, err := a.h.ResetPassword(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.out.Banner(b)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.UID, "uid", "", "uid from the reset request")
	cmd.Flags().StringVar(&in.Token, "token", "", "token from the reset request")
	return cmd
}
