package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"roadcare/internal/core/domain"
	"roadcare/internal/core/services"

	"github.com/spf13/cobra"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, passwordFile string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the credential",
		Long: `Sign in to RoadCare with email and password.

The password is read from the terminal with echo disabled, or from the
file given by --password-file for scripted use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = c.prompt("Email: "); err != nil {
					return err
				}
			}
			password, err := c.readPassword(passwordFile, "Password: ")
			if err != nil {
				return err
			}

			auth := services.NewAuthService(c.store)
			if err := auth.Login(cmd.Context(), domain.LoginRequest{Email: email, Password: password}); err != nil {
				return err
			}

			sess := c.store.Session()
			fmt.Fprintf(c.out, "Logged in as %s (%s)\n", sess.UserName, sess.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&passwordFile, "password-file", "", "Read the password from this file")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var req domain.RegisterRequest
	var passwordFile string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a citizen account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := c.readPassword(passwordFile, "Password: ")
			if err != nil {
				return err
			}
			req.Password = password
			req.ConfirmPassword = password
			if passwordFile == "" {
				if req.ConfirmPassword, err = c.readPassword("", "Confirm password: "); err != nil {
					return err
				}
			}

			auth := services.NewAuthService(c.store)
			if err := auth.Register(cmd.Context(), req); err != nil {
				return err
			}

			fmt.Fprintf(c.out, "Registered and logged in as %s\n", c.store.Session().UserName)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.FirstName, "first-name", "", "First name")
	flags.StringVar(&req.LastName, "last-name", "", "Last name")
	flags.StringVar(&req.UserName, "username", "", "User name (letters, digits and underscores)")
	flags.StringVar(&req.Address, "address", "", "Home address")
	flags.StringVar(&req.Email, "email", "", "Account email")
	flags.StringVar(&passwordFile, "password-file", "", "Read the password from this file")
	for _, name := range []string{"first-name", "last-name", "username", "address", "email"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.store.IsAuthenticated() {
				fmt.Fprintln(c.out, "Not logged in")
				return nil
			}
			services.NewAuthService(c.store).Logout(cmd.Context())
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			me := services.NewAuthService(c.store).Me()
			if c.jsonOutput {
				return c.printJSON(me)
			}
			if err := c.gate(); err != nil {
				return err
			}
			printSession(c.out, me.Session)
			return nil
		},
	}
}

func printSession(w io.Writer, sess *domain.Session) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", sess.ID)
	fmt.Fprintf(tw, "User:\t%s\n", sess.UserName)
	fmt.Fprintf(tw, "Email:\t%s\n", sess.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", sess.Role)
	tw.Flush()
}
