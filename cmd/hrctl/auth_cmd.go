package main

import (
	"fmt"

	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var req auth.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Email == "" {
				if req.Email, err = a.prompt("Email: "); err != nil {
					return err
				}
			}
			if req.Password == "" {
				if req.Password, err = a.prompt("Password: "); err != nil {
					return err
				}
			}

			c, err := a.anonymousClient()
			if err != nil {
				return err
			}
			resp, err := c.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := saveSession(a.sessionPath, &session{Token: resp.AccessToken, ExpiresAt: resp.ExpiresAt, User: resp.User}); err != nil {
				return err
			}
			a.info("signed in as %s", resp.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Revoke the token and forget the session",
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The local session goes even if the server call fails.
			logoutErr := a.client.Logout(cmd.Context())
			if err := clearSession(a.sessionPath); err != nil {
				return err
			}
			if logoutErr != nil {
				return logoutErr
			}
			a.info("signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Short:   "Show the signed-in user",
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "User:      %s (%s)\n", u.Username, u.Email)
			fmt.Fprintf(a.out, "Name:      %s %s\n", u.FirstName, u.LastName)
			if u.ERPID != 0 {
				fmt.Fprintf(a.out, "ERP ID:    %d\n", u.ERPID)
				fmt.Fprintf(a.out, "Grade:     %d\n", u.GradeID)
			}
			fmt.Fprintf(a.out, "Superuser: %t\n", u.IsSuperuser)
			return nil
		},
	}
}

func newChangePasswordCmd(a *app) *cobra.Command {
	var req auth.ChangePasswordRequest

	cmd := &cobra.Command{
		Use:     "change-password",
		Short:   "Change the signed-in user's password",
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			for _, p := range []struct {
				label string
				dst   *string
			}{
				{"Current password: ", &req.OldPassword},
				{"New password: ", &req.NewPassword},
				{"Confirm new password: ", &req.ConfirmPassword},
			} {
				if *p.dst != "" {
					continue
				}
				if *p.dst, err = a.prompt(p.label); err != nil {
					return err
				}
			}
			if err := a.client.ChangePassword(cmd.Context(), req); err != nil {
				return err
			}
			a.info("password changed")
			return nil
		},
	}

	cmd.Flags().StringVar(&req.OldPassword, "old", "", "Current password")
	cmd.Flags().StringVar(&req.NewPassword, "new", "", "New password")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm", "", "New password again")
	return cmd
}

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage login accounts (superuser)",
	}

	var req auth.CreateUserRequest
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create a login account",
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.VerifyPassword == "" {
				req.VerifyPassword = req.Password
			}
			u, err := a.client.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.info("created user %s (id %d)", u.Username, u.ID)
			return nil
		},
	}
	create.Flags().StringVar(&req.Username, "username", "", "Username")
	create.Flags().StringVar(&req.Email, "email", "", "Email")
	create.Flags().StringVar(&req.Password, "password", "", "Password")
	create.Flags().StringVar(&req.VerifyPassword, "verify-password", "", "Password again (defaults to --password)")
	create.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	create.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	create.Flags().Int64Var(&req.ERPID, "erp-id", 0, "ERP id of the employee the account belongs to")
	create.Flags().BoolVar(&req.IsSuperuser, "superuser", false, "Grant superuser rights")

	cmd.AddCommand(create)
	return cmd
}
