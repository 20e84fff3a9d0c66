package cmd

import (
	"errors"
	"fmt"

	"pet-care-portal/internal/domain/session"
	"pet-care-portal/internal/domain/validation"

	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in: run 'petcare login' first")

var (
	loginUser     string
	loginPassword string

	regUsername  string
	regEmail     string
	regFirstName string
	regLastName  string
	regPassword  string
	regConfirm   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with username or email",
	RunE:  withApp(runLogin),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account (does not log in)",
	RunE:  withApp(runRegister),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  withApp(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE:  withApp(runWhoami),
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "username or email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")

	registerCmd.Flags().StringVar(&regUsername, "username", "", "username")
	registerCmd.Flags().StringVar(&regEmail, "email", "", "email")
	registerCmd.Flags().StringVar(&regFirstName, "first-name", "", "first name")
	registerCmd.Flags().StringVar(&regLastName, "last-name", "", "last name")
	registerCmd.Flags().StringVar(&regPassword, "password", "", "password (min 6 characters)")
	registerCmd.Flags().StringVar(&regConfirm, "confirm-password", "", "repeat the password")
}

func runLogin(cmd *cobra.Command, _ []string, a *app) error {
	if errs := validation.ValidateLogin(validation.LoginDraft{
		UsernameOrEmail: loginUser,
		Password:        loginPassword,
	}); !errs.Empty() {
		return errs
	}

	u, err := a.session.LoginWithCredentials(cmd.Context(), session.Credentials{
		UsernameOrEmail: loginUser,
		Password:        loginPassword,
	})
	if err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", u.Username, u.FullName())
	return nil
}

func runRegister(cmd *cobra.Command, _ []string, a *app) error {
	r := session.Registration{
		Username:  regUsername,
		Email:     regEmail,
		FirstName: regFirstName,
		LastName:  regLastName,
		Password:  regPassword,
	}
	if errs := validation.ValidateSignup(validation.SignupDraft{
		Username:        r.Username,
		Email:           r.Email,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Password:        r.Password,
		ConfirmPassword: regConfirm,
	}); !errs.Empty() {
		return errs
	}

	if err := a.session.Register(cmd.Context(), r); err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "Account %s created. Log in with 'petcare login'.\n", r.Username)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string, a *app) error {
	if err := a.session.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	printf(cmd.OutOrStdout(), "%s\n", session.MsgLoggedOut)
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string, a *app) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printf(out, "%s <%s>\n", u.FullName(), u.Email)
	printf(out, "username: %s\nrole:     %s\nid:       %d\n", u.Username, orDash(string(u.Role)), u.ID)
	return nil
}
