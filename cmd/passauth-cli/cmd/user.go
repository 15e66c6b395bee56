package cmd

import (
	"errors"
	"fmt"

	"github.com/nfrund/passauth/internal/accounts"
	"github.com/nfrund/passauth/internal/authform"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var (
	userEmail    string
	userPassword string
)

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account with an email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := validateCredentials(authform.ModeSignup)
		if err != nil {
			return err
		}
		return withInjector(cmd, func(i do.Injector) error {
			svc := do.MustInvoke[*accounts.Service](i)
			session, err := svc.CreateUser(cmd.Context(), creds.Email, creds.Password)
			if err != nil {
				return errors.New(authform.ErrorMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", session.Email, session.UserID)
			return nil
		})
	},
}

var userSendResetCmd = &cobra.Command{
	Use:   "send-reset",
	Short: "Email a password reset link",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := validateCredentials(authform.ModeForgotPassword)
		if err != nil {
			return err
		}
		return withInjector(cmd, func(i do.Injector) error {
			svc := do.MustInvoke[*accounts.Service](i)
			if err := svc.SendResetPasswordEmail(cmd.Context(), creds.Email); err != nil {
				return errors.New(authform.ErrorMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), authform.ResetEmailSent)
			return nil
		})
	},
}

// validateCredentials checks the flags with the same rules as the web form.
func validateCredentials(mode authform.Mode) (authform.Credentials, error) {
	v, _ := authform.View(mode)
	creds, err := authform.NewValidator().Validate(v.Fields, authform.Values{Email: userEmail, Password: userPassword})
	if err != nil {
		var verr *authform.ValidationError
		if errors.As(err, &verr) {
			msgs := make([]error, 0, len(verr.Errors))
			for _, fe := range verr.Errors {
				msgs = append(msgs, errors.New(fe.Message))
			}
			return creds, errors.Join(msgs...)
		}
		return creds, err
	}
	return creds, nil
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "account email")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "account password")
	userSendResetCmd.Flags().StringVar(&userEmail, "email", "", "account email")

	userCmd.AddCommand(userCreateCmd, userSendResetCmd)
	rootCmd.AddCommand(userCmd)
}
