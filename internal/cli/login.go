package cli

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/JamersonCarlos/beauty-salon-web/internal/salonapi"
)

func loginCmd(e *env) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a session and store the token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if username == "" {
				if username, err = e.prompt("Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = e.prompt("Password: "); err != nil {
					return err
				}
			}

			tok, err := e.client.Login(cmd.Context(), username, password)
			if err != nil {
				if errors.Is(err, salonapi.ErrUnauthorized) {
					return errors.New("invalid username or password")
				}
				return errors.Wrap(err, "login")
			}
			if err := e.cfg.SaveToken(tok.AccessToken); err != nil {
				return err
			}
			fmt.Fprintf(e.Out, "%s Logged in as %s (session valid for %ds)\n", okMark, username, tok.ExpiresIn)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Operator username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Operator password (prompted when omitted)")
	return cmd
}

func logoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logoutErr := e.client.Logout(cmd.Context())
			if err := e.cfg.SaveToken(""); err != nil {
				return err
			}
			if logoutErr != nil && !errors.Is(logoutErr, salonapi.ErrUnauthorized) {
				return errors.Wrap(logoutErr, "logout")
			}
			fmt.Fprintf(e.Out, "%s Logged out\n", okMark)
			return nil
		},
	}
}
