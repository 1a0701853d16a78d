package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/dyscreen/internal/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the screening backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		token, err := e.client.Login(ctx, email, password)
		if err != nil {
			return err
		}
		// A previous account's session must not leak into the new one.
		if e.creds.Current().LoggedIn() {
			if err := auth.Teardown(ctx, e.creds, e.tracker); err != nil {
				return err
			}
		}
		if err := e.creds.SetAccessToken(ctx, token); err != nil {
			return err
		}
		e.log.Info("logged in", "email", email)

		fmt.Fprintln(cmd.OutOrStdout(), "Logged in. Pick a child profile with `dyscreen profile select <id>`.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the backend session",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := auth.Teardown(cmd.Context(), e.creds, e.tracker); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (read from stdin when empty)")
}
