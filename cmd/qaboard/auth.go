package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the review backend",
	Long: `Log in to the review backend with the operator password.

The session cookie is saved locally and reused by every other command until
it expires or 'qaboard logout' drops it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		if password == "" {
			return fmt.Errorf("password is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		printStep("Authenticating with %s", a.client.BaseURL())
		resp, err := a.client.Login(cmd.Context(), password)
		if err != nil {
			return err
		}
		if !resp.Success {
			printError("login failed: %s", orDefault(resp.Message, "wrong password"))
			return fmt.Errorf("login failed")
		}

		printSuccess("Logged in to %s", a.client.BaseURL())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and drop the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		// Invalidate server-side first; drop the local cookie regardless.
		if err := a.client.Logout(cmd.Context()); err != nil {
			printWarning("backend logout failed: %v", err)
		}
		if err := a.jar.Clear(); err != nil {
			return fmt.Errorf("dropping saved session: %w", err)
		}

		printSuccess("Logged out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend connection and session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		printStatus("Backend", "%s", a.client.BaseURL())
		printStatus("Data dir", "%s", a.cfg.Storage.DataDir)

		authed, err := a.client.AuthCheck(cmd.Context())
		switch {
		case err != nil:
			printStatus("Session", "unknown (%v)", err)
		case authed:
			printStatus("Session", "active")
		default:
			printStatus("Session", "none, run 'qaboard login'")
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().String("password", "", "operator password (prompted when omitted)")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
