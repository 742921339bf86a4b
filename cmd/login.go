package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with your Google account",
	Long: `Sign in with your Google account via the browser consent flow.

A local callback server receives the authorization code, the session is
persisted, and subsequent commands reuse it until you sign out. Running
login while already signed in is a no-op.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and revoke the stored credential",
	Long: `Sign out of the current session.

The access token is revoked remotely on a best-effort basis; the local
session is cleared regardless of whether revocation succeeds.`,
	RunE: runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'videoverse setup' first")
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	return provider.SignIn(cmd.Context())
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'videoverse setup' first")
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	return provider.SignOut(cmd.Context())
}

func runWhoami(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'videoverse setup' first")
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	user := provider.CurrentUser()
	if user == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s (%s)\n", user.Name, user.Email)
	return nil
}
