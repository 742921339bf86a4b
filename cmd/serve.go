package cmd

import (
	"fmt"
	"net/http"
	"time"

	appreview "videoverse/application/review"
	"videoverse/application/share"
	"videoverse/infrastructure/httpapi"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the guest review server for share links",
	Long: `Host the guest review HTTP server.

Share-link visitors read comments and versions and post guest comments
through this server; all storage access uses the hosting user's session.
Guest comment submissions are rate limited.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'videoverse setup' first")
	}

	_, session, err := requireSession(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, uploader, err := newStores(ctx, cfg, session)
	if err != nil {
		return err
	}

	tokens, err := share.NewTokens(cfg.Share.Secret,
		share.WithTTL(time.Duration(cfg.Share.LinkTTLHours)*time.Hour))
	if err != nil {
		return err
	}

	server := httpapi.NewServer(
		newVideoService(store, uploader),
		newCommentService(cfg, store),
		appreview.NewVersionService(store, uploader),
		tokens,
		httpapi.WithGuestRateLimit(cfg.Serve.GuestRatePerMinute),
	)

	fmt.Fprintf(cmd.OutOrStdout(), "Guest review server listening on %s\n", cfg.Serve.ListenAddr)
	return http.ListenAndServe(cfg.Serve.ListenAddr, server)
}
