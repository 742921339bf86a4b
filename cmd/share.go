package cmd

import (
	"fmt"
	"strings"
	"time"

	"videoverse/application/share"

	"github.com/spf13/cobra"
)

var shareVideoID string

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Create a guest review link for a video",
	Long: `Create a signed guest review link for a video.

Anyone holding the link can read the video's comments and versions and
leave guest comments through the review server ('videoverse serve')
until the link expires.`,
	RunE: runShare,
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.Flags().StringVar(&shareVideoID, "video", "", "Video id")
	shareCmd.MarkFlagRequired("video")
}

func runShare(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'videoverse setup' first")
	}

	tokens, err := share.NewTokens(cfg.Share.Secret,
		share.WithTTL(time.Duration(cfg.Share.LinkTTLHours)*time.Hour))
	if err != nil {
		return err
	}

	token, err := tokens.Issue(shareVideoID)
	if err != nil {
		return err
	}

	base := strings.TrimRight(cfg.Share.BaseURL, "/")
	fmt.Fprintf(cmd.OutOrStdout(), "%s/api/review/%s\n", base, token)
	return nil
}
