package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "List the videos in the application folder",
	RunE:  runVideos,
}

func init() {
	rootCmd.AddCommand(videosCmd)
}

func runVideos(cmd *cobra.Command, args []string) error {
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

	videos, err := newVideoService(store, uploader).Videos(ctx)
	if err != nil {
		return fmt.Errorf("failed to list videos: %w", err)
	}

	output := cmd.OutOrStdout()
	if len(videos) == 0 {
		fmt.Fprintln(output, "No videos yet. Upload one with 'videoverse upload --file <path>'.")
		return nil
	}

	for _, v := range videos {
		fmt.Fprintf(output, "%s  %s  (uploaded %s)\n", v.ID, v.Name, v.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
