package cmd

import (
	"context"
	"fmt"
	"io"

	appreview "videoverse/application/review"
	"videoverse/domain/auth"

	"github.com/spf13/cobra"
)

var uploadFilePath string

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a video to the application folder",
	Long: `Upload a video file into the application folder of your Google Drive.

Duration and aspect ratio are read from the file locally before upload
(requires a -tags=metadata build; without it the video is stored without
them). Progress is reported from actual bytes transferred.

Example:
  videoverse upload --file cut-one.mp4`,
	RunE: runUploadCmd,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVar(&uploadFilePath, "file", "", "Path to the video file")
	uploadCmd.MarkFlagRequired("file")
}

func runUploadCmd(cmd *cobra.Command, args []string) error {
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

	service := newVideoService(store, uploader)
	return RunUploadWithDependencies(ctx, service, session, uploadFilePath, cmd.OutOrStdout())
}

// RunUploadWithDependencies runs the upload command with injected
// dependencies (for testing).
func RunUploadWithDependencies(
	ctx context.Context,
	service *appreview.VideoService,
	session *auth.Session,
	path string,
	output io.Writer,
) error {
	fmt.Fprintf(output, "Uploading %s...\n", path)

	video, err := service.Upload(ctx, session, path, func(pct int) {
		fmt.Fprintf(output, "\r  Progress: %3d%%", pct)
	})
	fmt.Fprintln(output)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Fprintf(output, "Upload complete!\n")
	fmt.Fprintf(output, "  Video ID: %s\n", video.ID)
	fmt.Fprintf(output, "  Name: %s\n", video.Name)
	if video.Duration > 0 {
		fmt.Fprintf(output, "  Duration: %.1fs\n", video.Duration)
	}
	return nil
}
