package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	appreview "videoverse/application/review"

	"github.com/spf13/cobra"
)

var (
	versionVideoID  string
	versionFilePath string
	versionLabel    string
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List or add named versions of a video",
}

var versionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the versions of a video",
	RunE:  runVersionsList,
}

var versionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Upload a new version of a video",
	Long: `Upload a new version of a video.

The version number is assigned as the count of existing versions plus
one, and the video id, number and label are encoded into the stored
object's name.

Example:
  videoverse versions add --video <id> --file cut-two.mp4 --label "color pass"`,
	RunE: runVersionsAdd,
}

func init() {
	rootCmd.AddCommand(versionsCmd)
	versionsCmd.AddCommand(versionsListCmd)
	versionsCmd.AddCommand(versionsAddCmd)

	versionsListCmd.Flags().StringVar(&versionVideoID, "video", "", "Video id")
	versionsListCmd.MarkFlagRequired("video")

	versionsAddCmd.Flags().StringVar(&versionVideoID, "video", "", "Video id")
	versionsAddCmd.Flags().StringVar(&versionFilePath, "file", "", "Path to the new version's file")
	versionsAddCmd.Flags().StringVar(&versionLabel, "label", "", "Human label for the version")
	versionsAddCmd.MarkFlagRequired("video")
	versionsAddCmd.MarkFlagRequired("file")
	versionsAddCmd.MarkFlagRequired("label")
}

func runVersionsList(cmd *cobra.Command, args []string) error {
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

	versions, err := appreview.NewVersionService(store, uploader).Versions(ctx, versionVideoID)
	if err != nil {
		return fmt.Errorf("failed to list versions: %w", err)
	}

	output := cmd.OutOrStdout()
	if len(versions) == 0 {
		fmt.Fprintln(output, "No versions yet.")
		return nil
	}

	for _, v := range versions {
		fmt.Fprintf(output, "v%d  %s  %s  (uploaded %s)\n",
			v.VersionNumber, v.ID, v.Label, v.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runVersionsAdd(cmd *cobra.Command, args []string) error {
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

	file, err := os.Open(versionFilePath)
	if err != nil {
		return fmt.Errorf("failed to open version file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat version file: %w", err)
	}

	output := cmd.OutOrStdout()
	fmt.Fprintf(output, "Uploading version %q of %s...\n", versionLabel, versionVideoID)

	version, err := appreview.NewVersionService(store, uploader).AddVersion(ctx, session, versionVideoID, appreview.AddVersionRequest{
		Label:    versionLabel,
		MimeType: mime.TypeByExtension(filepath.Ext(versionFilePath)),
		Size:     info.Size(),
		Content:  file,
		OnProgress: func(pct int) {
			fmt.Fprintf(output, "\r  Progress: %3d%%", pct)
		},
	})
	fmt.Fprintln(output)
	if err != nil {
		return fmt.Errorf("failed to add version: %w", err)
	}

	fmt.Fprintf(output, "Version v%d (%s) uploaded as %s.\n", version.VersionNumber, version.Label, version.ID)
	return nil
}
