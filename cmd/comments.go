package cmd

import (
	"fmt"
	"time"

	"videoverse/domain/review"

	"github.com/spf13/cobra"
)

var (
	commentVideoID   string
	commentText      string
	commentAt        float64
	commentGuest     bool
	commentGuestName string
)

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "List or add timestamped comments on a video",
}

var commentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the comments of a video in insertion order",
	RunE:  runCommentsList,
}

var commentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Attach a timestamped comment to a video",
	Long: `Attach a timestamped comment to a video.

By default the comment is authored as the signed-in user. With --guest
the comment is stored with a guest author snapshot instead, the way
share-link visitors appear.

Example:
  videoverse comments add --video <id> --at 42.5 --text "trim this beat"`,
	RunE: runCommentsAdd,
}

func init() {
	rootCmd.AddCommand(commentsCmd)
	commentsCmd.AddCommand(commentsListCmd)
	commentsCmd.AddCommand(commentsAddCmd)

	commentsListCmd.Flags().StringVar(&commentVideoID, "video", "", "Video id")
	commentsListCmd.MarkFlagRequired("video")

	commentsAddCmd.Flags().StringVar(&commentVideoID, "video", "", "Video id")
	commentsAddCmd.Flags().StringVar(&commentText, "text", "", "Comment text")
	commentsAddCmd.Flags().Float64Var(&commentAt, "at", 0, "Timestamp within the video, in seconds")
	commentsAddCmd.Flags().BoolVar(&commentGuest, "guest", false, "Author the comment as a guest")
	commentsAddCmd.Flags().StringVar(&commentGuestName, "guest-name", "", "Guest display name (default Guest)")
	commentsAddCmd.MarkFlagRequired("video")
	commentsAddCmd.MarkFlagRequired("text")
}

func runCommentsList(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'videoverse setup' first")
	}

	_, session, err := requireSession(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, _, err := newStores(ctx, cfg, session)
	if err != nil {
		return err
	}

	comments, err := newCommentService(cfg, store).Comments(ctx, commentVideoID)
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}

	output := cmd.OutOrStdout()
	if len(comments) == 0 {
		fmt.Fprintln(output, "No comments yet.")
		return nil
	}

	for _, c := range comments {
		author := c.User.Name
		if c.User.IsGuest {
			author += " (guest)"
		}
		fmt.Fprintf(output, "[%s] %s: %s\n", formatTimestamp(c.Timestamp), author, c.Text)
	}
	return nil
}

func runCommentsAdd(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; run 'videoverse setup' first")
	}

	// Guest comments still go through the local session's Drive access;
	// only the author snapshot differs.
	_, session, err := requireSession(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, _, err := newStores(ctx, cfg, session)
	if err != nil {
		return err
	}

	comment, err := newCommentService(cfg, store).AddComment(ctx, session, commentVideoID, review.CommentDraft{
		Text:      commentText,
		Timestamp: commentAt,
		AsGuest:   commentGuest,
		GuestName: commentGuestName,
	})
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Comment %s added at %s.\n", comment.ID, formatTimestamp(comment.Timestamp))
	return nil
}

// formatTimestamp renders seconds-into-video as m:ss.
func formatTimestamp(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
