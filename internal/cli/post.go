package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewPostCmd создаёт группу команд для управления очередью постов.
func NewPostCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Manage the publishing queue",
	}

	cmd.AddCommand(
		newPostQueueCmd(clientFn, outputFn),
		newPostListCmd(clientFn, outputFn),
		newPostShowCmd(clientFn, outputFn),
		newPostEditCmd(clientFn, outputFn),
		newPostAttachCmd(clientFn, outputFn),
		newPostDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

var postHeaders = []string{"ID", "CHANNEL", "PUBLISH_AT", "MEDIA", "PUBLISHED", "TEXT"}

func postRow(p *PostResponse) []string {
	return []string{
		strconv.FormatInt(p.ID, 10), strconv.FormatInt(p.ChannelID, 10), p.PublishAt,
		mediaCell(p.Media), strconv.FormatBool(p.Published), truncate(p.Text, 50),
	}
}

func newPostQueueCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file, mediaID, mediaKind string

	cmd := &cobra.Command{
		Use:   "queue CHANNEL_ID [TEXT...]",
		Short: "Queue an approved post; the next free slot is assigned",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := parseID("channel id", args[0])
			if err != nil {
				return err
			}
			text, err := readText(args[1:], file)
			if err != nil {
				return err
			}

			queued, err := clientFn().QueuePost(cmd.Context(), channelID, QueuePostRequest{
				Text:      text,
				MediaID:   mediaID,
				MediaKind: mediaKind,
			})
			if err != nil {
				return err
			}

			out := outputFn()
			out.Success(fmt.Sprintf("Post %d queued for %s", queued.ID, queued.PublishAt))
			out.Print(
				[]string{"ID", "CHANNEL", "PUBLISH_AT"},
				[][]string{{strconv.FormatInt(queued.ID, 10), strconv.FormatInt(queued.ChannelID, 10), queued.PublishAt}},
				queued,
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read text from file (- for stdin)")
	cmd.Flags().StringVar(&mediaID, "media-id", "", "Attachment file id")
	cmd.Flags().StringVar(&mediaKind, "media-kind", "", "Attachment kind: photo or video")

	return cmd
}

func newPostListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list CHANNEL_ID",
		Short: "List pending posts of a channel in publish order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := parseID("channel id", args[0])
			if err != nil {
				return err
			}

			posts, err := clientFn().ListPending(cmd.Context(), channelID)
			if err != nil {
				return err
			}

			rows := make([][]string, len(posts))
			for i := range posts {
				rows[i] = postRow(&posts[i])
			}

			outputFn().Print(postHeaders, rows, posts)
			return nil
		},
	}
}

func newPostShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show POST_ID",
		Short: "Show a post with its full text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID("post id", args[0])
			if err != nil {
				return err
			}

			post, err := clientFn().GetPost(cmd.Context(), postID)
			if err != nil {
				return err
			}

			out := outputFn()
			out.Print(postHeaders, [][]string{postRow(post)}, post)
			if !out.jsonMode {
				out.Text("\n"+post.Text, post)
			}
			return nil
		},
	}
}

func newPostEditCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "edit POST_ID [TEXT...]",
		Short: "Replace the text of a queued post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID("post id", args[0])
			if err != nil {
				return err
			}
			text, err := readText(args[1:], file)
			if err != nil {
				return err
			}

			post, err := clientFn().UpdatePostText(cmd.Context(), postID, text)
			if err != nil {
				return err
			}

			out := outputFn()
			out.Success(fmt.Sprintf("Post %d updated", post.ID))
			out.Print(postHeaders, [][]string{postRow(post)}, post)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read text from file (- for stdin)")

	return cmd
}

func newPostAttachCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var kind string
	var detach bool

	cmd := &cobra.Command{
		Use:   "attach POST_ID [MEDIA_ID]",
		Short: "Attach media to a queued post (or remove it with --detach)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID("post id", args[0])
			if err != nil {
				return err
			}

			var req MediaRequest
			switch {
			case detach:
			case len(args) == 2:
				req = MediaRequest{MediaID: args[1], MediaKind: kind}
			default:
				return fmt.Errorf("MEDIA_ID is required unless --detach is set")
			}

			post, err := clientFn().UpdatePostMedia(cmd.Context(), postID, req)
			if err != nil {
				return err
			}

			out := outputFn()
			out.Success(fmt.Sprintf("Post %d media: %s", post.ID, mediaCell(post.Media)))
			out.Print(postHeaders, [][]string{postRow(post)}, post)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "photo", "Attachment kind: photo or video")
	cmd.Flags().BoolVar(&detach, "detach", false, "Remove the attachment")

	return cmd
}

func newPostDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete POST_ID",
		Short: "Remove a post from the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parseID("post id", args[0])
			if err != nil {
				return err
			}

			if err := clientFn().DeletePost(cmd.Context(), postID); err != nil {
				return err
			}

			outputFn().Success(fmt.Sprintf("Post %d deleted", postID))
			return nil
		},
	}
}
