package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDraftCmd создаёт группу команд для генерации черновиков.
func NewDraftCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Generate and rewrite drafts in the channel style",
	}

	cmd.AddCommand(
		newDraftGenerateCmd(clientFn, outputFn),
		newDraftRewriteCmd(clientFn, outputFn),
	)

	return cmd
}

func newDraftGenerateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "generate CHANNEL_ID [TOPIC...]",
		Short: "Generate one or more drafts from a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := parseID("channel id", args[0])
			if err != nil {
				return err
			}
			topic, err := readText(args[1:], file)
			if err != nil {
				return err
			}

			drafts, err := clientFn().GenerateDrafts(cmd.Context(), channelID, topic)
			if err != nil {
				return err
			}

			out := outputFn()
			if out.jsonMode {
				out.JSON(drafts)
				return nil
			}
			for i, d := range drafts.Drafts {
				out.Text(fmt.Sprintf("--- Draft %d ---\n%s\n", i+1, d), drafts)
			}
			out.Success(fmt.Sprintf("%d draft(s) generated. Queue one with: ghostwriter post queue %d -f FILE", len(drafts.Drafts), channelID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read topic from file (- for stdin)")

	return cmd
}

func newDraftRewriteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "rewrite CHANNEL_ID [TEXT...]",
		Short: "Rewrite text in the channel style",
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

			rewritten, err := clientFn().Rewrite(cmd.Context(), channelID, text)
			if err != nil {
				return err
			}

			outputFn().Text(rewritten.Text, rewritten)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read text from file (- for stdin)")

	return cmd
}
