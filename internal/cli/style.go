package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStyleCmd создаёт группу команд для примеров стиля.
func NewStyleCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "style",
		Short: "Manage style examples of a channel",
	}

	cmd.AddCommand(
		newStyleAddCmd(clientFn, outputFn),
		newStyleResetCmd(clientFn, outputFn),
	)

	return cmd
}

func newStyleAddCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add CHANNEL_ID [TEXT...]",
		Short: "Add a style example (a post written by the author)",
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

			style, err := clientFn().AddStyle(cmd.Context(), channelID, text)
			if err != nil {
				return err
			}

			out := outputFn()
			out.Success(fmt.Sprintf("Style example %d added to channel %d", style.ID, style.ChannelID))
			if out.jsonMode {
				out.JSON(style)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read text from file (- for stdin)")

	return cmd
}

func newStyleResetCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "reset CHANNEL_ID",
		Short: "Remove all style examples of a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := parseID("channel id", args[0])
			if err != nil {
				return err
			}

			reset, err := clientFn().ResetStyle(cmd.Context(), channelID)
			if err != nil {
				return err
			}

			out := outputFn()
			out.Success(fmt.Sprintf("Removed %d style example(s)", reset.Removed))
			if out.jsonMode {
				out.JSON(reset)
			}
			return nil
		},
	}
}
