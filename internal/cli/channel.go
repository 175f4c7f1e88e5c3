package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewChannelCmd создаёт группу команд для управления каналами.
func NewChannelCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Manage channels",
	}

	cmd.AddCommand(
		newChannelListCmd(clientFn, outputFn),
		newChannelAddCmd(clientFn, outputFn),
		newChannelShowCmd(clientFn, outputFn),
	)

	return cmd
}

func channelRow(c *ChannelResponse) []string {
	return []string{
		strconv.FormatInt(c.ID, 10), c.ExternalID, c.Title,
		strconv.FormatInt(c.OwnerID, 10), c.CreatedAt,
	}
}

var channelHeaders = []string{"ID", "EXTERNAL_ID", "TITLE", "OWNER", "CREATED"}

func newChannelListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var ownerID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List channels of an operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			channels, err := client.ListChannels(cmd.Context(), ownerID)
			if err != nil {
				return err
			}

			rows := make([][]string, len(channels))
			for i := range channels {
				rows[i] = channelRow(&channels[i])
			}

			out.Print(channelHeaders, rows, channels)
			return nil
		},
	}

	cmd.Flags().Int64Var(&ownerID, "owner", 0, "Operator (owner) ID")
	cmd.MarkFlagRequired("owner")

	return cmd
}

func newChannelAddCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var ownerID int64
	var title string

	cmd := &cobra.Command{
		Use:   "add EXTERNAL_ID",
		Short: "Register a channel (chat id or @username)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			channel, err := client.CreateChannel(cmd.Context(), CreateChannelRequest{
				OwnerID:    ownerID,
				ExternalID: args[0],
				Title:      title,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Channel registered: %d", channel.ID))
			out.Print(channelHeaders, [][]string{channelRow(channel)}, channel)
			return nil
		},
	}

	cmd.Flags().Int64Var(&ownerID, "owner", 0, "Operator (owner) ID")
	cmd.Flags().StringVar(&title, "title", "", "Display title (default: external id)")
	cmd.MarkFlagRequired("owner")

	return cmd
}

func newChannelShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show CHANNEL_ID",
		Short: "Show channel details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := parseID("channel id", args[0])
			if err != nil {
				return err
			}

			channel, err := clientFn().GetChannel(cmd.Context(), channelID)
			if err != nil {
				return err
			}

			outputFn().Print(channelHeaders, [][]string{channelRow(channel)}, channel)
			return nil
		},
	}
}
