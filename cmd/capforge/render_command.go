package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"capforge/internal/ipc"
)

func newRenderCommand(cmdCtx *commandContext) *cobra.Command {
	var style string
	var captionID string

	cmd := &cobra.Command{
		Use:   "render <video-id>",
		Short: "Burn captions into a video export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withClient(func(client *ipc.Client) error {
				resp, err := client.Render(ipc.RenderRequest{
					VideoID:   args[0],
					CaptionID: captionID,
					Style:     style,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintf(out, "Export %s: %s\n",
					resp.Export.ID, colorStatus(resp.Export.Status, colorize))
				if resp.Export.FilePath != "" {
					fmt.Fprintf(out, "Output: %s\n", resp.Export.FilePath)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "Caption style: bottom, top, or karaoke (default bottom)")
	cmd.Flags().StringVar(&captionID, "caption-id", "", "Caption set to render (default: most recent)")
	return cmd
}
