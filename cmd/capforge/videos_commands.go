package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"capforge/internal/config"
	"capforge/internal/ipc"
)

func newVideosCommand(cmdCtx *commandContext) *cobra.Command {
	videosCmd := &cobra.Command{
		Use:   "videos",
		Short: "Manage the video catalog",
	}
	videosCmd.AddCommand(newVideosListCommand(cmdCtx))
	videosCmd.AddCommand(newVideosAddCommand(cmdCtx))
	videosCmd.AddCommand(newVideosRemoveCommand(cmdCtx))
	return videosCmd
}

func newVideosListCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List videos, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withClient(func(client *ipc.Client) error {
				resp, err := client.VideoList()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(resp.Videos) == 0 {
					fmt.Fprintln(out, "No videos.")
					return nil
				}
				colorize := shouldColorize(out)
				rows := make([][]string, 0, len(resp.Videos))
				for _, video := range resp.Videos {
					rows = append(rows, []string{
						video.ID,
						video.OriginalFilename,
						colorStatus(video.Status, colorize),
						video.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "FILE", "STATUS", "ADDED"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newVideosAddCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>",
		Short: "Upload a media file into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			return cmdCtx.withClient(func(client *ipc.Client) error {
				resp, err := client.VideoAdd(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s as %s\n",
					filepath.Base(path), resp.Video.ID)
				return nil
			})
		},
	}
}

func newVideosRemoveCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <video-id>",
		Short: "Delete a video and its captions and exports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withClient(func(client *ipc.Client) error {
				if _, err := client.VideoDelete(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
