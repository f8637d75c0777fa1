package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"capforge/internal/config"
	"capforge/internal/ipc"
	"capforge/internal/segments"
)

func newCaptionsCommand(cmdCtx *commandContext) *cobra.Command {
	captionsCmd := &cobra.Command{
		Use:   "captions",
		Short: "Generate, edit, and inspect captions",
	}
	captionsCmd.AddCommand(newCaptionsGenerateCommand(cmdCtx))
	captionsCmd.AddCommand(newCaptionsSaveCommand(cmdCtx))
	captionsCmd.AddCommand(newCaptionsShowCommand(cmdCtx))
	return captionsCmd
}

func newCaptionsGenerateCommand(cmdCtx *commandContext) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "generate <video-id>",
		Short: "Transcribe a video into caption segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withClient(func(client *ipc.Client) error {
				resp, err := client.CaptionsGenerate(args[0], language)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Caption set %s (%s, %.1fs, %d segments)\n",
					resp.CaptionID, resp.Language, resp.Duration, len(resp.Captions))
				printCaptions(cmd, resp.Captions)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language hint (name or code, empty = auto-detect)")
	return cmd
}

func newCaptionsSaveCommand(cmdCtx *commandContext) *cobra.Command {
	var captionID string
	var file string

	cmd := &cobra.Command{
		Use:   "save <video-id>",
		Short: "Save edited caption segments from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(file) == "" {
				return fmt.Errorf("--file is required")
			}
			path, err := config.ExpandPath(file)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read captions file: %w", err)
			}
			var captions []segments.Caption
			if err := json.Unmarshal(data, &captions); err != nil {
				return fmt.Errorf("parse captions file: %w", err)
			}

			return cmdCtx.withClient(func(client *ipc.Client) error {
				resp, err := client.CaptionsSave(args[0], captionID, captions)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved caption set %s (%d segments)\n",
					resp.Captions.ID, len(resp.Captions.Captions))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&captionID, "caption-id", "", "Existing caption set to update (omit to create a new set)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the caption segments")
	return cmd
}

func newCaptionsShowCommand(cmdCtx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <video-id>",
		Short: "Show a video's most recent caption set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withClient(func(client *ipc.Client) error {
				resp, err := client.CaptionsShow(args[0])
				if err != nil {
					return err
				}
				if asJSON {
					encoder := json.NewEncoder(cmd.OutOrStdout())
					encoder.SetIndent("", "  ")
					return encoder.Encode(resp.Captions.Captions)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Caption set %s (%s, style %s)\n",
					resp.Captions.ID, resp.Captions.Language, resp.Captions.Style)
				printCaptions(cmd, resp.Captions.Captions)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the segments as JSON")
	return cmd
}

func printCaptions(cmd *cobra.Command, captions []segments.Caption) {
	rows := make([][]string, 0, len(captions))
	for _, caption := range captions {
		rows = append(rows, []string{
			fmt.Sprintf("%d", caption.ID),
			fmt.Sprintf("%.2f", caption.Start),
			fmt.Sprintf("%.2f", caption.End),
			caption.Text,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"#", "START", "END", "TEXT"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	))
}
