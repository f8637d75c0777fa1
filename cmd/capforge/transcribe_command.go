package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"capforge/internal/config"
	"capforge/internal/logging"
	"capforge/internal/transcribe"
)

// newTranscribeCommand transcribes a local file directly, without a
// running serve process or a catalog record.
func newTranscribeCommand(cmdCtx *commandContext) *cobra.Command {
	var language string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "transcribe <file>",
		Short: "Transcribe a local media file to caption segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			transcriber := transcribe.New(cfg.Scribe, logger)
			result, err := transcriber.Transcribe(cmd.Context(), path, language)
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(result.Captions)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Language %s, %.1fs, %d segments\n",
				result.Language, result.Duration, len(result.Captions))
			printCaptions(cmd, result.Captions)
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language hint (name or code, empty = auto-detect)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the segments as JSON")
	return cmd
}
