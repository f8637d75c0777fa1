package render

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// CLI shells out to the compositing engine binary. The engine emits one
// JSON object per line on stdout; non-JSON lines are ignored.
type CLI struct {
	binary string
}

// CLIOption configures the CLI engine.
type CLIOption func(*CLI)

// WithBinary overrides the default engine binary name.
func WithBinary(binary string) CLIOption {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// NewCLI constructs a CLI engine using defaults.
func NewCLI(opts ...CLIOption) *CLI {
	cli := &CLI{binary: "remotion"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Bundle runs the engine's bundle step and returns the bundle location
// from its final JSON line.
func (c *CLI) Bundle(ctx context.Context, entryPoint string) (string, error) {
	if strings.TrimSpace(entryPoint) == "" {
		return "", errors.New("entry point required")
	}

	cmd := commandContext(ctx, c.binary, "bundle", "--entry-point", entryPoint, "--json") //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("engine bundle failed: %w", err)
	}

	var location string
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		var payload struct {
			BundleLocation string `json:"bundle_location"`
		}
		if json.Unmarshal(scanner.Bytes(), &payload) == nil && payload.BundleLocation != "" {
			location = payload.BundleLocation
		}
	}
	if location == "" {
		return "", errors.New("engine reported no bundle location")
	}
	return location, nil
}

// SelectComposition asks the engine for the composition's metadata given
// the input props.
func (c *CLI) SelectComposition(ctx context.Context, bundleLocation, compositionID string, inputProps map[string]any) (Composition, error) {
	props, err := json.Marshal(inputProps)
	if err != nil {
		return Composition{}, fmt.Errorf("encode input props: %w", err)
	}

	cmd := commandContext(ctx, c.binary, "compositions", //nolint:gosec
		"--bundle", bundleLocation,
		"--composition", compositionID,
		"--props", string(props),
		"--json")
	output, err := cmd.Output()
	if err != nil {
		return Composition{}, fmt.Errorf("engine composition lookup failed: %w", err)
	}

	var payload struct {
		DurationInFrames int     `json:"duration_in_frames"`
		FPS              float64 `json:"fps"`
		Width            int     `json:"width"`
		Height           int     `json:"height"`
	}
	if err := json.Unmarshal(output, &payload); err != nil {
		return Composition{}, fmt.Errorf("decode composition: %w", err)
	}
	if payload.DurationInFrames <= 0 || payload.FPS <= 0 {
		return Composition{}, fmt.Errorf("engine reported invalid composition %q", compositionID)
	}
	return Composition{
		DurationInFrames: payload.DurationInFrames,
		FPS:              payload.FPS,
		Width:            payload.Width,
		Height:           payload.Height,
	}, nil
}

// Render launches the engine render and streams progress events to the
// callback until the process exits.
func (c *CLI) Render(ctx context.Context, job Job, progress func(ProgressUpdate)) error {
	if job.BundleLocation == "" {
		return errors.New("bundle location required")
	}
	if job.CompositionID == "" {
		return errors.New("composition id required")
	}
	if job.OutputPath == "" {
		return errors.New("output path required")
	}

	props, err := json.Marshal(job.InputProps)
	if err != nil {
		return fmt.Errorf("encode input props: %w", err)
	}

	args := []string{
		"render",
		"--bundle", job.BundleLocation,
		"--composition", job.CompositionID,
		"--props", string(props),
		"--output", job.OutputPath,
		"--codec", job.Profile.Codec,
		"--jpeg-quality", strconv.Itoa(job.Profile.JPEGQuality),
		"--video-bitrate", job.Profile.VideoBitrate,
		"--every-nth-frame", strconv.Itoa(job.Profile.EveryNthFrame),
		"--concurrency", strconv.Itoa(job.Profile.Concurrency),
		"--gl", job.Profile.GL,
		"--progress-json",
	}
	for _, flag := range job.Profile.ChromiumFlags {
		args = append(args, "--chromium-flag", flag)
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		var payload struct {
			Fraction       float64 `json:"fraction"`
			RenderedFrames int     `json:"rendered_frames"`
			EncodedFrames  int     `json:"encoded_frames"`
			Stage          string  `json:"stage"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &payload); err != nil {
			continue
		}
		if progress != nil {
			progress(ProgressUpdate{
				Fraction:       payload.Fraction,
				RenderedFrames: payload.RenderedFrames,
				EncodedFrames:  payload.EncodedFrames,
				Stage:          payload.Stage,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read engine output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("engine render failed: %w", err)
	}
	return nil
}

var _ Engine = (*CLI)(nil)
