package render

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"capforge/internal/config"
	"capforge/internal/logging"
	"capforge/internal/segments"
	"capforge/internal/services"
)

// Request describes one caption burn-in.
type Request struct {
	VideoURL   string
	Captions   []segments.Caption
	Style      string
	OutputPath string
	// Observer, when set, receives every progress event unsampled.
	Observer func(ProgressUpdate)
}

// Artifact is the outcome of a completed render.
type Artifact struct {
	OutputPath      string
	DurationSeconds float64
	RenderSeconds   float64
}

// Orchestrator prepares the bundle, builds engine input, and supervises
// render jobs.
type Orchestrator struct {
	engine        Engine
	cache         *BundleCache
	profile       Profile
	projectDir    string
	compositionID string
	logger        *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithEngine replaces the engine (for testing).
func WithEngine(engine Engine) Option {
	return func(o *Orchestrator) {
		if engine != nil {
			o.engine = engine
		}
	}
}

// NewOrchestrator constructs an orchestrator from render configuration.
func NewOrchestrator(cfg *config.Config, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		engine:        NewCLI(WithBinary(cfg.Render.EngineBinary)),
		cache:         NewBundleCache(),
		profile:       ProfileFor(cfg.IsProduction()),
		projectDir:    cfg.Render.ProjectDir,
		compositionID: cfg.Render.CompositionID,
		logger:        logging.NewComponentLogger(logger, "render"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Render burns the request's captions into its video. Progress events are
// forwarded to the request observer unconditionally and sampled into the
// log. All failures are reported as render errors.
func (o *Orchestrator) Render(ctx context.Context, req Request) (Artifact, error) {
	if req.VideoURL == "" {
		return Artifact{}, services.Wrap(services.ErrRender, "render", "", "video url required", nil)
	}
	if req.OutputPath == "" {
		return Artifact{}, services.Wrap(services.ErrRender, "render", "", "output path required", nil)
	}

	location, err := o.cache.Location(ctx, o.engine, o.projectDir)
	if err != nil {
		return Artifact{}, err
	}

	if dir := filepath.Dir(req.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Artifact{}, services.Wrap(services.ErrRender, "render", "prepare output", dir, err)
		}
	}

	captions := req.Captions
	if captions == nil {
		captions = []segments.Caption{}
	}
	inputProps := map[string]any{
		"videoSrc": req.VideoURL,
		"captions": captions,
		"style":    req.Style,
	}

	composition, err := o.engine.SelectComposition(ctx, location, o.compositionID, inputProps)
	if err != nil {
		return Artifact{}, services.Wrap(services.ErrRender, "render", "select composition", o.compositionID, err)
	}

	job := Job{
		BundleLocation: location,
		CompositionID:  o.compositionID,
		InputProps:     inputProps,
		OutputPath:     req.OutputPath,
		Profile:        o.profile,
	}

	o.logger.Info("render started",
		logging.String("output", req.OutputPath),
		logging.String("style", req.Style),
		logging.Int("segments", len(captions)),
		logging.Int("frames", composition.DurationInFrames),
		logging.Int("concurrency", o.profile.Concurrency),
		logging.String("gl", o.profile.GL))

	sampler := logging.NewProgressSampler(30)
	started := time.Now()
	err = o.engine.Render(ctx, job, func(update ProgressUpdate) {
		if req.Observer != nil {
			req.Observer(update)
		}
		if sampler.ShouldLog(update.Fraction, update.RenderedFrames, update.Stage) {
			o.logger.Info("render progress",
				logging.String("stage", update.Stage),
				logging.Float64("fraction", update.Fraction),
				logging.Int("rendered_frames", update.RenderedFrames),
				logging.Int("encoded_frames", update.EncodedFrames))
		}
	})
	if err != nil {
		return Artifact{}, services.Wrap(services.ErrRender, "render", "job", req.OutputPath, err)
	}

	elapsed := time.Since(started).Seconds()
	artifact := Artifact{
		OutputPath:      req.OutputPath,
		DurationSeconds: float64(composition.DurationInFrames) / composition.FPS,
		RenderSeconds:   elapsed,
	}
	o.logger.Info("render complete",
		logging.String("output", artifact.OutputPath),
		logging.Float64("duration_seconds", artifact.DurationSeconds),
		logging.Float64("render_seconds", artifact.RenderSeconds))
	return artifact, nil
}
