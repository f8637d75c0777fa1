package render

import "context"

// ProgressUpdate captures engine progress events.
type ProgressUpdate struct {
	Fraction       float64
	RenderedFrames int
	EncodedFrames  int
	Stage          string
}

// Composition is the resolved composition metadata the engine renders.
type Composition struct {
	DurationInFrames int
	FPS              float64
	Width            int
	Height           int
}

// Job describes a single composition render.
type Job struct {
	BundleLocation string
	CompositionID  string
	InputProps     map[string]any
	OutputPath     string
	Profile        Profile
}

// Engine defines compositing engine behaviour.
type Engine interface {
	// Bundle prepares the compositing project from its entry point and
	// returns the bundle location the later steps consume.
	Bundle(ctx context.Context, entryPoint string) (string, error)
	// SelectComposition resolves a composition's dimensions and duration
	// for the given input props.
	SelectComposition(ctx context.Context, bundleLocation, compositionID string, inputProps map[string]any) (Composition, error)
	// Render produces the output file for a job, invoking progress for
	// every engine progress event.
	Render(ctx context.Context, job Job, progress func(ProgressUpdate)) error
}
