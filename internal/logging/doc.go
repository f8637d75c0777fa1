// Package logging assembles the structured slog loggers shared by every
// capforge component.
//
// It owns the console and JSON handlers, level plumbing, and the progress
// sampler that keeps render and transcription progress logs readable. Prefer
// these constructors over hand-rolled slog setup so all components emit the
// same shape.
package logging
