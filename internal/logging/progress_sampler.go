package logging

import "strings"

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when stages change, a frame-count stride is crossed, or the job completes.
// Forwarding to upstream observers is never sampled; this gates local log
// output only.
type ProgressSampler struct {
	frameStride int
	lastStage   string
	lastFrame   int
}

// NewProgressSampler constructs a sampler that emits whenever the rendered
// frame count crosses a stride boundary (default 30 frames), the stage
// changes, or progress reaches 1.0.
func NewProgressSampler(frameStride int) *ProgressSampler {
	if frameStride <= 0 {
		frameStride = 30
	}
	return &ProgressSampler{frameStride: frameStride, lastFrame: -1}
}

// ShouldLog reports whether a progress event should be logged.
func (s *ProgressSampler) ShouldLog(fraction float64, frames int, stage string) bool {
	if s == nil {
		return true
	}
	stage = strings.TrimSpace(stage)
	emit := false
	if stage != "" && stage != s.lastStage {
		s.lastStage = stage
		s.lastFrame = -1
		emit = true
	}
	if fraction >= 1 {
		return true
	}
	if frames >= 0 && frames%s.frameStride == 0 && frames != s.lastFrame {
		s.lastFrame = frames
		emit = true
	}
	return emit
}

// Reset clears the sampler state when a new job starts.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastStage = ""
	s.lastFrame = -1
}
