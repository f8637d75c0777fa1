package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"capforge/internal/config"
	"capforge/internal/language"
	"capforge/internal/logging"
	"capforge/internal/segments"
	"capforge/internal/services"
	"capforge/internal/services/scribe"
)

// Provider is the subset of the speech-to-text client the transcriber
// depends on. scribe.Client satisfies it.
type Provider interface {
	Upload(ctx context.Context, payload []byte) (string, error)
	Submit(ctx context.Context, audioURL, languageCode string) (string, error)
	Poll(ctx context.Context, jobID string) (scribe.Job, error)
}

// Result is a completed transcription.
type Result struct {
	Captions []segments.Caption
	Language string
	Duration float64
}

// Transcriber orchestrates upload, submission, and polling against a
// transcription provider.
type Transcriber struct {
	provider     Provider
	logger       *slog.Logger
	windowSize   int
	pollInterval time.Duration
	maxWait      time.Duration
}

// Option configures a Transcriber.
type Option func(*Transcriber)

// WithProvider replaces the provider client (for testing).
func WithProvider(p Provider) Option {
	return func(t *Transcriber) {
		if p != nil {
			t.provider = p
		}
	}
}

// WithPollInterval overrides the interval between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(t *Transcriber) {
		if d > 0 {
			t.pollInterval = d
		}
	}
}

// WithMaxWait bounds the total time spent waiting for a job to finish.
// Zero means wait until the job completes or the context is cancelled.
func WithMaxWait(d time.Duration) Option {
	return func(t *Transcriber) {
		t.maxWait = d
	}
}

// New constructs a Transcriber from provider configuration.
func New(cfg config.Scribe, logger *slog.Logger, opts ...Option) *Transcriber {
	t := &Transcriber{
		provider:     scribe.NewClient(cfg),
		logger:       logging.NewComponentLogger(logger, "transcribe"),
		windowSize:   cfg.WordsPerSegment,
		pollInterval: time.Duration(cfg.PollInterval) * time.Second,
		maxWait:      time.Duration(cfg.MaxWait) * time.Second,
	}
	if t.windowSize <= 0 {
		t.windowSize = segments.DefaultWindowSize
	}
	if t.pollInterval <= 0 {
		t.pollInterval = 3 * time.Second
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe reads the media file at mediaPath, runs it through the
// provider, and returns grouped caption segments. languageHint may be a
// language name, a two or three letter code, or empty for auto-detection.
func (t *Transcriber) Transcribe(ctx context.Context, mediaPath, languageHint string) (*Result, error) {
	payload, err := os.ReadFile(mediaPath)
	if err != nil {
		return nil, services.Wrap(services.ErrMedia, "transcribe", "read media", mediaPath, err)
	}

	languageCode := language.ToProviderCode(languageHint)
	t.logger.Info("uploading media",
		logging.String("path", mediaPath),
		logging.Int("bytes", len(payload)),
		logging.String("language", languageCode))

	audioURL, err := t.provider.Upload(ctx, payload)
	if err != nil {
		return nil, err
	}

	jobID, err := t.provider.Submit(ctx, audioURL, languageCode)
	if err != nil {
		return nil, err
	}
	t.logger.Info("transcription job submitted", logging.String("job_id", jobID))

	job, err := t.await(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == scribe.StatusError {
		message := job.Error
		if message == "" {
			message = "provider reported an unspecified failure"
		}
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "job "+jobID, message, nil)
	}

	result := &Result{
		Language: resolveLanguage(job.LanguageCode, languageCode),
		Duration: job.AudioDuration,
	}
	if len(job.Words) > 0 {
		result.Captions = segments.Build(toSegmentWords(job.Words), t.windowSize)
	} else {
		result.Captions = segments.Fallback(job.AudioDuration, job.Text)
	}

	t.logger.Info("transcription complete",
		logging.String("job_id", jobID),
		logging.Int("segments", len(result.Captions)),
		logging.String("language", result.Language),
		logging.Float64("duration_seconds", result.Duration))
	return result, nil
}

// await polls the job until it reaches a terminal state. Provider errors
// end the wait immediately; no further polls are issued.
func (t *Transcriber) await(ctx context.Context, jobID string) (scribe.Job, error) {
	var deadline <-chan time.Time
	if t.maxWait > 0 {
		timer := time.NewTimer(t.maxWait)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		job, err := t.provider.Poll(ctx, jobID)
		if err != nil {
			return scribe.Job{}, err
		}
		if job.Status.IsTerminal() {
			return job, nil
		}
		t.logger.Debug("transcription pending",
			logging.String("job_id", jobID),
			logging.String("status", string(job.Status)))

		select {
		case <-ctx.Done():
			return scribe.Job{}, services.Wrap(services.ErrTranscription, "transcribe", "job "+jobID, "wait cancelled", ctx.Err())
		case <-deadline:
			return scribe.Job{}, services.Wrap(services.ErrTransient, "transcribe", "job "+jobID,
				fmt.Sprintf("job did not finish within %s", t.maxWait), nil)
		case <-ticker.C:
		}
	}
}

// resolveLanguage prefers the provider's detected language, then the
// caller's hint, then "unknown".
func resolveLanguage(detected, hinted string) string {
	if detected != "" {
		return detected
	}
	if hinted != "" {
		return hinted
	}
	return "unknown"
}

func toSegmentWords(words []scribe.Word) []segments.Word {
	out := make([]segments.Word, len(words))
	for i, w := range words {
		out[i] = segments.Word{Text: w.Text, Start: w.Start, End: w.End}
	}
	return out
}
