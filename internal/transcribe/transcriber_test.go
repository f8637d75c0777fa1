package transcribe_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"capforge/internal/config"
	"capforge/internal/logging"
	"capforge/internal/services"
	"capforge/internal/services/scribe"
	"capforge/internal/testsupport"
	"capforge/internal/transcribe"
)

type fakeProvider struct {
	uploads   int
	submitted string
	polls     int
	jobs      []scribe.Job
	pollErr   error
}

func (f *fakeProvider) Upload(ctx context.Context, payload []byte) (string, error) {
	f.uploads++
	return "https://cdn.example/payload", nil
}

func (f *fakeProvider) Submit(ctx context.Context, audioURL, languageCode string) (string, error) {
	f.submitted = languageCode
	return "job-1", nil
}

func (f *fakeProvider) Poll(ctx context.Context, jobID string) (scribe.Job, error) {
	if f.pollErr != nil {
		f.polls++
		return scribe.Job{}, f.pollErr
	}
	idx := f.polls
	if idx >= len(f.jobs) {
		idx = len(f.jobs) - 1
	}
	f.polls++
	return f.jobs[idx], nil
}

func newTranscriber(t *testing.T, provider *fakeProvider, opts ...transcribe.Option) *transcribe.Transcriber {
	t.Helper()
	cfg := config.Scribe{
		APIKey:          "test-key",
		BaseURL:         "http://localhost:0",
		PollInterval:    3,
		WordsPerSegment: 10,
	}
	all := append([]transcribe.Option{
		transcribe.WithProvider(provider),
		transcribe.WithPollInterval(time.Millisecond),
	}, opts...)
	return transcribe.New(cfg, logging.NewNop(), all...)
}

func wordRun(n int) []scribe.Word {
	words := make([]scribe.Word, n)
	for i := range words {
		words[i] = scribe.Word{
			Text:  fmt.Sprintf("word%d", i+1),
			Start: int64(i) * 400,
			End:   int64(i)*400 + 350,
		}
	}
	return words
}

func mediaFile(t *testing.T) string {
	t.Helper()
	return testsupport.WriteFile(t, t.TempDir(), "clip.mp4", []byte("media"))
}

func TestTranscribeGroupsWords(t *testing.T) {
	provider := &fakeProvider{jobs: []scribe.Job{
		{ID: "job-1", Status: scribe.StatusQueued},
		{ID: "job-1", Status: scribe.StatusProcessing},
		{
			ID:            "job-1",
			Status:        scribe.StatusCompleted,
			Words:         wordRun(25),
			LanguageCode:  "en",
			AudioDuration: 10.5,
		},
	}}

	result, err := newTranscriber(t, provider).Transcribe(context.Background(), mediaFile(t), "english")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(result.Captions) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(result.Captions))
	}
	for i, caption := range result.Captions {
		if caption.ID != i+1 {
			t.Fatalf("segment %d has id %d", i, caption.ID)
		}
	}
	if result.Language != "en" {
		t.Fatalf("expected detected language, got %q", result.Language)
	}
	if result.Duration != 10.5 {
		t.Fatalf("unexpected duration %v", result.Duration)
	}
	if provider.submitted != "en" {
		t.Fatalf("expected hint mapped to provider code, submitted %q", provider.submitted)
	}
	if provider.polls != 3 {
		t.Fatalf("expected 3 polls, got %d", provider.polls)
	}
}

func TestTranscribeErrorStatusStopsPolling(t *testing.T) {
	provider := &fakeProvider{jobs: []scribe.Job{
		{ID: "job-1", Status: scribe.StatusError, Error: "audio too quiet"},
		{ID: "job-1", Status: scribe.StatusCompleted},
	}}

	_, err := newTranscriber(t, provider).Transcribe(context.Background(), mediaFile(t), "")
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected transcription error, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "audio too quiet") {
		t.Fatalf("expected provider message in %q", got)
	}
	if provider.polls != 1 {
		t.Fatalf("expected polling to stop after terminal error, polled %d times", provider.polls)
	}
}

func TestTranscribeFallsBackWithoutWords(t *testing.T) {
	provider := &fakeProvider{jobs: []scribe.Job{{
		ID:            "job-1",
		Status:        scribe.StatusCompleted,
		Text:          "hello there",
		AudioDuration: 20,
	}}}

	result, err := newTranscriber(t, provider).Transcribe(context.Background(), mediaFile(t), "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(result.Captions) != 1 {
		t.Fatalf("expected single fallback segment, got %d", len(result.Captions))
	}
	caption := result.Captions[0]
	if caption.Start != 0 || caption.End != 20 || caption.Text != "hello there" {
		t.Fatalf("unexpected fallback segment %+v", caption)
	}
	if result.Language != "unknown" {
		t.Fatalf("expected unknown language, got %q", result.Language)
	}
}

func TestTranscribeMissingMediaIsMediaError(t *testing.T) {
	provider := &fakeProvider{}
	_, err := newTranscriber(t, provider).Transcribe(context.Background(), filepath.Join(t.TempDir(), "absent.mp4"), "")
	if !errors.Is(err, services.ErrMedia) {
		t.Fatalf("expected media error, got %v", err)
	}
	if provider.uploads != 0 {
		t.Fatal("should not upload when the file cannot be read")
	}
}

func TestTranscribePollFailurePropagates(t *testing.T) {
	wrapped := services.Wrap(services.ErrAuth, "scribe", "", "provider rejected the API key", nil)
	provider := &fakeProvider{pollErr: wrapped}

	_, err := newTranscriber(t, provider).Transcribe(context.Background(), mediaFile(t), "")
	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected auth error to propagate, got %v", err)
	}
	if provider.polls != 1 {
		t.Fatalf("expected a single poll, got %d", provider.polls)
	}
}

func TestTranscribeMaxWaitExpires(t *testing.T) {
	provider := &fakeProvider{jobs: []scribe.Job{{ID: "job-1", Status: scribe.StatusProcessing}}}

	_, err := newTranscriber(t, provider, transcribe.WithMaxWait(5*time.Millisecond)).
		Transcribe(context.Background(), mediaFile(t), "")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient timeout error, got %v", err)
	}
}

func TestTranscribeContextCancellation(t *testing.T) {
	provider := &fakeProvider{jobs: []scribe.Job{{ID: "job-1", Status: scribe.StatusProcessing}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTranscriber(t, provider).Transcribe(ctx, mediaFile(t), "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
