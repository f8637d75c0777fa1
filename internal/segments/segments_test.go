package segments_test

import (
	"strings"
	"testing"

	"capforge/internal/segments"
)

func makeWords(count int, spacingMS int64) []segments.Word {
	words := make([]segments.Word, count)
	for i := range words {
		start := int64(i) * spacingMS
		words[i] = segments.Word{
			Text:  wordText(i),
			Start: start,
			End:   start + spacingMS,
		}
	}
	return words
}

func wordText(i int) string {
	return "w" + strings.Repeat("o", i%3+1) + "rd"
}

func TestBuildGroupsWordsIntoWindows(t *testing.T) {
	words := makeWords(25, 500)
	captions := segments.Build(words, 10)

	if len(captions) != 3 {
		t.Fatalf("expected 3 captions, got %d", len(captions))
	}
	for i, caption := range captions {
		if caption.ID != i+1 {
			t.Fatalf("caption %d: expected id %d, got %d", i, i+1, caption.ID)
		}
	}
	if got := len(strings.Fields(captions[2].Text)); got != 5 {
		t.Fatalf("expected 5 words in final caption, got %d", got)
	}
}

func TestBuildCoversWordSpan(t *testing.T) {
	words := makeWords(22, 545) // ~12 seconds of audio
	captions := segments.Build(words, 10)

	if len(captions) != 3 {
		t.Fatalf("expected 3 captions, got %d", len(captions))
	}
	if captions[0].Start != float64(words[0].Start)/1000 {
		t.Fatalf("expected first caption to start at %v, got %v", float64(words[0].Start)/1000, captions[0].Start)
	}
	last := captions[len(captions)-1]
	if last.End != float64(words[len(words)-1].End)/1000 {
		t.Fatalf("expected last caption to end at %v, got %v", float64(words[len(words)-1].End)/1000, last.End)
	}
	for i := 1; i < len(captions); i++ {
		if captions[i].Start < captions[i-1].Start {
			t.Fatalf("captions out of order at %d: %v after %v", i, captions[i].Start, captions[i-1].Start)
		}
	}
}

func TestBuildConvertsMillisecondsToSeconds(t *testing.T) {
	words := []segments.Word{
		{Text: "hello", Start: 250, End: 700},
		{Text: "world", Start: 700, End: 1300},
	}
	captions := segments.Build(words, 10)

	if len(captions) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(captions))
	}
	if captions[0].Start != 0.25 || captions[0].End != 1.3 {
		t.Fatalf("unexpected timing: start=%v end=%v", captions[0].Start, captions[0].End)
	}
	if captions[0].Text != "hello world" {
		t.Fatalf("unexpected text %q", captions[0].Text)
	}
}

func TestBuildEmptyWordsFallsBack(t *testing.T) {
	captions := segments.Build(nil, 10)
	if len(captions) != 1 {
		t.Fatalf("expected exactly one fallback caption, got %d", len(captions))
	}
	caption := captions[0]
	if caption.ID != 1 || caption.Start != 0 || caption.End != 0 || caption.Text != "" {
		t.Fatalf("unexpected fallback caption: %#v", caption)
	}
}

func TestFallbackCarriesDurationAndText(t *testing.T) {
	captions := segments.Fallback(42.5, "the whole transcript")
	if len(captions) != 1 {
		t.Fatalf("expected one caption, got %d", len(captions))
	}
	if captions[0].End != 42.5 || captions[0].Text != "the whole transcript" {
		t.Fatalf("unexpected fallback: %#v", captions[0])
	}
}

func TestBuildDefaultsWindowSize(t *testing.T) {
	words := makeWords(21, 400)
	captions := segments.Build(words, 0)
	if len(captions) != 3 {
		t.Fatalf("expected default window of %d to yield 3 captions, got %d",
			segments.DefaultWindowSize, len(captions))
	}
}
