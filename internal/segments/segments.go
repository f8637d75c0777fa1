package segments

import "strings"

// DefaultWindowSize is the number of words grouped into one caption segment.
const DefaultWindowSize = 10

// Word is a single transcribed word with millisecond timing, as reported by
// the speech-to-text provider.
type Word struct {
	Text  string
	Start int64
	End   int64
}

// Caption is a timed subtitle unit. Start and End are seconds.
type Caption struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns the caption's span in seconds.
func (c Caption) Duration() float64 {
	return c.End - c.Start
}

// Build partitions words into contiguous windows of windowSize (the last
// window may be shorter) and emits one caption per window. Ids are assigned
// 1..n in window order; word order is preserved, so output is sorted by
// start time whenever the input is.
//
// An empty word list yields a single empty fallback segment; callers with a
// known aggregate text or duration should use Fallback instead.
func Build(words []Word, windowSize int) []Caption {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if len(words) == 0 {
		return Fallback(0, "")
	}

	captions := make([]Caption, 0, (len(words)+windowSize-1)/windowSize)
	for i := 0; i < len(words); i += windowSize {
		j := i + windowSize
		if j > len(words) {
			j = len(words)
		}
		window := words[i:j]
		texts := make([]string, len(window))
		for k, w := range window {
			texts[k] = w.Text
		}
		captions = append(captions, Caption{
			ID:    i/windowSize + 1,
			Start: float64(window[0].Start) / 1000,
			End:   float64(window[len(window)-1].End) / 1000,
			Text:  strings.Join(texts, " "),
		})
	}
	return captions
}

// Fallback produces the single-segment caption set used when the provider
// returns no word-level timestamps: one segment spanning the whole media
// duration carrying the aggregate transcript text.
func Fallback(duration float64, text string) []Caption {
	if duration < 0 {
		duration = 0
	}
	return []Caption{{ID: 1, Start: 0, End: duration, Text: text}}
}
