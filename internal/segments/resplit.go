package segments

import (
	"math"
	"strings"
)

// DefaultMaxSegmentSeconds is the display limit above which a caption is
// split into shorter segments.
const DefaultMaxSegmentSeconds = 5.0

// Resplit breaks captions longer than maxDuration into shorter ones and
// renumbers the whole sequence with fresh contiguous 1-based ids.
//
// A long caption is divided into word groups of ceil(words / ceil(duration /
// maxDuration)); each group receives a share of the original time span
// proportional to its fraction of the word count. This distributes time by
// word position rather than measured per-word duration, which is an accepted
// approximation: the words' true timing was already collapsed when the
// caption text was joined. The final group's end is clamped to the original
// end so rounding never pushes a caption past its source span.
//
// A caption whose text tokenizes to zero words is dropped. A single-word
// caption cannot be subdivided and passes through regardless of duration.
func Resplit(captions []Caption, maxDuration float64) []Caption {
	if maxDuration <= 0 {
		maxDuration = DefaultMaxSegmentSeconds
	}

	out := make([]Caption, 0, len(captions))
	id := 1

	for _, caption := range captions {
		duration := caption.Duration()
		if duration <= maxDuration {
			caption.ID = id
			id++
			out = append(out, caption)
			continue
		}

		words := strings.Fields(caption.Text)
		if len(words) == 0 {
			continue
		}

		groups := int(math.Ceil(duration / maxDuration))
		perGroup := int(math.Ceil(float64(len(words)) / float64(groups)))

		for i := 0; i < len(words); i += perGroup {
			j := i + perGroup
			if j > len(words) {
				j = len(words)
			}
			start := caption.Start + float64(i)/float64(len(words))*duration
			end := caption.Start + float64(i+perGroup)/float64(len(words))*duration
			if end > caption.End {
				end = caption.End
			}
			out = append(out, Caption{
				ID:    id,
				Start: start,
				End:   end,
				Text:  strings.Join(words[i:j], " "),
			})
			id++
		}
	}
	return out
}
