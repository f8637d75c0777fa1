package library

import (
	"strings"
	"time"

	"capforge/internal/segments"
)

// VideoStatus represents the lifecycle of an uploaded video.
type VideoStatus string

const (
	VideoUploaded     VideoStatus = "uploaded"
	VideoTranscribing VideoStatus = "transcribing"
	VideoTranscribed  VideoStatus = "transcribed"
	VideoError        VideoStatus = "error"
)

var videoStatuses = map[VideoStatus]struct{}{
	VideoUploaded:     {},
	VideoTranscribing: {},
	VideoTranscribed:  {},
	VideoError:        {},
}

// ParseVideoStatus converts a string into a known VideoStatus.
func ParseVideoStatus(value string) (VideoStatus, bool) {
	status := VideoStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := videoStatuses[status]
	return status, ok
}

// ExportStatus represents the lifecycle of a render export.
type ExportStatus string

const (
	ExportQueued    ExportStatus = "queued"
	ExportRendering ExportStatus = "rendering"
	ExportCompleted ExportStatus = "completed"
	ExportFailed    ExportStatus = "failed"
)

var exportStatuses = map[ExportStatus]struct{}{
	ExportQueued:    {},
	ExportRendering: {},
	ExportCompleted: {},
	ExportFailed:    {},
}

// ParseExportStatus converts a string into a known ExportStatus.
func ParseExportStatus(value string) (ExportStatus, bool) {
	status := ExportStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := exportStatuses[status]
	return status, ok
}

// IsTerminal reports whether no further transitions are expected.
func (s ExportStatus) IsTerminal() bool {
	return s == ExportCompleted || s == ExportFailed
}

// CaptionStyle identifies the caption overlay placement rendered into the
// export.
type CaptionStyle string

const (
	StyleBottom  CaptionStyle = "bottom"
	StyleTop     CaptionStyle = "top"
	StyleKaraoke CaptionStyle = "karaoke"
)

// ParseCaptionStyle converts a string into a known CaptionStyle.
func ParseCaptionStyle(value string) (CaptionStyle, bool) {
	style := CaptionStyle(strings.ToLower(strings.TrimSpace(value)))
	switch style {
	case StyleBottom, StyleTop, StyleKaraoke:
		return style, true
	default:
		return "", false
	}
}

// Video is an uploaded media record.
type Video struct {
	ID               string
	OriginalFilename string
	FilePath         string
	StoragePath      string
	Status           VideoStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CaptionSet is a saved set of caption segments for one video.
type CaptionSet struct {
	ID        string
	VideoID   string
	Captions  []segments.Caption
	Style     CaptionStyle
	Language  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Export is a render job record for one video and caption set.
type Export struct {
	ID           string
	VideoID      string
	CaptionID    string
	Status       ExportStatus
	FilePath     string
	StoragePath  string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
