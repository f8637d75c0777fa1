package ipc

import (
	"time"

	"capforge/internal/library"
	"capforge/internal/segments"
)

// VideoRecord is the wire form of a catalog entry.
type VideoRecord struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	FilePath         string    `json:"file_path"`
	StoragePath      string    `json:"storage_path"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CaptionRecord is the wire form of a caption set.
type CaptionRecord struct {
	ID        string             `json:"id"`
	VideoID   string             `json:"video_id"`
	Captions  []segments.Caption `json:"captions"`
	Style     string             `json:"style"`
	Language  string             `json:"language"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ExportRecord is the wire form of a render export.
type ExportRecord struct {
	ID           string    `json:"id"`
	VideoID      string    `json:"video_id"`
	CaptionID    string    `json:"caption_id"`
	Status       string    `json:"status"`
	FilePath     string    `json:"file_path"`
	ErrorMessage string    `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func fromVideo(video *library.Video) VideoRecord {
	if video == nil {
		return VideoRecord{}
	}
	return VideoRecord{
		ID:               video.ID,
		OriginalFilename: video.OriginalFilename,
		FilePath:         video.FilePath,
		StoragePath:      video.StoragePath,
		Status:           string(video.Status),
		CreatedAt:        video.CreatedAt,
		UpdatedAt:        video.UpdatedAt,
	}
}

func fromCaptionSet(set *library.CaptionSet) CaptionRecord {
	if set == nil {
		return CaptionRecord{}
	}
	return CaptionRecord{
		ID:        set.ID,
		VideoID:   set.VideoID,
		Captions:  set.Captions,
		Style:     string(set.Style),
		Language:  set.Language,
		CreatedAt: set.CreatedAt,
		UpdatedAt: set.UpdatedAt,
	}
}

func fromExport(export *library.Export) ExportRecord {
	if export == nil {
		return ExportRecord{}
	}
	return ExportRecord{
		ID:           export.ID,
		VideoID:      export.VideoID,
		CaptionID:    export.CaptionID,
		Status:       string(export.Status),
		FilePath:     export.FilePath,
		ErrorMessage: export.ErrorMessage,
		CreatedAt:    export.CreatedAt,
		UpdatedAt:    export.UpdatedAt,
	}
}

type PingRequest struct{}

type PingResponse struct {
	Running bool   `json:"running"`
	PID     int    `json:"pid"`
	Socket  string `json:"socket"`
}

type VideoListRequest struct{}

type VideoListResponse struct {
	Videos []VideoRecord `json:"videos"`
}

type VideoAddRequest struct {
	Path string `json:"path"`
}

type VideoAddResponse struct {
	Video VideoRecord `json:"video"`
}

type VideoDeleteRequest struct {
	VideoID string `json:"video_id"`
}

type VideoDeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type CaptionsGenerateRequest struct {
	VideoID  string `json:"video_id"`
	Language string `json:"language"`
}

type CaptionsGenerateResponse struct {
	CaptionID string             `json:"caption_id"`
	Captions  []segments.Caption `json:"captions"`
	Language  string             `json:"language"`
	Duration  float64            `json:"duration"`
}

type CaptionsSaveRequest struct {
	VideoID   string             `json:"video_id"`
	CaptionID string             `json:"caption_id"`
	Captions  []segments.Caption `json:"captions"`
}

type CaptionsSaveResponse struct {
	Captions CaptionRecord `json:"captions"`
}

type CaptionsShowRequest struct {
	VideoID string `json:"video_id"`
}

type CaptionsShowResponse struct {
	Captions CaptionRecord `json:"captions"`
}

type RenderRequest struct {
	VideoID   string             `json:"video_id"`
	CaptionID string             `json:"caption_id"`
	Captions  []segments.Caption `json:"captions"`
	Style     string             `json:"style"`
}

type RenderResponse struct {
	Export ExportRecord `json:"export"`
}

type ExportListRequest struct {
	VideoID string `json:"video_id"`
}

type ExportListResponse struct {
	Exports []ExportRecord `json:"exports"`
}
