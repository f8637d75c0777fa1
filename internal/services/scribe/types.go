package scribe

import (
	"fmt"
	"strings"
)

// JobStatus is the normalized provider job state.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusError      JobStatus = "error"
)

// ParseJobStatus validates a provider-reported status.
func ParseJobStatus(value string) (JobStatus, error) {
	status := JobStatus(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case StatusQueued, StatusProcessing, StatusCompleted, StatusError:
		return status, nil
	default:
		return "", fmt.Errorf("unknown job status %q", value)
	}
}

// IsTerminal reports whether polling should stop.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Word is a provider word token with millisecond timing.
type Word struct {
	Text  string `json:"text"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

// Job is a validated snapshot of a transcription job.
type Job struct {
	ID            string
	Status        JobStatus
	Words         []Word
	Text          string
	LanguageCode  string
	AudioDuration float64
	Error         string
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type submitRequest struct {
	AudioURL     string `json:"audio_url"`
	SpeechModel  string `json:"speech_model,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

type jobPayload struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Words         []Word  `json:"words"`
	Text          string  `json:"text"`
	LanguageCode  string  `json:"language_code"`
	AudioDuration float64 `json:"audio_duration"`
	Error         string  `json:"error"`
}

func (p jobPayload) toJob() (Job, error) {
	if strings.TrimSpace(p.ID) == "" {
		return Job{}, fmt.Errorf("provider response missing job id")
	}
	status, err := ParseJobStatus(p.Status)
	if err != nil {
		return Job{}, err
	}
	return Job{
		ID:            p.ID,
		Status:        status,
		Words:         p.Words,
		Text:          p.Text,
		LanguageCode:  p.LanguageCode,
		AudioDuration: p.AudioDuration,
		Error:         p.Error,
	}, nil
}
