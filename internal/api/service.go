package api

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"capforge/internal/config"
	"capforge/internal/library"
	"capforge/internal/logging"
	"capforge/internal/render"
	"capforge/internal/segments"
	"capforge/internal/services"
	"capforge/internal/storage"
	"capforge/internal/transcribe"
)

// Transcriber produces caption segments from a local media file.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath, languageHint string) (*transcribe.Result, error)
}

// Renderer burns captions into a video file.
type Renderer interface {
	Render(ctx context.Context, req render.Request) (render.Artifact, error)
}

// CaptionResult is the outcome of a caption generation run.
type CaptionResult struct {
	CaptionID string
	Captions  []segments.Caption
	Language  string
	Duration  float64
}

// Service exposes capforge's operations over the store and clients.
type Service struct {
	cfg         *config.Config
	store       *library.Store
	objects     storage.Store
	transcriber Transcriber
	renderer    Renderer
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTranscriber replaces the transcription client (for testing).
func WithTranscriber(t Transcriber) Option {
	return func(s *Service) {
		if t != nil {
			s.transcriber = t
		}
	}
}

// WithRenderer replaces the render orchestrator (for testing).
func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// NewService wires the facade from configuration and shared collaborators.
func NewService(cfg *config.Config, store *library.Store, objects storage.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		cfg:         cfg,
		store:       store,
		objects:     objects,
		transcriber: transcribe.New(cfg.Scribe, logger),
		renderer:    render.NewOrchestrator(cfg, logger),
		logger:      logging.NewComponentLogger(logger, "api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddVideo copies a local media file into object storage and registers it
// in the catalog.
func (s *Service) AddVideo(ctx context.Context, localPath string) (*library.Video, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, services.Wrap(services.ErrMedia, "api", "read media", localPath, err)
	}

	ext := filepath.Ext(localPath)
	storagePath := "uploads/" + uuid.NewString() + ext
	ref, err := s.objects.Upload(ctx, storagePath, data, mime.TypeByExtension(ext))
	if err != nil {
		return nil, services.Wrap(services.ErrMedia, "api", "store media", localPath, err)
	}

	video, err := s.store.NewVideo(ctx, filepath.Base(localPath), s.objects.PublicURL(ref), ref)
	if err != nil {
		return nil, fmt.Errorf("register video: %w", err)
	}
	s.logger.Info("video added",
		logging.String("video_id", video.ID),
		logging.String("file", video.OriginalFilename),
		logging.Int("bytes", len(data)))
	return video, nil
}

// GenerateCaptions transcribes a video's media and persists the resulting
// caption set. The video transitions uploaded/transcribed -> transcribing
// -> transcribed, or to error when transcription fails.
func (s *Service) GenerateCaptions(ctx context.Context, videoID, languageHint string) (*CaptionResult, error) {
	ctx = services.WithVideoID(ctx, videoID)
	video, err := s.requireVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	data, err := s.objects.Download(ctx, video.StoragePath)
	if err != nil {
		return nil, services.Wrap(services.ErrMedia, "api", "download media", video.StoragePath, err)
	}

	tempPath, err := s.stageMedia(video, data)
	if err != nil {
		return nil, err
	}
	defer func() {
		if removeErr := os.Remove(tempPath); removeErr != nil && !os.IsNotExist(removeErr) {
			s.logger.Warn("stale staging file", logging.String("path", tempPath), logging.Error(removeErr))
		}
	}()

	if err := s.store.UpdateVideoStatus(ctx, videoID, library.VideoTranscribing); err != nil {
		return nil, fmt.Errorf("mark transcribing: %w", err)
	}

	result, err := s.transcriber.Transcribe(ctx, tempPath, languageHint)
	if err != nil {
		if statusErr := s.store.UpdateVideoStatus(ctx, videoID, library.VideoError); statusErr != nil {
			s.logger.Warn("record transcription failure", logging.String("video_id", videoID), logging.Error(statusErr))
		}
		return nil, err
	}

	captions := segments.Resplit(result.Captions, s.cfg.Scribe.MaxSegmentSeconds)
	set, err := s.store.SaveCaptionSet(ctx, videoID, captions, library.StyleBottom, result.Language)
	if err != nil {
		return nil, fmt.Errorf("save caption set: %w", err)
	}
	if err := s.store.UpdateVideoStatus(ctx, videoID, library.VideoTranscribed); err != nil {
		return nil, fmt.Errorf("mark transcribed: %w", err)
	}

	s.logger.Info("captions generated",
		logging.String("video_id", videoID),
		logging.String("caption_id", set.ID),
		logging.Int("segments", len(captions)),
		logging.String("language", result.Language))
	return &CaptionResult{
		CaptionID: set.ID,
		Captions:  captions,
		Language:  result.Language,
		Duration:  result.Duration,
	}, nil
}

// stageMedia writes the downloaded media to a request-scoped temp file the
// transcription client can read.
func (s *Service) stageMedia(video *library.Video, data []byte) (string, error) {
	if err := os.MkdirAll(s.cfg.Paths.StagingDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrMedia, "api", "prepare staging", s.cfg.Paths.StagingDir, err)
	}
	file, err := os.CreateTemp(s.cfg.Paths.StagingDir, "transcribe-*"+filepath.Ext(video.OriginalFilename))
	if err != nil {
		return "", services.Wrap(services.ErrMedia, "api", "stage media", video.ID, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", services.Wrap(services.ErrMedia, "api", "stage media", video.ID, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", services.Wrap(services.ErrMedia, "api", "stage media", video.ID, err)
	}
	return file.Name(), nil
}

// SaveCaptions upserts a caption set: updates the existing set when
// captionID is supplied, inserts a fresh one otherwise.
func (s *Service) SaveCaptions(ctx context.Context, videoID string, captions []segments.Caption, captionID string) (*library.CaptionSet, error) {
	if _, err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(captionID) != "" {
		existing, err := s.store.GetCaptionSet(ctx, captionID)
		if err != nil {
			return nil, err
		}
		if existing == nil || existing.VideoID != videoID {
			return nil, services.Wrap(services.ErrNotFound, "api", "caption set", captionID, nil)
		}
		return s.store.UpdateCaptionData(ctx, captionID, captions)
	}
	return s.store.SaveCaptionSet(ctx, videoID, captions, library.StyleBottom, "")
}

// LoadCaptions returns the most recent caption set for a video.
func (s *Service) LoadCaptions(ctx context.Context, videoID string) (*library.CaptionSet, error) {
	if _, err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}
	set, err := s.store.LatestCaptionSet(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "captions for video", videoID, nil)
	}
	return set, nil
}

// RenderExport renders captions into a video and records the export
// lifecycle: queued -> rendering -> completed or failed.
func (s *Service) RenderExport(ctx context.Context, videoID string, captions []segments.Caption, style, captionID string) (*library.Export, error) {
	ctx = services.WithVideoID(ctx, videoID)
	video, err := s.requireVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	captionStyle := library.StyleBottom
	if strings.TrimSpace(style) != "" {
		parsed, ok := library.ParseCaptionStyle(style)
		if !ok {
			return nil, services.Wrap(services.ErrConfiguration, "api", "render", "unknown caption style "+style, nil)
		}
		captionStyle = parsed
	}

	if len(captions) == 0 {
		set, err := s.LoadCaptions(ctx, videoID)
		if err != nil {
			return nil, err
		}
		captions = set.Captions
		if captionID == "" {
			captionID = set.ID
		}
	}

	export, err := s.store.NewExport(ctx, videoID, captionID)
	if err != nil {
		return nil, fmt.Errorf("create export: %w", err)
	}
	if err := s.store.UpdateExportStatus(ctx, export.ID, library.ExportRendering, ""); err != nil {
		return nil, fmt.Errorf("mark rendering: %w", err)
	}

	outputPath := filepath.Join(s.cfg.Render.OutputDir, export.ID+".mp4")
	artifact, err := s.renderer.Render(ctx, render.Request{
		VideoURL:   s.objects.PublicURL(video.StoragePath),
		Captions:   captions,
		Style:      string(captionStyle),
		OutputPath: outputPath,
	})
	if err != nil {
		if statusErr := s.store.UpdateExportStatus(ctx, export.ID, library.ExportFailed, err.Error()); statusErr != nil {
			s.logger.Warn("record export failure", logging.String("export_id", export.ID), logging.Error(statusErr))
		}
		return nil, err
	}

	if err := s.store.CompleteExport(ctx, export.ID, artifact.OutputPath, ""); err != nil {
		return nil, fmt.Errorf("complete export: %w", err)
	}
	s.logger.Info("export complete",
		logging.String("export_id", export.ID),
		logging.String("output", artifact.OutputPath),
		logging.Float64("render_seconds", artifact.RenderSeconds))
	return s.store.GetExport(ctx, export.ID)
}

// ListVideos returns the catalog, newest first.
func (s *Service) ListVideos(ctx context.Context) ([]*library.Video, error) {
	return s.store.ListVideos(ctx)
}

// ListExports returns a video's exports, newest first.
func (s *Service) ListExports(ctx context.Context, videoID string) ([]*library.Export, error) {
	if _, err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}
	return s.store.ExportsForVideo(ctx, videoID)
}

// DeleteVideo removes a video, its caption sets, and its exports. The
// storage object is deleted best-effort; a storage failure is logged and
// the record still goes away.
func (s *Service) DeleteVideo(ctx context.Context, videoID string) error {
	video, err := s.requireVideo(ctx, videoID)
	if err != nil {
		return err
	}
	if video.StoragePath != "" {
		if err := s.objects.Delete(ctx, video.StoragePath); err != nil {
			s.logger.Warn("storage object not removed",
				logging.String("video_id", videoID),
				logging.String("path", video.StoragePath),
				logging.Error(err))
		}
	}
	if err := s.store.DeleteVideo(ctx, videoID); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	s.logger.Info("video deleted", logging.String("video_id", videoID))
	return nil
}

func (s *Service) requireVideo(ctx context.Context, videoID string) (*library.Video, error) {
	video, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "video", videoID, nil)
	}
	return video, nil
}
