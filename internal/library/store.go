package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"capforge/internal/config"
	"capforge/internal/segments"
	"capforge/internal/services"
)

// Store manages lifecycle record persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the library database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "library.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseStamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// --- videos ---

// NewVideo inserts an uploaded video record and returns it.
func (s *Store) NewVideo(ctx context.Context, originalFilename, filePath, storagePath string) (*Video, error) {
	if strings.TrimSpace(originalFilename) == "" {
		return nil, errors.New("original filename required")
	}
	now := nowStamp()
	video := &Video{
		ID:               uuid.NewString(),
		OriginalFilename: originalFilename,
		FilePath:         filePath,
		StoragePath:      storagePath,
		Status:           VideoUploaded,
		CreatedAt:        parseStamp(now),
		UpdatedAt:        parseStamp(now),
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO videos (id, original_filename, file_path, storage_path, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		video.ID, video.OriginalFilename, video.FilePath, video.StoragePath, string(video.Status), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}
	return video, nil
}

const videoColumns = "id, original_filename, file_path, storage_path, status, created_at, updated_at"

func scanVideo(row interface{ Scan(...any) error }) (*Video, error) {
	var video Video
	var status, createdAt, updatedAt string
	if err := row.Scan(&video.ID, &video.OriginalFilename, &video.FilePath, &video.StoragePath,
		&status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	video.Status = VideoStatus(status)
	video.CreatedAt = parseStamp(createdAt)
	video.UpdatedAt = parseStamp(updatedAt)
	return &video, nil
}

// GetVideo fetches a video by id. Returns nil when the id is unknown.
func (s *Store) GetVideo(ctx context.Context, id string) (*Video, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+videoColumns+" FROM videos WHERE id = ?", id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// ListVideos returns all videos, newest first.
func (s *Store) ListVideos(ctx context.Context) ([]*Video, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+videoColumns+" FROM videos ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

// UpdateVideoStatus transitions a video to the given status.
func (s *Store) UpdateVideoStatus(ctx context.Context, id string, status VideoStatus) error {
	if _, ok := videoStatuses[status]; !ok {
		return fmt.Errorf("unknown video status %q", status)
	}
	res, err := s.execWithRetry(ctx,
		"UPDATE videos SET status = ?, updated_at = ? WHERE id = ?",
		string(status), nowStamp(), id)
	if err != nil {
		return fmt.Errorf("update video status: %w", err)
	}
	return requireRow(res, "video", id)
}

// DeleteVideo removes a video row. Caption sets and exports cascade.
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return requireRow(res, "video", id)
}

// --- caption sets ---

const captionColumns = "id, video_id, caption_data, style, language, created_at, updated_at"

// SaveCaptionSet inserts a new caption set for a video.
func (s *Store) SaveCaptionSet(ctx context.Context, videoID string, captions []segments.Caption, style CaptionStyle, languageCode string) (*CaptionSet, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, errors.New("video id required")
	}
	data, err := json.Marshal(captions)
	if err != nil {
		return nil, fmt.Errorf("encode captions: %w", err)
	}
	now := nowStamp()
	set := &CaptionSet{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		Captions:  captions,
		Style:     style,
		Language:  languageCode,
		CreatedAt: parseStamp(now),
		UpdatedAt: parseStamp(now),
	}
	_, err = s.execWithRetry(ctx,
		`INSERT INTO captions (id, video_id, caption_data, style, language, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		set.ID, set.VideoID, string(data), string(set.Style), set.Language, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert caption set: %w", err)
	}
	return set, nil
}

// UpdateCaptionData replaces the segments of an existing caption set.
func (s *Store) UpdateCaptionData(ctx context.Context, id string, captions []segments.Caption) (*CaptionSet, error) {
	data, err := json.Marshal(captions)
	if err != nil {
		return nil, fmt.Errorf("encode captions: %w", err)
	}
	res, err := s.execWithRetry(ctx,
		"UPDATE captions SET caption_data = ?, updated_at = ? WHERE id = ?",
		string(data), nowStamp(), id)
	if err != nil {
		return nil, fmt.Errorf("update caption data: %w", err)
	}
	if err := requireRow(res, "caption set", id); err != nil {
		return nil, err
	}
	return s.GetCaptionSet(ctx, id)
}

func scanCaptionSet(row interface{ Scan(...any) error }) (*CaptionSet, error) {
	var set CaptionSet
	var data, style, createdAt, updatedAt string
	if err := row.Scan(&set.ID, &set.VideoID, &data, &style, &set.Language, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &set.Captions); err != nil {
		return nil, fmt.Errorf("decode captions for %s: %w", set.ID, err)
	}
	set.Style = CaptionStyle(style)
	set.CreatedAt = parseStamp(createdAt)
	set.UpdatedAt = parseStamp(updatedAt)
	return &set, nil
}

// GetCaptionSet fetches a caption set by id. Returns nil when unknown.
func (s *Store) GetCaptionSet(ctx context.Context, id string) (*CaptionSet, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+captionColumns+" FROM captions WHERE id = ?", id)
	set, err := scanCaptionSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get caption set: %w", err)
	}
	return set, nil
}

// CaptionSetsForVideo returns all caption sets for a video, newest first.
func (s *Store) CaptionSetsForVideo(ctx context.Context, videoID string) ([]*CaptionSet, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+captionColumns+" FROM captions WHERE video_id = ? ORDER BY created_at DESC, rowid DESC", videoID)
	if err != nil {
		return nil, fmt.Errorf("list caption sets: %w", err)
	}
	defer rows.Close()

	var sets []*CaptionSet
	for rows.Next() {
		set, err := scanCaptionSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan caption set: %w", err)
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

// LatestCaptionSet returns the most recent caption set for a video, or nil.
func (s *Store) LatestCaptionSet(ctx context.Context, videoID string) (*CaptionSet, error) {
	sets, err := s.CaptionSetsForVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, nil
	}
	return sets[0], nil
}

// --- exports ---

const exportColumns = "id, video_id, caption_id, status, file_path, storage_path, error_message, created_at, updated_at"

// NewExport inserts a queued export record.
func (s *Store) NewExport(ctx context.Context, videoID, captionID string) (*Export, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, errors.New("video id required")
	}
	now := nowStamp()
	export := &Export{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		CaptionID: captionID,
		Status:    ExportQueued,
		CreatedAt: parseStamp(now),
		UpdatedAt: parseStamp(now),
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO exports (id, video_id, caption_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		export.ID, export.VideoID, export.CaptionID, string(export.Status), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert export: %w", err)
	}
	return export, nil
}

func scanExport(row interface{ Scan(...any) error }) (*Export, error) {
	var export Export
	var status, createdAt, updatedAt string
	if err := row.Scan(&export.ID, &export.VideoID, &export.CaptionID, &status,
		&export.FilePath, &export.StoragePath, &export.ErrorMessage, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	export.Status = ExportStatus(status)
	export.CreatedAt = parseStamp(createdAt)
	export.UpdatedAt = parseStamp(updatedAt)
	return &export, nil
}

// GetExport fetches an export by id. Returns nil when unknown.
func (s *Store) GetExport(ctx context.Context, id string) (*Export, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+exportColumns+" FROM exports WHERE id = ?", id)
	export, err := scanExport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get export: %w", err)
	}
	return export, nil
}

// ExportsForVideo returns all exports for a video, newest first.
func (s *Store) ExportsForVideo(ctx context.Context, videoID string) ([]*Export, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+exportColumns+" FROM exports WHERE video_id = ? ORDER BY created_at DESC, rowid DESC", videoID)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var exports []*Export
	for rows.Next() {
		export, err := scanExport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		exports = append(exports, export)
	}
	return exports, rows.Err()
}

// UpdateExportStatus transitions an export; errorMessage is recorded for
// failed transitions and cleared otherwise.
func (s *Store) UpdateExportStatus(ctx context.Context, id string, status ExportStatus, errorMessage string) error {
	if _, ok := exportStatuses[status]; !ok {
		return fmt.Errorf("unknown export status %q", status)
	}
	if status != ExportFailed {
		errorMessage = ""
	}
	res, err := s.execWithRetry(ctx,
		"UPDATE exports SET status = ?, error_message = ?, updated_at = ? WHERE id = ?",
		string(status), errorMessage, nowStamp(), id)
	if err != nil {
		return fmt.Errorf("update export status: %w", err)
	}
	return requireRow(res, "export", id)
}

// CompleteExport records the artifact location and marks the export
// completed.
func (s *Store) CompleteExport(ctx context.Context, id, filePath, storagePath string) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE exports SET status = ?, file_path = ?, storage_path = ?, error_message = '', updated_at = ?
		 WHERE id = ?`,
		string(ExportCompleted), filePath, storagePath, nowStamp(), id)
	if err != nil {
		return fmt.Errorf("complete export: %w", err)
	}
	return requireRow(res, "export", id)
}

func requireRow(res sql.Result, kind, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "library", kind, id, nil)
	}
	return nil
}
