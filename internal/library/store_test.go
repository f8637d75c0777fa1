package library_test

import (
	"context"
	"errors"
	"testing"

	"capforge/internal/library"
	"capforge/internal/segments"
	"capforge/internal/services"
	"capforge/internal/testsupport"
)

func TestNewVideoAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	video, err := store.NewVideo(ctx, "clip.mp4", "/uploads/clip.mp4", "videos/clip.mp4")
	if err != nil {
		t.Fatalf("NewVideo: %v", err)
	}
	if video.ID == "" {
		t.Fatal("expected video id to be assigned")
	}
	if video.Status != library.VideoUploaded {
		t.Fatalf("expected uploaded status, got %s", video.Status)
	}

	fetched, err := store.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if fetched == nil || fetched.OriginalFilename != "clip.mp4" {
		t.Fatalf("unexpected fetched video: %#v", fetched)
	}
}

func TestNewVideoRequiresFilename(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.NewVideo(context.Background(), "  ", "/x", ""); err == nil {
		t.Fatal("expected error when filename missing")
	}
}

func TestGetVideoUnknownReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	video, err := store.GetVideo(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if video != nil {
		t.Fatalf("expected nil for unknown id, got %#v", video)
	}
}

func TestVideoStatusTransitions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	video := testsupport.NewVideo(t, store, "clip.mp4")

	for _, status := range []library.VideoStatus{
		library.VideoTranscribing,
		library.VideoTranscribed,
		library.VideoError,
	} {
		if err := store.UpdateVideoStatus(ctx, video.ID, status); err != nil {
			t.Fatalf("UpdateVideoStatus(%s): %v", status, err)
		}
		fetched, err := store.GetVideo(ctx, video.ID)
		if err != nil {
			t.Fatalf("GetVideo: %v", err)
		}
		if fetched.Status != status {
			t.Fatalf("expected status %s, got %s", status, fetched.Status)
		}
	}

	if err := store.UpdateVideoStatus(ctx, video.ID, library.VideoStatus("bogus")); err == nil {
		t.Fatal("expected error for unknown status")
	}
	err := store.UpdateVideoStatus(ctx, "missing", library.VideoError)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unknown video id, got %v", err)
	}
}

func TestListVideosNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	first := testsupport.NewVideo(t, store, "first.mp4")
	second := testsupport.NewVideo(t, store, "second.mp4")

	videos, err := store.ListVideos(context.Background())
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	if videos[0].ID != second.ID || videos[1].ID != first.ID {
		t.Fatalf("expected newest first, got %s then %s", videos[0].OriginalFilename, videos[1].OriginalFilename)
	}
}

func sampleCaptions() []segments.Caption {
	return []segments.Caption{
		{ID: 1, Start: 0, End: 4.2, Text: "hello there"},
		{ID: 2, Start: 4.2, End: 8, Text: "general caption"},
	}
}

func TestCaptionSetRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	video := testsupport.NewVideo(t, store, "clip.mp4")

	set, err := store.SaveCaptionSet(ctx, video.ID, sampleCaptions(), library.StyleBottom, "en")
	if err != nil {
		t.Fatalf("SaveCaptionSet: %v", err)
	}

	fetched, err := store.GetCaptionSet(ctx, set.ID)
	if err != nil {
		t.Fatalf("GetCaptionSet: %v", err)
	}
	if fetched == nil || len(fetched.Captions) != 2 {
		t.Fatalf("unexpected caption set: %#v", fetched)
	}
	if fetched.Captions[1].Text != "general caption" {
		t.Fatalf("caption data corrupted: %#v", fetched.Captions)
	}
	if fetched.Style != library.StyleBottom || fetched.Language != "en" {
		t.Fatalf("metadata lost: %#v", fetched)
	}
}

func TestUpdateCaptionData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	video := testsupport.NewVideo(t, store, "clip.mp4")

	set, err := store.SaveCaptionSet(ctx, video.ID, sampleCaptions(), library.StyleBottom, "en")
	if err != nil {
		t.Fatalf("SaveCaptionSet: %v", err)
	}

	edited := []segments.Caption{{ID: 1, Start: 0, End: 8, Text: "edited text"}}
	updated, err := store.UpdateCaptionData(ctx, set.ID, edited)
	if err != nil {
		t.Fatalf("UpdateCaptionData: %v", err)
	}
	if len(updated.Captions) != 1 || updated.Captions[0].Text != "edited text" {
		t.Fatalf("update not applied: %#v", updated.Captions)
	}
	if updated.VideoID != video.ID {
		t.Fatalf("ownership changed: %s", updated.VideoID)
	}

	if _, err := store.UpdateCaptionData(ctx, "missing", edited); err == nil {
		t.Fatal("expected error for unknown caption set")
	}
}

func TestLatestCaptionSetWins(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	video := testsupport.NewVideo(t, store, "clip.mp4")

	if _, err := store.SaveCaptionSet(ctx, video.ID, sampleCaptions(), library.StyleBottom, "en"); err != nil {
		t.Fatalf("SaveCaptionSet: %v", err)
	}
	newest, err := store.SaveCaptionSet(ctx, video.ID,
		[]segments.Caption{{ID: 1, Start: 0, End: 2, Text: "newest"}}, library.StyleTop, "hi")
	if err != nil {
		t.Fatalf("SaveCaptionSet: %v", err)
	}

	latest, err := store.LatestCaptionSet(ctx, video.ID)
	if err != nil {
		t.Fatalf("LatestCaptionSet: %v", err)
	}
	if latest == nil || latest.ID != newest.ID {
		t.Fatalf("expected newest caption set, got %#v", latest)
	}

	none, err := store.LatestCaptionSet(ctx, "no-video")
	if err != nil {
		t.Fatalf("LatestCaptionSet: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil for video without captions, got %#v", none)
	}
}

func TestExportLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	video := testsupport.NewVideo(t, store, "clip.mp4")

	export, err := store.NewExport(ctx, video.ID, "caption-set-id")
	if err != nil {
		t.Fatalf("NewExport: %v", err)
	}
	if export.Status != library.ExportQueued {
		t.Fatalf("expected queued, got %s", export.Status)
	}

	if err := store.UpdateExportStatus(ctx, export.ID, library.ExportRendering, ""); err != nil {
		t.Fatalf("UpdateExportStatus: %v", err)
	}
	if err := store.CompleteExport(ctx, export.ID, "/exports/out.mp4", "exports/out.mp4"); err != nil {
		t.Fatalf("CompleteExport: %v", err)
	}

	fetched, err := store.GetExport(ctx, export.ID)
	if err != nil {
		t.Fatalf("GetExport: %v", err)
	}
	if fetched.Status != library.ExportCompleted || fetched.FilePath != "/exports/out.mp4" {
		t.Fatalf("unexpected export: %#v", fetched)
	}
	if !fetched.Status.IsTerminal() {
		t.Fatal("completed should be terminal")
	}
}

func TestExportFailureKeepsMessage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	video := testsupport.NewVideo(t, store, "clip.mp4")

	export, err := store.NewExport(ctx, video.ID, "")
	if err != nil {
		t.Fatalf("NewExport: %v", err)
	}
	if err := store.UpdateExportStatus(ctx, export.ID, library.ExportFailed, "engine crashed"); err != nil {
		t.Fatalf("UpdateExportStatus: %v", err)
	}

	fetched, err := store.GetExport(ctx, export.ID)
	if err != nil {
		t.Fatalf("GetExport: %v", err)
	}
	if fetched.ErrorMessage != "engine crashed" {
		t.Fatalf("expected error message preserved, got %q", fetched.ErrorMessage)
	}

	// A later non-failed transition clears the message.
	if err := store.UpdateExportStatus(ctx, export.ID, library.ExportQueued, "stale"); err != nil {
		t.Fatalf("UpdateExportStatus: %v", err)
	}
	fetched, err = store.GetExport(ctx, export.ID)
	if err != nil {
		t.Fatalf("GetExport: %v", err)
	}
	if fetched.ErrorMessage != "" {
		t.Fatalf("expected message cleared, got %q", fetched.ErrorMessage)
	}
}

func TestDeleteVideoCascades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	video := testsupport.NewVideo(t, store, "clip.mp4")

	set, err := store.SaveCaptionSet(ctx, video.ID, sampleCaptions(), library.StyleBottom, "en")
	if err != nil {
		t.Fatalf("SaveCaptionSet: %v", err)
	}
	export, err := store.NewExport(ctx, video.ID, set.ID)
	if err != nil {
		t.Fatalf("NewExport: %v", err)
	}

	if err := store.DeleteVideo(ctx, video.ID); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}

	if got, err := store.GetCaptionSet(ctx, set.ID); err != nil || got != nil {
		t.Fatalf("expected caption set cascade-deleted, got %#v err=%v", got, err)
	}
	if got, err := store.GetExport(ctx, export.ID); err != nil || got != nil {
		t.Fatalf("expected export cascade-deleted, got %#v err=%v", got, err)
	}
}

func TestParseHelpers(t *testing.T) {
	if status, ok := library.ParseVideoStatus(" Transcribed "); !ok || status != library.VideoTranscribed {
		t.Fatalf("ParseVideoStatus failed: %v %v", status, ok)
	}
	if _, ok := library.ParseVideoStatus("nope"); ok {
		t.Fatal("expected unknown video status to fail")
	}
	if status, ok := library.ParseExportStatus("RENDERING"); !ok || status != library.ExportRendering {
		t.Fatalf("ParseExportStatus failed: %v %v", status, ok)
	}
	if style, ok := library.ParseCaptionStyle("Karaoke"); !ok || style != library.StyleKaraoke {
		t.Fatalf("ParseCaptionStyle failed: %v %v", style, ok)
	}
	if _, ok := library.ParseCaptionStyle("sideways"); ok {
		t.Fatal("expected unknown style to fail")
	}
}
