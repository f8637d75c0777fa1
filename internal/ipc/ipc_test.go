package ipc_test

import (
	"context"
	"strings"
	"testing"

	"capforge/internal/api"
	"capforge/internal/ipc"
	"capforge/internal/logging"
	"capforge/internal/render"
	"capforge/internal/segments"
	"capforge/internal/storage"
	"capforge/internal/testsupport"
	"capforge/internal/transcribe"
)

type fakeTranscriber struct {
	result *transcribe.Result
	err    error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, mediaPath, languageHint string) (*transcribe.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeRenderer struct{}

func (f *fakeRenderer) Render(ctx context.Context, req render.Request) (render.Artifact, error) {
	return render.Artifact{OutputPath: req.OutputPath, DurationSeconds: 5, RenderSeconds: 1}, nil
}

func startServer(t *testing.T) (*ipc.Client, string) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	objects := storage.NewDisk(cfg.Paths.UploadDir)
	svc := api.NewService(cfg, store, objects, logging.NewNop(),
		api.WithTranscriber(&fakeTranscriber{result: &transcribe.Result{
			Captions: []segments.Caption{{ID: 1, Start: 0, End: 2, Text: "hello world"}},
			Language: "en",
			Duration: 2,
		}}),
		api.WithRenderer(&fakeRenderer{}))

	ctx, cancel := context.WithCancel(context.Background())
	server, err := ipc.NewServer(ctx, cfg.Paths.SocketPath, svc, logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	server.Serve()
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	client, err := ipc.Dial(cfg.Paths.SocketPath)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	mediaPath := testsupport.WriteFile(t, t.TempDir(), "clip.mp4", []byte("media"))
	return client, mediaPath
}

func TestPing(t *testing.T) {
	client, _ := startServer(t)
	resp, err := client.Ping()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if !resp.Running || resp.PID <= 0 {
		t.Fatalf("unexpected ping response %+v", resp)
	}
}

func TestVideoLifecycleOverSocket(t *testing.T) {
	client, mediaPath := startServer(t)

	added, err := client.VideoAdd(mediaPath)
	if err != nil {
		t.Fatalf("VideoAdd: %v", err)
	}
	if added.Video.ID == "" || added.Video.Status != "uploaded" {
		t.Fatalf("unexpected video %+v", added.Video)
	}

	list, err := client.VideoList()
	if err != nil {
		t.Fatalf("VideoList: %v", err)
	}
	if len(list.Videos) != 1 || list.Videos[0].ID != added.Video.ID {
		t.Fatalf("unexpected listing %+v", list.Videos)
	}

	deleted, err := client.VideoDelete(added.Video.ID)
	if err != nil {
		t.Fatalf("VideoDelete: %v", err)
	}
	if !deleted.Deleted {
		t.Fatal("expected deletion confirmation")
	}
	list, err = client.VideoList()
	if err != nil {
		t.Fatalf("VideoList: %v", err)
	}
	if len(list.Videos) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(list.Videos))
	}
}

func TestCaptionWorkflowOverSocket(t *testing.T) {
	client, mediaPath := startServer(t)

	added, err := client.VideoAdd(mediaPath)
	if err != nil {
		t.Fatalf("VideoAdd: %v", err)
	}

	generated, err := client.CaptionsGenerate(added.Video.ID, "en")
	if err != nil {
		t.Fatalf("CaptionsGenerate: %v", err)
	}
	if generated.CaptionID == "" || len(generated.Captions) == 0 || generated.Language != "en" {
		t.Fatalf("unexpected generation response %+v", generated)
	}

	edited := []segments.Caption{{ID: 1, Start: 0, End: 2, Text: "hello, edited"}}
	saved, err := client.CaptionsSave(added.Video.ID, generated.CaptionID, edited)
	if err != nil {
		t.Fatalf("CaptionsSave: %v", err)
	}
	if saved.Captions.ID != generated.CaptionID {
		t.Fatalf("expected in-place update, got %q", saved.Captions.ID)
	}

	shown, err := client.CaptionsShow(added.Video.ID)
	if err != nil {
		t.Fatalf("CaptionsShow: %v", err)
	}
	if shown.Captions.Captions[0].Text != "hello, edited" {
		t.Fatalf("edit not persisted: %+v", shown.Captions.Captions)
	}

	rendered, err := client.Render(ipc.RenderRequest{VideoID: added.Video.ID, Style: "top"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if rendered.Export.Status != "completed" || rendered.Export.FilePath == "" {
		t.Fatalf("unexpected export %+v", rendered.Export)
	}

	exports, err := client.ExportList(added.Video.ID)
	if err != nil {
		t.Fatalf("ExportList: %v", err)
	}
	if len(exports.Exports) != 1 {
		t.Fatalf("expected one export, got %d", len(exports.Exports))
	}
}

func TestErrorsCrossTheSocket(t *testing.T) {
	client, _ := startServer(t)

	_, err := client.CaptionsGenerate("no-such-video", "")
	if err == nil {
		t.Fatal("expected error for unknown video")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found detail, got %v", err)
	}

	if _, err := client.VideoAdd(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
