package testsupport

import (
	"context"
	"testing"

	"capforge/internal/config"
	"capforge/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewVideo creates a video record for tests using the provided store.
func NewVideo(t testing.TB, store *library.Store, filename string) *library.Video {
	t.Helper()

	video, err := store.NewVideo(context.Background(), filename, "/uploads/"+filename, "videos/"+filename)
	if err != nil {
		t.Fatalf("store.NewVideo: %v", err)
	}
	return video
}
