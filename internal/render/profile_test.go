package render_test

import (
	"testing"

	"capforge/internal/render"
)

func TestProductionProfileUsesSoftwareRendering(t *testing.T) {
	profile := render.ProfileFor(true)
	if profile.Concurrency != 2 {
		t.Fatalf("expected concurrency 2, got %d", profile.Concurrency)
	}
	if profile.GL != "swiftshader" {
		t.Fatalf("expected software GL, got %q", profile.GL)
	}
	if len(profile.ChromiumFlags) == 0 {
		t.Fatal("expected sandbox flags for headless servers")
	}
	sawNoSandbox := false
	for _, flag := range profile.ChromiumFlags {
		if flag == "--no-sandbox" {
			sawNoSandbox = true
		}
	}
	if !sawNoSandbox {
		t.Fatalf("expected --no-sandbox in %v", profile.ChromiumFlags)
	}
}

func TestDevelopmentProfileUsesHardwareRendering(t *testing.T) {
	profile := render.ProfileFor(false)
	if profile.Concurrency != 8 {
		t.Fatalf("expected concurrency 8, got %d", profile.Concurrency)
	}
	if profile.GL != "angle" {
		t.Fatalf("expected hardware GL, got %q", profile.GL)
	}
	if len(profile.ChromiumFlags) != 0 {
		t.Fatalf("did not expect chromium flags, got %v", profile.ChromiumFlags)
	}
}

func TestProfilesShareEncodingSettings(t *testing.T) {
	for _, production := range []bool{true, false} {
		profile := render.ProfileFor(production)
		if profile.Codec != "h264" {
			t.Fatalf("production=%v: expected h264, got %q", production, profile.Codec)
		}
		if profile.JPEGQuality != 80 {
			t.Fatalf("production=%v: expected jpeg quality 80, got %d", production, profile.JPEGQuality)
		}
		if profile.VideoBitrate != "5M" {
			t.Fatalf("production=%v: expected 5M bitrate, got %q", production, profile.VideoBitrate)
		}
		if profile.EveryNthFrame != 1 {
			t.Fatalf("production=%v: expected every frame, got %d", production, profile.EveryNthFrame)
		}
	}
}
