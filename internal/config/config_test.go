package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Paths.APIBind != defaultAPIBind {
		t.Fatalf("expected default bind, got %q", cfg.Paths.APIBind)
	}
	if cfg.Encode.VideoCodec != defaultVideoCodec {
		t.Fatalf("expected default codec, got %q", cfg.Encode.VideoCodec)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
asset_dir = "` + dir + `/assets"
staging_dir = "` + dir + `/staging"
data_dir = "` + dir + `/state"
log_dir = "` + dir + `/logs"
api_bind = " 0.0.0.0:9000 "

[assets]
template_video = "intro.mp4"
overlay_image = "card.png"

[render]
font_size = 72

[jobs]
cleanup_delay_seconds = 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved path %s, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Paths.APIBind != "0.0.0.0:9000" {
		t.Fatalf("expected trimmed bind, got %q", cfg.Paths.APIBind)
	}
	if cfg.Jobs.CleanupDelaySeconds != defaultCleanupDelaySeconds {
		t.Fatalf("expected cleanup delay backfill, got %d", cfg.Jobs.CleanupDelaySeconds)
	}
	if cfg.Encode.FFmpegBinary != defaultFFmpegBinary {
		t.Fatalf("expected ffmpeg backfill, got %q", cfg.Encode.FFmpegBinary)
	}
	if got := cfg.UserDBPath(); got != filepath.Join(dir, "state", "users.db") {
		t.Fatalf("unexpected user db path %q", got)
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[logging]
format = "xml"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}

func TestValidateRequiresAssets(t *testing.T) {
	cfg := Default()
	cfg.Assets.TemplateVideo = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing template video")
	}

	cfg = Default()
	cfg.Assets.OverlayImage = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing overlay image")
	}
}

func TestAssetPathResolution(t *testing.T) {
	cfg := Default()
	cfg.Paths.AssetDir = "/srv/arda/assets"
	cfg.Assets.TemplateVideo = "template.mp4"
	cfg.Assets.OverlayImage = "/absolute/frame.png"

	if got := cfg.TemplateVideoPath(); got != "/srv/arda/assets/template.mp4" {
		t.Fatalf("unexpected template path %q", got)
	}
	if got := cfg.OverlayImagePath(); got != "/absolute/frame.png" {
		t.Fatalf("absolute asset should pass through, got %q", got)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := ExpandPath("~/arda-test")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "arda-test") {
		t.Fatalf("unexpected expansion %q", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Render.FontSize != defaultFontSize {
		t.Fatalf("unexpected font size %v", cfg.Render.FontSize)
	}
}
