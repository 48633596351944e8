package assets

import (
	"strings"
	"testing"

	"arda/internal/testsupport"
)

func TestNewResolverValidatesAssets(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	if _, err := NewResolver(cfg); err == nil {
		t.Fatal("expected error when assets are missing")
	}

	testsupport.WriteFile(t, cfg.TemplateVideoPath(), []byte("video"))
	if _, err := NewResolver(cfg); err == nil || !strings.Contains(err.Error(), "overlay image") {
		t.Fatalf("expected overlay image error, got %v", err)
	}

	testsupport.WriteFile(t, cfg.OverlayImagePath(), []byte("png"))
	resolver, err := NewResolver(cfg)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if resolver.TemplateVideo() != cfg.TemplateVideoPath() {
		t.Fatalf("unexpected template path %q", resolver.TemplateVideo())
	}
	if resolver.OverlayImage() != cfg.OverlayImagePath() {
		t.Fatalf("unexpected overlay path %q", resolver.OverlayImage())
	}
}

func TestNewResolverRejectsEmptyFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, cfg.TemplateVideoPath(), nil)
	testsupport.WriteFile(t, cfg.OverlayImagePath(), []byte("png"))

	if _, err := NewResolver(cfg); err == nil {
		t.Fatal("expected error for empty template video")
	}
}
