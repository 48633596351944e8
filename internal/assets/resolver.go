package assets

import (
	"fmt"
	"os"

	"arda/internal/config"
	"arda/internal/fileutil"
)

// Resolver hands the pipeline already-resolved template asset paths. It is
// constructed once at startup so missing assets fail the daemon early instead
// of surfacing per request.
type Resolver struct {
	templateVideo string
	overlayImage  string
}

// NewResolver validates the configured assets and returns a resolver for them.
func NewResolver(cfg *config.Config) (*Resolver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	video := cfg.TemplateVideoPath()
	if err := checkReadable(video, "template video"); err != nil {
		return nil, err
	}
	image := cfg.OverlayImagePath()
	if err := checkReadable(image, "overlay image"); err != nil {
		return nil, err
	}

	return &Resolver{templateVideo: video, overlayImage: image}, nil
}

// TemplateVideo returns the absolute path of the template video.
func (r *Resolver) TemplateVideo() string { return r.templateVideo }

// OverlayImage returns the absolute path of the overlay image.
func (r *Resolver) OverlayImage() string { return r.overlayImage }

func checkReadable(path, label string) error {
	if path == "" {
		return fmt.Errorf("%s is not configured", label)
	}
	if !fileutil.NonEmptyFile(path) {
		return fmt.Errorf("%s %q is missing or empty", label, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s %q is not readable: %w", label, path, err)
	}
	return file.Close()
}
