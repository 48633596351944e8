package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"arda/internal/config"
	"arda/internal/services"
)

// Renderer composes the personalized name card over a base image. It holds no
// file handles; callers decode inputs and encode outputs.
type Renderer struct {
	face *Face
}

// NewRenderer loads a font face from the configured candidate paths.
func NewRenderer(cfg *config.Config) *Renderer {
	return &Renderer{face: LoadFace(cfg.Render.FontPaths, cfg.Render.FontSize)}
}

// FaceSource reports which font backs the renderer, for startup logging.
func (r *Renderer) FaceSource() string {
	return r.face.Source
}

// DecodeBase decodes the overlay base image. Decode failures are the one
// non-recoverable render error and are surfaced to the caller.
func DecodeBase(reader io.Reader) (image.Image, error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "render", "decode base", "overlay base image is not decodable", err)
	}
	return img, nil
}

// Compose resizes base to target and draws text centered horizontally at
// three-quarters height, with an outline pass and a translucent plate behind
// the glyphs. Everything past decoding degrades instead of failing.
func (r *Renderer) Compose(base image.Image, text string, target image.Point) *image.RGBA {
	if target.X <= 0 || target.Y <= 0 {
		bounds := base.Bounds()
		target = image.Pt(bounds.Dx(), bounds.Dy())
	}

	canvas := image.NewRGBA(image.Rect(0, 0, target.X, target.Y))
	resize(canvas, base)

	if text == "" {
		return canvas
	}

	textWidth, textHeight := r.measure(text)
	x := (target.X - textWidth) / 2
	if x < 0 {
		x = 0
	}
	y := target.Y * 3 / 4

	r.drawPlate(canvas, x, y, textWidth, textHeight)
	r.drawText(canvas, text, x, y)
	return canvas
}

// EncodePNG writes img as PNG, the format the compositor feeds to ffmpeg.
func EncodePNG(writer io.Writer, img image.Image) error {
	if err := png.Encode(writer, img); err != nil {
		return fmt.Errorf("encode overlay png: %w", err)
	}
	return nil
}

func resize(dst *image.RGBA, src image.Image) {
	srcBounds := src.Bounds()
	if srcBounds.Dx() == dst.Bounds().Dx() && srcBounds.Dy() == dst.Bounds().Dy() {
		draw.Draw(dst, dst.Bounds(), src, srcBounds.Min, draw.Src)
		return
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, srcBounds, draw.Src, nil)
}

// measure returns text dimensions in pixels, falling back to a width heuristic
// when the face cannot measure the string.
func (r *Renderer) measure(text string) (int, int) {
	width := measureWidth(r.face.Face, text)
	if width <= 0 {
		return len(text) * 30, 50
	}
	metrics := r.face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	if height <= 0 {
		height = 50
	}
	return width, height
}

func measureWidth(face font.Face, text string) int {
	defer func() { _ = recover() }()
	drawer := font.Drawer{Face: face}
	return drawer.MeasureString(text).Ceil()
}

const platePadding = 20

func (r *Renderer) drawPlate(canvas *image.RGBA, x, y, width, height int) {
	ascent := r.face.Metrics().Ascent.Ceil()
	rect := image.Rect(
		x-platePadding,
		y-ascent-platePadding/2,
		x+width+platePadding,
		y+height-ascent+platePadding/2,
	).Intersect(canvas.Bounds())

	plate := image.NewUniform(color.RGBA{A: 128})
	draw.DrawMask(canvas, rect, plate, image.Point{}, nil, image.Point{}, draw.Over)
}

// outlineRadius is the offset grid half-width for the outline pass.
const outlineRadius = 2

func (r *Renderer) drawText(canvas *image.RGBA, text string, x, y int) {
	outline := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: r.face.Face,
	}
	for dx := -outlineRadius; dx <= outlineRadius; dx++ {
		for dy := -outlineRadius; dy <= outlineRadius; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			outline.Dot = fixed.P(x+dx, y+dy)
			outline.DrawString(text)
		}
	}

	fill := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.White),
		Face: r.face.Face,
		Dot:  fixed.P(x, y),
	}
	fill.DrawString(text)
}
