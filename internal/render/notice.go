package render

import (
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Fallback card dimensions when no frame could be extracted.
const (
	noticeWidth  = 800
	noticeHeight = 600
)

const noticeApology = "Sorry, we couldn't process your video"

// NoticeCard draws the static fallback artifact: an apology line plus the
// viewer's name, over the supplied frame when one was extracted, otherwise
// over a dark blank canvas.
func (r *Renderer) NoticeCard(frame image.Image, username string) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, noticeWidth, noticeHeight))
	if frame != nil {
		resize(canvas, frame)
		dim := image.NewUniform(color.RGBA{A: 150})
		draw.DrawMask(canvas, canvas.Bounds(), dim, image.Point{}, nil, image.Point{}, draw.Over)
	} else {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.RGBA{R: 24, G: 24, B: 32, A: 255}), image.Point{}, draw.Src)
	}

	r.drawCentered(canvas, noticeApology, noticeHeight/2-30)
	if username != "" {
		r.drawCentered(canvas, username, noticeHeight/2+40)
	}
	return canvas
}

// EncodeJPEG writes the notice card in the fallback artifact format.
func EncodeJPEG(writer io.Writer, img image.Image) error {
	return jpeg.Encode(writer, img, &jpeg.Options{Quality: 90})
}

func (r *Renderer) drawCentered(canvas *image.RGBA, text string, y int) {
	width, _ := r.measure(text)
	x := (canvas.Bounds().Dx() - width) / 2
	if x < 0 {
		x = 0
	}

	drawer := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.White),
		Face: r.face.Face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}
