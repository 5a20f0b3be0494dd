// Package compositor rasterizes the final downloadable image: the user
// photo positioned per its viewport transform, combined with the frame
// artwork, at one canonical output resolution.
package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"

	"framecraft-backend/internal/models"
	"framecraft-backend/internal/transform"
)

var (
	// ErrAssetLoad reports that a source image (frame artwork or user
	// photo) could not be fetched or decoded. Callers should prompt a
	// retry.
	ErrAssetLoad = errors.New("compositor: asset load failed")

	// ErrCanvasUnavailable reports that no output canvas could be
	// created. Distinct from ErrAssetLoad so callers can tell a
	// network/asset problem from an unusable canvas.
	ErrCanvasUnavailable = errors.New("compositor: output canvas unavailable")
)

// AssetLoader resolves frame template artwork.
type AssetLoader interface {
	LoadFrame(ctx context.Context, frame models.FrameTemplate) (image.Image, error)
}

// Renderer produces composites at a fixed output resolution, held constant
// for a deployment.
type Renderer struct {
	outW   int
	outH   int
	loader AssetLoader
}

func NewRenderer(outW, outH int, loader AssetLoader) *Renderer {
	return &Renderer{outW: outW, outH: outH, loader: loader}
}

// DrawRect re-projects the interactive viewport coordinate space onto an
// output canvas: it returns the top-left position and size of the photo's
// draw rectangle. Doubling the output/viewport ratio exactly doubles the
// draw size and the offset contribution.
func DrawRect(t transform.Snapshot, outW, outH int) (x, y, w, h float64) {
	canvasScaleX := float64(outW) / t.ViewportWidth
	canvasScaleY := float64(outH) / t.ViewportHeight
	w = t.DisplayedWidth * t.Scale * canvasScaleX
	h = t.DisplayedHeight * t.Scale * canvasScaleY
	centerX := float64(outW)/2 + t.Offset.X*canvasScaleX
	centerY := float64(outH)/2 + t.Offset.Y*canvasScaleY
	return centerX - w/2, centerY - h/2, w, h
}

// CoverRect fits a source of the given natural size over the full canvas,
// preserving aspect ratio and cropping overflow, centered.
func CoverRect(naturalW, naturalH, outW, outH int) (x, y, w, h float64) {
	ratio := math.Max(float64(outW)/float64(naturalW), float64(outH)/float64(naturalH))
	w = float64(naturalW) * ratio
	h = float64(naturalH) * ratio
	return (float64(outW) - w) / 2, (float64(outH) - h) / 2, w, h
}

// Render loads the frame artwork and the user photo, draws them onto the
// output canvas per the frame's declared layering, and encodes the result
// as PNG. Both loads must succeed before anything is drawn; there is no
// partial output. A nil snapshot draws the photo cover-fit; placements
// fully outside the canvas still render successfully.
func (r *Renderer) Render(ctx context.Context, frame models.FrameTemplate, photo []byte, t *transform.Snapshot) ([]byte, error) {
	if r.outW <= 0 || r.outH <= 0 {
		return nil, ErrCanvasUnavailable
	}

	frameImg, err := r.loader.LoadFrame(ctx, frame)
	if err != nil {
		return nil, err
	}
	photoImg, _, err := image.Decode(bytes.NewReader(photo))
	if err != nil {
		return nil, fmt.Errorf("%w: decode photo: %v", ErrAssetLoad, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.outW, r.outH))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)

	if frame.Layer == models.LayerBackdrop {
		r.drawFrame(dst, frameImg)
		r.drawPhoto(dst, photoImg, frame, t)
	} else {
		r.drawPhoto(dst, photoImg, frame, t)
		r.drawFrame(dst, frameImg)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode composite: %w", err)
	}
	return buf.Bytes(), nil
}

// drawFrame stretches the frame artwork over the full canvas.
func (r *Renderer) drawFrame(dst *image.RGBA, frameImg image.Image) {
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), frameImg, frameImg.Bounds(), xdraw.Over, nil)
}

func (r *Renderer) drawPhoto(dst *image.RGBA, photoImg image.Image, frame models.FrameTemplate, t *transform.Snapshot) {
	var x, y, w, h float64
	if t != nil && t.ViewportWidth > 0 && t.ViewportHeight > 0 {
		x, y, w, h = DrawRect(*t, r.outW, r.outH)
	} else {
		nb := photoImg.Bounds()
		x, y, w, h = CoverRect(nb.Dx(), nb.Dy(), r.outW, r.outH)
	}

	rect := image.Rect(round(x), round(y), round(x+w), round(y+h))
	if rect.Empty() {
		return
	}

	var opts *xdraw.Options
	if frame.IsCircularMask {
		radius := int(0.25 * math.Min(float64(r.outW), float64(r.outH)))
		opts = &xdraw.Options{
			DstMask: &circleMask{
				center: image.Pt(r.outW/2, r.outH/2),
				radius: radius,
				bounds: dst.Bounds(),
			},
		}
	}
	xdraw.CatmullRom.Scale(dst, rect, photoImg, photoImg.Bounds(), xdraw.Over, opts)
}

func round(v float64) int {
	return int(math.Round(v))
}

// circleMask is an alpha mask that is opaque inside a circle and fully
// transparent outside it.
type circleMask struct {
	center image.Point
	radius int
	bounds image.Rectangle
}

func (c *circleMask) ColorModel() color.Model { return color.AlphaModel }

func (c *circleMask) Bounds() image.Rectangle { return c.bounds }

func (c *circleMask) At(x, y int) color.Color {
	dx := float64(x - c.center.X)
	dy := float64(y - c.center.Y)
	if dx*dx+dy*dy <= float64(c.radius)*float64(c.radius) {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
