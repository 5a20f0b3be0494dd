package compositor_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"framecraft-backend/internal/compositor"
	"framecraft-backend/internal/models"
	"framecraft-backend/internal/transform"
)

type stubLoader struct {
	img image.Image
	err error
}

func (s *stubLoader) LoadFrame(ctx context.Context, frame models.FrameTemplate) (image.Image, error) {
	return s.img, s.err
}

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func transparentFrame(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestDrawRect_ReprojectsViewport(t *testing.T) {
	snap := transform.Snapshot{
		Scale:           1,
		DisplayedWidth:  250,
		DisplayedHeight: 250,
		ViewportWidth:   200,
		ViewportHeight:  250,
	}

	x, y, w, h := compositor.DrawRect(snap, 1000, 1250)
	assert.InDelta(t, 1250.0, w, 1e-9)
	assert.InDelta(t, 1250.0, h, 1e-9)
	assert.InDelta(t, -125.0, x, 1e-9)
	assert.InDelta(t, 0.0, y, 1e-9)
}

func TestDrawRect_OffsetScalesWithCanvas(t *testing.T) {
	snap := transform.Snapshot{
		Scale:           2,
		Offset:          transform.Offset{X: 10, Y: -20},
		DisplayedWidth:  100,
		DisplayedHeight: 100,
		ViewportWidth:   100,
		ViewportHeight:  100,
	}

	x1, y1, w1, _ := compositor.DrawRect(snap, 100, 100)
	x2, y2, w2, _ := compositor.DrawRect(snap, 200, 200)

	// Doubling the output resolution doubles every measurement.
	assert.InDelta(t, 2*w1, w2, 1e-9)
	centerX1 := x1 + w1/2
	centerX2 := x2 + w2/2
	assert.InDelta(t, 2*centerX1, centerX2, 1e-9)
	centerY1 := y1 + w1/2
	centerY2 := y2 + w2/2
	assert.InDelta(t, 2*centerY1, centerY2, 1e-9)
}

func TestCoverRect_CropsOverflowCentered(t *testing.T) {
	x, y, w, h := compositor.CoverRect(2000, 1000, 1000, 1250)

	assert.InDelta(t, 2500.0, w, 1e-9)
	assert.InDelta(t, 1250.0, h, 1e-9)
	assert.InDelta(t, -750.0, x, 1e-9)
	assert.InDelta(t, 0.0, y, 1e-9)
}

func TestRenderer_Render(t *testing.T) {
	frame, _ := models.FrameByID("frame-2")
	r := compositor.NewRenderer(100, 125, &stubLoader{img: transparentFrame(40, 50)})

	photo := solidPNG(t, 80, 100, color.RGBA{R: 200, A: 255})
	out, err := r.Render(context.Background(), frame, photo, nil)
	assert.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 125, img.Bounds().Dy())

	// Cover fit fills the whole canvas with the photo.
	red, _, blue, _ := img.At(50, 62).RGBA()
	assert.NotZero(t, red)
	assert.Zero(t, blue)
}

func TestRenderer_Render_CircularMask(t *testing.T) {
	frame, _ := models.FrameByID("frame-1")
	assert.True(t, frame.IsCircularMask)

	r := compositor.NewRenderer(100, 100, &stubLoader{img: transparentFrame(40, 40)})
	photo := solidPNG(t, 100, 100, color.RGBA{B: 255, A: 255})

	out, err := r.Render(context.Background(), frame, photo, nil)
	assert.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	assert.NoError(t, err)

	// Inside the 25px radius circle the photo shows through; the corner
	// stays the white background.
	_, _, blue, _ := img.At(50, 50).RGBA()
	assert.NotZero(t, blue)
	cr, cg, cb, _ := img.At(2, 2).RGBA()
	assert.Equal(t, uint32(0xffff), cr)
	assert.Equal(t, uint32(0xffff), cg)
	assert.Equal(t, uint32(0xffff), cb)
}

func TestRenderer_Render_OffCanvasPlacementSucceeds(t *testing.T) {
	frame, _ := models.FrameByID("frame-2")
	r := compositor.NewRenderer(100, 125, &stubLoader{img: transparentFrame(40, 50)})

	snap := &transform.Snapshot{
		Scale:           1,
		Offset:          transform.Offset{X: 10000, Y: 10000},
		DisplayedWidth:  100,
		DisplayedHeight: 100,
		ViewportWidth:   100,
		ViewportHeight:  125,
	}
	photo := solidPNG(t, 100, 100, color.RGBA{G: 255, A: 255})

	out, err := r.Render(context.Background(), frame, photo, snap)
	assert.NoError(t, err)

	// The render succeeds and yields a plain white canvas.
	img, err := png.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
	cr, cg, cb, _ := img.At(50, 62).RGBA()
	assert.Equal(t, uint32(0xffff), cr)
	assert.Equal(t, uint32(0xffff), cg)
	assert.Equal(t, uint32(0xffff), cb)
}

func TestRenderer_Render_FrameLoadFailure(t *testing.T) {
	frame, _ := models.FrameByID("frame-1")
	r := compositor.NewRenderer(100, 100, &stubLoader{err: compositor.ErrAssetLoad})

	photo := solidPNG(t, 10, 10, color.White)
	_, err := r.Render(context.Background(), frame, photo, nil)
	assert.ErrorIs(t, err, compositor.ErrAssetLoad)
}

func TestRenderer_Render_BadPhoto(t *testing.T) {
	frame, _ := models.FrameByID("frame-1")
	r := compositor.NewRenderer(100, 100, &stubLoader{img: transparentFrame(10, 10)})

	_, err := r.Render(context.Background(), frame, []byte("not an image"), nil)
	assert.ErrorIs(t, err, compositor.ErrAssetLoad)
	assert.NotErrorIs(t, err, compositor.ErrCanvasUnavailable)
}

func TestRenderer_Render_ZeroCanvas(t *testing.T) {
	frame, _ := models.FrameByID("frame-1")
	r := compositor.NewRenderer(0, 0, &stubLoader{img: transparentFrame(10, 10)})

	_, err := r.Render(context.Background(), frame, nil, nil)
	assert.ErrorIs(t, err, compositor.ErrCanvasUnavailable)
	assert.NotErrorIs(t, err, compositor.ErrAssetLoad)
}

func TestEmbeddedLoader_LoadsAllCatalogFrames(t *testing.T) {
	loader := compositor.NewEmbeddedLoader()
	for _, frame := range models.Frames {
		img, err := loader.LoadFrame(context.Background(), frame)
		assert.NoError(t, err, frame.ID)
		assert.NotNil(t, img, frame.ID)
	}
}
