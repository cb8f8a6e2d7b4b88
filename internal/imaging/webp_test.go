package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestToWebPDownscales(t *testing.T) {
	out, err := ToWebP(pngOf(t, 400, 200), 100, DefaultQuality)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 100, cfg.Width)
	require.Equal(t, 50, cfg.Height)
}

func TestFitKeepsSmallImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	require.Same(t, img, Fit(img, 100))
}

func TestFitPortrait(t *testing.T) {
	got := Fit(image.NewRGBA(image.Rect(0, 0, 300, 600)), 200)
	require.Equal(t, 100, got.Bounds().Dx())
	require.Equal(t, 200, got.Bounds().Dy())
}

func TestToWebPRejectsGarbage(t *testing.T) {
	_, err := ToWebP(strings.NewReader("not an image"), 100, DefaultQuality)
	require.Error(t, err)
}
