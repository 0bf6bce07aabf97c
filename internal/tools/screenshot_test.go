package tools

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 255), G: uint8(y % 255), B: 100, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "shot.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestDownscaleToPointsScalesDimensions(t *testing.T) {
	path := writeTestPNG(t, 300, 600)
	data, err := downscaleToPoints(path, 3.0)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := decoded.Bounds()
	assert.Equal(t, 100, bounds.Dx())
	assert.Equal(t, 200, bounds.Dy())
}

func TestDownscaleToPointsClampsToOnePixelMinimum(t *testing.T) {
	path := writeTestPNG(t, 2, 2)
	data, err := downscaleToPoints(path, 100.0)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := decoded.Bounds()
	assert.Equal(t, 1, bounds.Dx())
	assert.Equal(t, 1, bounds.Dy())
}

func TestDownscaleToPointsMissingFile(t *testing.T) {
	_, err := downscaleToPoints(filepath.Join(t.TempDir(), "missing.png"), 2.0)
	assert.Error(t, err)
}

func TestBase64JPEGRoundTrips(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	encoded := base64JPEG(data)
	assert.NotEmpty(t, encoded)
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
