package tools

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // decode format for simctl's PNG capture
	"os"
)

// downscaleToPoints loads a pixel-space screenshot and nearest-neighbor
// resamples it down by 1/scale, so the result is in iOS-point space (1
// pixel = 1 iOS point), matching the accessibility tree's coordinate
// space. Screenshot file encoding mechanics are an external-collaborator
// concern; this is a small, directly-testable adapter, not a core
// invariant.
func downscaleToPoints(pngPath string, scale float64) ([]byte, error) {
	f, err := os.Open(pngPath)
	if err != nil {
		return nil, fmt.Errorf("tools: open screenshot: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tools: decode screenshot: %w", err)
	}

	bounds := src.Bounds()
	dstW := int(float64(bounds.Dx()) / scale)
	dstH := int(float64(bounds.Dy()) / scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	for y := 0; y < dstH; y++ {
		srcY := bounds.Min.Y + int(float64(y)*scale)
		for x := 0; x < dstW; x++ {
			srcX := bounds.Min.X + int(float64(x)*scale)
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, &EncodingFailed{Detail: err.Error()}
	}
	return buf.Bytes(), nil
}

func base64JPEG(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
