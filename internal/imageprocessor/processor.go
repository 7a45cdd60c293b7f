package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

const maxEncodedSize = 1 << 20 // 1MB target for stored images

// Processor normalizes uploaded images before they hit the media store:
// resize down to maxWidth, re-encode as JPEG, and step the quality down
// until the result fits under 1MB.
type Processor struct {
	maxWidth int
	quality  int
}

func NewProcessor(maxWidth, quality int) *Processor {
	if maxWidth <= 0 {
		maxWidth = 640
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &Processor{maxWidth: maxWidth, quality: quality}
}

// Optimize decodes data, scales it down and re-encodes it. The returned
// content type is always image/jpeg. Images narrower than maxWidth are not
// enlarged.
func (p *Processor) Optimize(data []byte) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.resize(img)

	quality := p.quality
	encoded, err := encodeJPEG(resized, quality)
	if err != nil {
		return nil, "", err
	}

	for len(encoded) > maxEncodedSize && quality > 30 {
		quality -= 10
		encoded, err = encodeJPEG(resized, quality)
		if err != nil {
			return nil, "", err
		}
	}

	return encoded, "image/jpeg", nil
}

func (p *Processor) resize(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	if width <= p.maxWidth {
		return img
	}

	height := bounds.Dy() * p.maxWidth / width
	dst := image.NewRGBA(image.Rect(0, 0, p.maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
