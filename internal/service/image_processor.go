package service

import (
	"fmt"

	"github.com/h2non/bimg"
)

// ImagePreparer may rewrite an upload before it is sent to the classifier.
// It returns the bytes to send and their media type.
type ImagePreparer interface {
	Prepare(image []byte, mediaType string) ([]byte, string, error)
}

// ImageProcessor shrinks oversized photos with bimg (Go bindings for
// libvips). Phone cameras produce multi-megabyte images far larger than a
// food classifier needs; sending a bounded JPEG keeps uploads small.
type ImageProcessor struct {
	maxEdge int
}

// NewImageProcessor creates a processor that bounds the longest edge to maxEdge pixels.
func NewImageProcessor(maxEdge int) *ImageProcessor {
	return &ImageProcessor{maxEdge: maxEdge}
}

// Prepare returns the image unchanged when it already fits, otherwise a
// JPEG scaled down so that its longest edge equals maxEdge. EXIF
// orientation is applied and metadata stripped.
func (p *ImageProcessor) Prepare(image []byte, mediaType string) ([]byte, string, error) {
	if p.maxEdge <= 0 {
		return image, mediaType, nil
	}

	img := bimg.NewImage(image)
	size, err := img.Size()
	if err != nil {
		return nil, "", fmt.Errorf("reading image size: %w", err)
	}

	width, height := fitWithin(size.Width, size.Height, p.maxEdge)
	if width == size.Width && height == size.Height {
		return image, mediaType, nil
	}

	resized, err := img.Process(bimg.Options{
		Width:         width,
		Height:        height,
		Type:          bimg.JPEG,
		Quality:       85,
		StripMetadata: true,
		// JPEG has no alpha; transparent pixels become white.
		Background:     bimg.Color{R: 255, G: 255, B: 255},
		Interpretation: bimg.InterpretationSRGB,
	})
	if err != nil {
		return nil, "", fmt.Errorf("resizing to %dx%d: %w", width, height, err)
	}

	return resized, "image/jpeg", nil
}

// fitWithin scales (w, h) down, preserving aspect ratio, so that neither
// side exceeds maxEdge. Images that already fit are returned as is.
func fitWithin(w, h, maxEdge int) (int, int) {
	if w <= maxEdge && h <= maxEdge {
		return w, h
	}
	if w >= h {
		scaled := h * maxEdge / w
		if scaled < 1 {
			scaled = 1
		}
		return maxEdge, scaled
	}
	scaled := w * maxEdge / h
	if scaled < 1 {
		scaled = 1
	}
	return scaled, maxEdge
}
