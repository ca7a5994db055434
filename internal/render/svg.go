package render

import (
	"bytes"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"quill/pkg/quilltypes"
)

// SVGRasterizer renders SVG markup to square RGBA images using oksvg.
// It implements quilltypes.Rasterizer.
type SVGRasterizer struct{}

// NewSVGRasterizer creates an SVG rasterizer.
func NewSVGRasterizer() *SVGRasterizer {
	return &SVGRasterizer{}
}

// Rasterize parses the SVG markup and renders it at size x size pixels.
// Invalid markup is reported as ErrMarkupInvalid.
func (r *SVGRasterizer) Rasterize(markup []byte, size int) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: non-positive size %d", quilltypes.ErrMarkupInvalid, size)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", quilltypes.ErrMarkupInvalid, err)
	}

	icon.SetTarget(0, 0, float64(size), float64(size))
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	return rgba, nil
}

// EmptyImage returns the well-defined placeholder returned to callers when
// icon resolution fails: a fully transparent image at the requested size.
func EmptyImage(size int) image.Image {
	if size <= 0 {
		size = 1
	}
	return image.NewRGBA(image.Rect(0, 0, size, size))
}
