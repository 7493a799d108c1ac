package catalogsvc

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// ErrUnknownInterpolator is returned when an unsupported interpolation method is configured.
var ErrUnknownInterpolator = errors.New("unknown interpolator")

//nolint:gochecknoglobals
var interpolators = map[string]draw.Interpolator{
	"nearestneighbor": draw.NearestNeighbor,
	"catmullrom":      draw.CatmullRom,
	"bilinear":        draw.BiLinear,
	"approxbilinear":  draw.ApproxBiLinear,
}

func getInterpolatorByName(name string) (draw.Interpolator, error) {
	interpol, ok := interpolators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInterpolator, name)
	}

	return interpol, nil
}

// scaleToWidth scales img to width keeping its aspect ratio.
// Images already narrower than width are returned unchanged.
func scaleToWidth(img image.Image, width int, interpol draw.Interpolator) image.Image {
	bounds := img.Bounds()
	if width <= 0 || bounds.Dx() <= width {
		return img
	}

	height := max(1, bounds.Dy()*width/bounds.Dx())
	bitmap := image.NewRGBA(image.Rect(0, 0, width, height))

	interpol.Scale(bitmap, bitmap.Bounds(), img, bounds, draw.Over, nil)

	return bitmap
}
