package terrain

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// RenderHeightmap samples layer over a width x height rectangle of world
// columns starting at (originX, originZ) and maps the curve's value range to
// grey levels 0..254.
func RenderHeightmap(layer Layer, originX, originZ, width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	lo, hi := layer.Curve.Range()
	span := float64(hi) - float64(lo)
	for x := range width {
		for y := range height {
			v := float64(layer.Height(originX+x, originZ+y)) - float64(lo)
			grey := 0.0
			if span > 0 {
				grey = v / span * 254
			}
			img.SetGray(x, y, color.Gray{Y: uint8(grey)})
		}
	}
	return img
}

// SaveHeightmap renders a preview of layer and writes it to path as PNG,
// upscaled by scale with nearest-neighbour filtering.
func SaveHeightmap(path string, layer Layer, width, height, scale int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("heightmap preview: invalid size %dx%d", width, height)
	}
	var out image.Image = RenderHeightmap(layer, 0, 0, width, height)
	if scale > 1 {
		dst := image.NewGray(image.Rect(0, 0, width*scale, height*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), out, out.Bounds(), draw.Src, nil)
		out = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heightmap preview: %w", err)
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return fmt.Errorf("heightmap preview: encode: %w", err)
	}
	return f.Close()
}
