package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"os"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
)

var (
	textureCache = make(map[string]uint32)
	cacheMutex   sync.RWMutex
)

// GetTexture returns a cached texture ID for the given path, loading it from
// disk on first use. Must be called on the GL thread.
func GetTexture(path string) (uint32, error) {
	cacheMutex.RLock()
	if tex, ok := textureCache[path]; ok {
		cacheMutex.RUnlock()
		return tex, nil
	}
	cacheMutex.RUnlock()

	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	if tex, ok := textureCache[path]; ok {
		return tex, nil
	}

	img, err := LoadImage(path)
	if err != nil {
		return 0, err
	}
	tex := UploadTexture(img)
	textureCache[path] = tex
	return tex, nil
}

// LoadImage decodes an image file into RGBA.
func LoadImage(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

// UploadTexture creates a nearest-filtered 2D texture from img.
func UploadTexture(img *image.RGBA) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	size := img.Rect.Size()
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(size.X),
		int32(size.Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}

// PlaceholderAtlas paints a columns x rows tile grid, one flat shade per
// tile with a darker border, for running without texture assets.
func PlaceholderAtlas(columns, rows, tilePx int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, columns*tilePx, rows*tilePx))
	for ty := range rows {
		for tx := range columns {
			base := tileColor(ty*columns + tx)
			edge := color.RGBA{base.R / 2, base.G / 2, base.B / 2, 255}
			r := image.Rect(tx*tilePx, ty*tilePx, (tx+1)*tilePx, (ty+1)*tilePx)
			draw.Draw(img, r, &image.Uniform{edge}, image.Point{}, draw.Src)
			draw.Draw(img, r.Inset(1), &image.Uniform{base}, image.Point{}, draw.Src)
		}
	}
	return img
}

var tilePalette = []color.RGBA{
	{128, 128, 128, 255}, // stone
	{134, 96, 67, 255},   // dirt
	{95, 159, 53, 255},   // grass
	{219, 207, 163, 255}, // sand
	{102, 81, 51, 255},
	{160, 160, 160, 255},
	{64, 96, 160, 255},
	{200, 200, 210, 255},
}

func tileColor(i int) color.RGBA {
	return tilePalette[i%len(tilePalette)]
}
