// Package debug provides debug output for rendered textures.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"
)

// DepthImage converts a single-channel float texture with values in [0, 1]
// into a 16-bit grayscale image. Values outside the range are clamped. The
// image is flipped vertically since OpenGL has origin at bottom-left.
func DepthImage(depth []float32, width, height int) (*image.Gray16, error) {
	if len(depth) != width*height {
		return nil, fmt.Errorf("depth data size mismatch: expected %d, got %d", width*height, len(depth))
	}

	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := depth[(height-1-y)*width:]
		for x := 0; x < width; x++ {
			v := min(max(src[x], 0), 1)
			img.SetGray16(x, y, color.Gray16{Y: uint16(v*0xffff + 0.5)})
		}
	}
	return img, nil
}

// SaveDepthPNG writes a depth texture to path as a 16-bit grayscale PNG,
// creating parent directories as needed.
func SaveDepthPNG(path string, depth []float32, width, height int) error {
	return saveDepth(path, depth, width, height, png.Encode)
}

// SaveDepthTIFF writes a depth texture to path as a deflate-compressed
// 16-bit grayscale TIFF, creating parent directories as needed.
func SaveDepthTIFF(path string, depth []float32, width, height int) error {
	return saveDepth(path, depth, width, height, func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	})
}

// ColorImage converts an RGBA float texture with components in [0, 1] into
// an 8-bit image, clamping and flipping it like DepthImage.
func ColorImage(rgba []float32, width, height int) (*image.NRGBA, error) {
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("color data size mismatch: expected %d, got %d", width*height*4, len(rgba))
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := rgba[(height-1-y)*width*4:]
		dst := img.Pix[y*img.Stride:]
		for i := 0; i < width*4; i++ {
			dst[i] = uint8(min(max(src[i], 0), 1)*0xff + 0.5)
		}
	}
	return img, nil
}

// SaveColorPNG writes an RGBA float texture to path as an 8-bit PNG,
// creating parent directories as needed.
func SaveColorPNG(path string, rgba []float32, width, height int) error {
	img, err := ColorImage(rgba, width, height)
	if err != nil {
		return err
	}
	return saveImage(path, img, png.Encode)
}

func saveDepth(path string, depth []float32, width, height int, encode func(io.Writer, image.Image) error) error {
	img, err := DepthImage(depth, width, height)
	if err != nil {
		return err
	}
	return saveImage(path, img, encode)
}

func saveImage(path string, img image.Image, encode func(io.Writer, image.Image) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := encode(file, img); err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Ext(path), err)
	}
	return nil
}
