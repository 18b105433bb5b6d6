package yoloedit

// Image decoding helpers for the dataset image cache.

import (
	"image"
	"os"

	"github.com/disintegration/imaging"

	// Register the webp decoder alongside the stdlib formats.
	_ "golang.org/x/image/webp"
)

// loadImage reads and decodes the image at path.
func loadImage(path string) (image.Image, error) {
	return imaging.Open(path)
}

// decodeImageConfig opens the file at path and returns the results of
// image.DecodeConfig, yielding the pixel dimensions without decoding the full
// bitmap.
func decodeImageConfig(path string) (config image.Config, format string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer file.Close()

	return image.DecodeConfig(file)
}

// fitPreview resamples img to fit within maxWidth x maxHeight, preserving the
// aspect ratio. Images that already fit are returned unchanged.
func fitPreview(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth && bounds.Dy() <= maxHeight {
		return img
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Linear)
}
