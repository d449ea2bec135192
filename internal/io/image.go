package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"

	"golang.org/x/image/draw"
)

// CoverSize is the edge length, in pixels, of a resized cover.
//
// It matches the 2.4" screen of the MECHEN MP3/MP4 player and is not
// configurable.
const CoverSize = 240

// JPEGQuality is the quality used for every encoded cover.
const JPEGQuality = 90

// ImageService provides image processing operations for cover art.
//
// ImageService is used to:
//   - Load a cover from disk and flatten it to opaque RGB
//   - Crop and scale a cover to an exact square
//   - Encode the result as JPEG once for a whole album
//
// Example usage:
//
//	svc := NewImageService()
//
//	img, _ := svc.Load(ctx, "/covers/front.png")
//	img = svc.Fit(img, CoverSize, CoverSize)
//	data, _ := svc.EncodeJPEG(ctx, img)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// PrepareCover loads the image at path and returns it as JPEG bytes,
// fitted to CoverSize×CoverSize when resize is true.
func (s *ImageService) PrepareCover(ctx context.Context, path string, resize bool) ([]byte, error) {
	img, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if resize {
		img = s.Fit(img, CoverSize, CoverSize)
	}
	return s.EncodeJPEG(ctx, img)
}

// Load decodes the image file at path and flattens it to opaque RGB.
//
// JPEG, PNG and GIF inputs are supported. Alpha channels and palettes are
// discarded: each pixel keeps its straight (non-premultiplied) color value
// and becomes fully opaque.
func (s *ImageService) Load(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return flatten(img), nil
}

// Fit crops img to the aspect ratio of width×height, anchored at the
// image center, and scales the crop to exactly width×height.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 1500x1000 image is cropped to its central 1000x1000 square,
//	// then scaled down to 240x240.
//	square := svc.Fit(img, 240, 240)
func (s *ImageService) Fit(img image.Image, width, height int) *image.RGBA {
	src := centerCrop(img.Bounds(), width, height)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)

	return dst
}

// EncodeJPEG encodes img as JPEG with JPEGQuality.
func (s *ImageService) EncodeJPEG(ctx context.Context, img image.Image) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// centerCrop returns the largest rectangle inside b with the aspect ratio
// width:height, centered in b.
func centerCrop(b image.Rectangle, width, height int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return b
	}

	// Compare w/h against width/height without floating point.
	cropW, cropH := w, h
	if w*height > h*width {
		cropW = h * width / height
	} else {
		cropH = w * height / width
	}
	if cropW < 1 {
		cropW = 1
	}
	if cropH < 1 {
		cropH = 1
	}

	x0 := b.Min.X + (w-cropW)/2
	y0 := b.Min.Y + (h-cropH)/2
	return image.Rect(x0, y0, x0+cropW, y0+cropH)
}

// flatten converts img to an opaque RGBA image.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}

	return dst
}
