package media

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register webp with image.Decode

	"fotomuro/api/internal/config"
)

// Working is a decoded upload after the resize decision, carrying the
// content hash that will name its blobs. The hash covers the original
// bytes when the image is left untouched and the resized raw pixel
// buffer otherwise, so identical input always yields the identical
// filename stem no matter the description or target event.
type Working struct {
	Hash    string
	Resized bool
	Width   int
	Height  int

	img image.Image
}

// Analyze decodes an upload and downscales it when it clears both
// resize thresholds at once: oversized phone-camera photos get bounded,
// everything smaller passes through untouched.
func Analyze(data []byte, cfg config.UploadConfig) (Working, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Working{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	resize := width*height >= cfg.ResizeMinPixels && int64(len(data)) >= cfg.ResizeMinBytes
	if !resize {
		return Working{
			Hash:   hashBytes(data),
			Width:  width,
			Height: height,
			img:    img,
		}, nil
	}

	scaled := imaging.Fit(img, cfg.ResizeMaxDim, cfg.ResizeMaxDim, imaging.Lanczos)
	return Working{
		Hash:    hashPixels(scaled),
		Resized: true,
		Width:   scaled.Bounds().Dx(),
		Height:  scaled.Bounds().Dy(),
		img:     scaled,
	}, nil
}

// Encode renders the full webp image and its thumbnail. The thumbnail
// is a center-cropped square when the image is large enough and a
// fit-in-box reduction (never upscaled) otherwise, at the lower quality
// setting.
func (w Working) Encode(cfg config.UploadConfig) (full, thumb []byte, err error) {
	full, err = encodeWebP(w.img, cfg.FullQuality)
	if err != nil {
		return nil, nil, fmt.Errorf("encode full image: %w", err)
	}

	thumb, err = encodeWebP(thumbnail(w.img, cfg.ThumbCropSize), cfg.ThumbQuality)
	if err != nil {
		return nil, nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return full, thumb, nil
}

func thumbnail(img image.Image, crop int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() >= crop && bounds.Dy() >= crop {
		return imaging.CropCenter(img, crop, crop)
	}
	return imaging.Fit(img, crop, crop, imaging.Lanczos)
}

func encodeWebP(img image.Image, quality float32) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hashPixels(img *image.NRGBA) string {
	sum := sha256.Sum256(img.Pix)
	return hex.EncodeToString(sum[:])
}
