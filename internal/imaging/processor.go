// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging prepares article images before upload: EXIF orientation
// is applied and oversized images are scaled down.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/newsdesk/internal/model"
)

// Image MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Default preparation limits.
const (
	DefaultMaxWidth  = 1920
	DefaultMaxHeight = 1920
	DefaultQuality   = 85
)

// Options controls Prepare.
type Options struct {
	MaxWidth  int // 0 = DefaultMaxWidth
	MaxHeight int // 0 = DefaultMaxHeight
	Quality   int // JPEG quality, 0 = DefaultQuality
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	return o
}

// Result describes a prepared image.
type Result struct {
	Width    int
	Height   int
	MimeType string
	Size     int64
	Resized  bool
	Rotated  bool
}

// Prepare reads upload and, when it is a supported image, returns a new
// upload with orientation applied and the image fitted within the limits.
// Other files are returned unchanged with a nil Result.
func Prepare(upload *model.Upload, opts Options) (*model.Upload, *Result, error) {
	if upload == nil || upload.Body == nil {
		return nil, nil, fmt.Errorf("no file to prepare")
	}
	opts = opts.withDefaults()

	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		// Not an image we handle, pass through
		return &model.Upload{
			Filename:    upload.Filename,
			ContentType: upload.ContentType,
			Body:        bytes.NewReader(data),
		}, nil, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// Read EXIF orientation and auto-rotate
	orientation := readExifOrientation(bytes.NewReader(data))
	img = applyOrientation(img, orientation)

	bounds := img.Bounds()
	resized := false
	if bounds.Dx() > opts.MaxWidth || bounds.Dy() > opts.MaxHeight {
		img = imaging.Fit(img, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
		resized = true
	}

	result := &Result{
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		MimeType: formatToMimeType(format),
		Resized:  resized,
		Rotated:  orientation > 1 && orientation <= 8,
	}

	// Untouched images keep their original bytes (and metadata)
	if !resized && !result.Rotated {
		result.Size = int64(len(data))
		return &model.Upload{
			Filename:    upload.Filename,
			ContentType: result.MimeType,
			Body:        bytes.NewReader(data),
		}, result, nil
	}

	processed, err := encodeImage(img, format, opts.Quality)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode image: %w", err)
	}

	// WebP is re-encoded as JPEG
	filename := upload.Filename
	if format == "webp" {
		result.MimeType = MimeTypeJPEG
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	}
	result.Size = int64(len(processed))

	return &model.Upload{
		Filename:    filename,
		ContentType: result.MimeType,
		Body:        bytes.NewReader(processed),
	}, result, nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
// Orientation values:
// 1: Normal
// 2: Flip horizontal
// 3: Rotate 180°
// 4: Flip vertical
// 5: Rotate 90° CW + flip horizontal
// 6: Rotate 90° CW
// 7: Rotate 90° CCW + flip horizontal
// 8: Rotate 90° CCW
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image to bytes with the specified format and quality.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		// JPEG, and WebP which has no pure Go encoder
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// formatToMimeType converts format string to MIME type.
func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return MimeTypeJPEG
	case "png":
		return MimeTypePNG
	case "gif":
		return MimeTypeGIF
	case "webp":
		return MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
