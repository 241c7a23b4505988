// Package avatar normalizes uploaded profile images. Every accepted upload
// is decoded, resized to a fixed square, and re-encoded as PNG so the store
// only ever holds one predictable format.
package avatar

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// Normalized output dimensions and the upload size cap.
const (
	Width    = 250
	Height   = 250
	MaxBytes = 1 << 20 // 1 MiB
)

// Avatar processing errors
var (
	// ErrInvalidUpload indicates the uploaded bytes could not be decoded as
	// an image.
	ErrInvalidUpload = errors.New("please upload an image")

	// ErrUnsupportedFormat indicates the file extension is not one of
	// .jpg/.jpeg/.png. Checked before any decoding happens.
	ErrUnsupportedFormat = errors.New("only jpg, jpeg and png images are supported")

	// ErrTooLarge indicates the upload exceeds MaxBytes.
	ErrTooLarge = errors.New("image exceeds the maximum allowed size")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateFilename rejects files whose extension is outside the allow-list.
// This runs before decoding, so an oversized or hostile file with the wrong
// extension is never parsed at all.
func ValidateFilename(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return ErrUnsupportedFormat
	}
	return nil
}

// Process decodes the uploaded image, scales it to Width x Height, and
// re-encodes it as PNG. Returns ErrTooLarge when the input exceeds MaxBytes
// and ErrInvalidUpload when the bytes are not a decodable image.
func Process(data []byte) ([]byte, error) {
	if len(data) > MaxBytes {
		return nil, ErrTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	return buf.Bytes(), nil
}
