package polaroid

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"

	// Registered image formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxSourcePixels limits the decoded size of an ingested image.
const MaxSourcePixels = 64 << 20

// SourceImage is an ingested photo. It is created once per upload and never
// modified afterwards, so it may be shared freely between goroutines.
type SourceImage struct {
	data   []byte
	format string
	mime   string
	img    image.Image
}

// NewSourceImage wraps an already decoded image. data may be nil.
func NewSourceImage(img image.Image, format string, data []byte) *SourceImage {
	return &SourceImage{
		data:   data,
		format: format,
		mime:   http.DetectContentType(data),
		img:    img,
	}
}

// Image returns the decoded pixels.
func (s *SourceImage) Image() image.Image { return s.img }

// Format returns the codec name reported by the decoder ("png", "jpeg", ...).
func (s *SourceImage) Format() string { return s.format }

// MIME returns the sniffed content type of the original payload.
func (s *SourceImage) MIME() string { return s.mime }

// Len returns the size of the original payload in bytes.
func (s *SourceImage) Len() int { return len(s.data) }

// Bytes returns a copy of the original payload.
func (s *SourceImage) Bytes() []byte { return bytes.Clone(s.data) }

// Width returns the natural width in pixels.
func (s *SourceImage) Width() int { return s.img.Bounds().Dx() }

// Height returns the natural height in pixels.
func (s *SourceImage) Height() int { return s.img.Bounds().Dy() }

// Decoder turns an uploaded payload into a SourceImage.
// Implementations must return an error matching ErrImageDecode for payloads
// that are not images.
type Decoder interface {
	Decode(ctx context.Context, data []byte) (*SourceImage, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx context.Context, data []byte) (*SourceImage, error)

// Decode calls f(ctx, data).
func (f DecoderFunc) Decode(ctx context.Context, data []byte) (*SourceImage, error) {
	return f(ctx, data)
}

// ImageDecoder decodes PNG, JPEG, GIF, WebP, BMP and TIFF payloads.
type ImageDecoder struct {
	// MaxPixels rejects images with more pixels. Zero means MaxSourcePixels.
	MaxPixels int
}

// Decode implements Decoder.
func (d ImageDecoder) Decode(ctx context.Context, data []byte) (*SourceImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mime := http.DetectContentType(data)
	if len(data) == 0 {
		return nil, &DecodeError{MIME: mime, Err: fmt.Errorf("empty payload")}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{MIME: mime, Err: err}
	}
	limit := d.MaxPixels
	if limit <= 0 {
		limit = MaxSourcePixels
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > limit {
		return nil, &DecodeError{MIME: mime, Err: fmt.Errorf("unsupported image size %dx%d", cfg.Width, cfg.Height)}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{MIME: mime, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &SourceImage{
		data:   bytes.Clone(data),
		format: format,
		mime:   mime,
		img:    img,
	}, nil
}
