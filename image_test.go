package polaroid

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestImageDecoderFormats(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 12, 7))
	src.Set(1, 1, color.RGBA{255, 0, 0, 255})

	encode := map[string]func(*bytes.Buffer) error{
		"jpeg": func(b *bytes.Buffer) error { return jpeg.Encode(b, src, nil) },
		"gif":  func(b *bytes.Buffer) error { return gif.Encode(b, src, nil) },
		"bmp":  func(b *bytes.Buffer) error { return bmp.Encode(b, src) },
		"tiff": func(b *bytes.Buffer) error { return tiff.Encode(b, src, nil) },
	}
	for format, enc := range encode {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := enc(&buf); err != nil {
				t.Fatalf("encode: %v", err)
			}
			img, err := ImageDecoder{}.Decode(context.Background(), buf.Bytes())
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if img.Format() != format {
				t.Errorf("Format() = %q, want %q", img.Format(), format)
			}
			if img.Width() != 12 || img.Height() != 7 {
				t.Errorf("size = %dx%d, want 12x7", img.Width(), img.Height())
			}
		})
	}
}

func TestImageDecoderRejects(t *testing.T) {
	png := pngBytes(t, 20, 20, color.White)
	tests := []struct {
		name string
		data []byte
		dec  ImageDecoder
	}{
		{name: "empty", data: nil},
		{name: "text", data: []byte("hello world")},
		{name: "truncated png", data: png[:len(png)/2]},
		{name: "too many pixels", data: png, dec: ImageDecoder{MaxPixels: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.dec.Decode(context.Background(), tt.data)
			if !errors.Is(err, ErrImageDecode) {
				t.Fatalf("Decode = %v, want ErrImageDecode", err)
			}
		})
	}
}

func TestSourceImageBytesIsCopy(t *testing.T) {
	data := pngBytes(t, 3, 3, color.White)
	img, err := ImageDecoder{}.Decode(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bytes()
	b[0] ^= 0xff
	if img.Bytes()[0] != data[0] {
		t.Error("Bytes() returned internal storage")
	}
	if img.MIME() != "image/png" {
		t.Errorf("MIME() = %q", img.MIME())
	}
}

func TestNewSourceImage(t *testing.T) {
	s := NewSourceImage(image.NewGray(image.Rect(0, 0, 5, 9)), "raw", nil)
	if s.Width() != 5 || s.Height() != 9 || s.Len() != 0 {
		t.Errorf("unexpected SourceImage %dx%d len %d", s.Width(), s.Height(), s.Len())
	}
}
