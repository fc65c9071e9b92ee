package raster

import (
	"fmt"
	"os"

	"github.com/gogpu/polaroid"
)

// Option configures a Renderer during creation.
type Option func(*options) error

type options struct {
	fonts          map[string][]byte
	format         polaroid.Format
	quality        int
	complexShaping bool
}

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 90

func defaultOptions() options {
	return options{
		fonts:   make(map[string][]byte),
		format:  polaroid.FormatPNG,
		quality: DefaultJPEGQuality,
	}
}

// WithFontData uses the TTF or OTF data for family instead of the embedded
// fallback.
func WithFontData(family string, data []byte) Option {
	return func(o *options) error {
		if !polaroid.ValidFontFamily(family) {
			return fmt.Errorf("raster: unknown font family %q", family)
		}
		o.fonts[family] = data
		return nil
	}
}

// WithFontFile is like WithFontData but reads the font from path.
func WithFontFile(family, path string) Option {
	return func(o *options) error {
		// #nosec G304 -- font path comes from the user's configuration
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("raster: read font file: %w", err)
		}
		return WithFontData(family, data)(o)
	}
}

// WithFormat selects the output encoding. The default is PNG.
func WithFormat(f polaroid.Format) Option {
	return func(o *options) error {
		switch f {
		case polaroid.FormatPNG, polaroid.FormatJPEG:
			o.format = f
			return nil
		}
		return fmt.Errorf("raster: unsupported format %q", f)
	}
}

// WithJPEGQuality sets the JPEG quality (1-100).
func WithJPEGQuality(q int) Option {
	return func(o *options) error {
		if q < 1 || q > 100 {
			return fmt.Errorf("raster: jpeg quality %d out of range 1-100", q)
		}
		o.quality = q
		return nil
	}
}

// WithComplexShaping switches gg to HarfBuzz shaping (go-text/typesetting)
// for kerning, ligatures and complex scripts. The shaper is process-wide.
func WithComplexShaping() Option {
	return func(o *options) error {
		o.complexShaping = true
		return nil
	}
}
