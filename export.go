package polaroid

import "context"

// Format is the encoding of an exported picture.
type Format string

// Supported export formats.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts "png", "jpeg" and "jpg".
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "png", "":
		return FormatPNG, true
	case "jpeg", "jpg":
		return FormatJPEG, true
	}
	return "", false
}

// MIME returns the media type of the format.
func (f Format) MIME() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Extension returns the file name extension without the dot.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// Rasterizer draws a RenderDescriptor into an encoded picture.
// Rasterize must not retain d after returning and must be safe for
// concurrent use.
type Rasterizer interface {
	Rasterize(ctx context.Context, d RenderDescriptor) ([]byte, error)
	Format() Format
}

// ExportBaseName is the file name stem suggested for downloads.
const ExportBaseName = "polaroid"

// Artifact is the result of a successful export.
type Artifact struct {
	Data     []byte
	MIME     string
	Filename string
	// Descriptor is the snapshot the picture was drawn from.
	Descriptor RenderDescriptor
}
