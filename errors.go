package polaroid

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to match them; the concrete errors returned
// by the Manager carry more detail.
var (
	// ErrImageDecode is returned when an ingested payload is not a decodable image.
	ErrImageDecode = errors.New("polaroid: cannot decode image")

	// ErrInvalidStyleValue is returned for a rejected caption style field.
	ErrInvalidStyleValue = errors.New("polaroid: invalid style value")

	// ErrInvalidDimension is returned for a rejected frame dimension.
	ErrInvalidDimension = errors.New("polaroid: invalid dimension")

	// ErrNoImageToExport is returned by Export before any image was ingested.
	ErrNoImageToExport = errors.New("polaroid: no image to export")

	// ErrExportFailed is returned when the rasterizer fails.
	ErrExportFailed = errors.New("polaroid: export failed")

	// ErrSuperseded is returned by IngestImage when a newer ingest started
	// before this one finished decoding. The result was discarded.
	ErrSuperseded = errors.New("polaroid: image superseded by a newer upload")
)

// DecodeError describes a payload that could not be decoded.
type DecodeError struct {
	// MIME is the sniffed content type of the payload.
	MIME string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("polaroid: cannot decode image (%s)", e.MIME)
	}
	return fmt.Sprintf("polaroid: cannot decode image (%s): %v", e.MIME, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrImageDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrImageDecode }

// FieldError describes one rejected field of a partial update.
type FieldError struct {
	Field string
	Value any
	// Kind is ErrInvalidStyleValue or ErrInvalidDimension.
	Kind   error
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s=%v: %s", e.Kind, e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Kind }

// ExportError wraps a rasterizer failure.
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("polaroid: export failed: %v", e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Is reports whether target is ErrExportFailed.
func (e *ExportError) Is(target error) bool { return target == ErrExportFailed }
