package polaroid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxDimension is the largest accepted frame width or height in pixels.
const MaxDimension = 8192

// FrameDimensions is the size of the photo area of the print in pixels.
// It is independent of the natural size of the source image.
type FrameDimensions struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// DefaultFrame returns the frame a new session starts with.
func DefaultFrame() FrameDimensions {
	return FrameDimensions{Width: 300, Height: 350}
}

// Validate checks both dimensions and returns the joined field errors, if any.
func (f FrameDimensions) Validate() error {
	_, err := DefaultFrame().merge(FrameUpdate{Width: &f.Width, Height: &f.Height})
	return err
}

// FrameUpdate is a partial frame change. Nil fields are left unchanged.
type FrameUpdate struct {
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`
}

func (f FrameDimensions) merge(u FrameUpdate) (FrameDimensions, error) {
	var errs fieldErrors
	if u.Width != nil {
		if reason := checkDimension(*u.Width); reason == "" {
			f.Width = *u.Width
		} else {
			errs.add(ErrInvalidDimension, "width", *u.Width, reason)
		}
	}
	if u.Height != nil {
		if reason := checkDimension(*u.Height); reason == "" {
			f.Height = *u.Height
		} else {
			errs.add(ErrInvalidDimension, "height", *u.Height, reason)
		}
	}
	return f, errs.err()
}

func checkDimension(v int) string {
	switch {
	case v <= 0:
		return "must be positive"
	case v > MaxDimension:
		return fmt.Sprintf("must not exceed %d", MaxDimension)
	}
	return ""
}

// ParseDimension parses a dimension such as "300" or "300px".
// Non-numeric and non-positive input is rejected with ErrInvalidDimension.
func ParseDimension(field, s string) (int, error) {
	n, err := parsePixels(s)
	if err != nil {
		return 0, &FieldError{Field: field, Value: s, Kind: ErrInvalidDimension, Reason: err.Error()}
	}
	if reason := checkDimension(n); reason != "" {
		return 0, &FieldError{Field: field, Value: s, Kind: ErrInvalidDimension, Reason: reason}
	}
	return n, nil
}

func parsePixels(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a whole number")
	}
	return n, nil
}

// fieldErrors collects per-field rejections of one partial update.
type fieldErrors []error

func (e *fieldErrors) add(kind error, field string, value any, reason string) {
	*e = append(*e, &FieldError{Field: field, Value: value, Kind: kind, Reason: reason})
}

func (e fieldErrors) err() error {
	return errors.Join(e...)
}
