package polaroid

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// TextAlign is the horizontal alignment of the caption.
type TextAlign string

// Caption alignments.
const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// Valid reports whether a is one of the known alignments.
func (a TextAlign) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

// Font families a caption may use. The values are CSS font stacks so the same
// strings can be handed to a browser preview unchanged.
const (
	FamilyArial         = "Arial, sans-serif"
	FamilyTimesNewRoman = "Times New Roman, serif"
	FamilyCourierNew    = "Courier New, monospace"
	FamilyGeorgia       = "Georgia, serif"
	FamilyVerdana       = "Verdana, sans-serif"
	FamilyImpact        = "Impact, sans-serif"
)

var fontFamilies = []string{
	FamilyArial,
	FamilyTimesNewRoman,
	FamilyCourierNew,
	FamilyGeorgia,
	FamilyVerdana,
	FamilyImpact,
}

// FontFamilies returns the allowed font families in display order.
func FontFamilies() []string {
	out := make([]string, len(fontFamilies))
	copy(out, fontFamilies)
	return out
}

// ValidFontFamily reports whether family is one of [FontFamilies].
func ValidFontFamily(family string) bool {
	for _, f := range fontFamilies {
		if f == family {
			return true
		}
	}
	return false
}

// MaxFontSize is the largest accepted caption font size in pixels.
const MaxFontSize = 512

// CaptionStyle describes how the caption is drawn.
type CaptionStyle struct {
	FontSizePx int       `json:"fontSizePx" yaml:"font_size_px"`
	FontFamily string    `json:"fontFamily" yaml:"font_family"`
	TextAlign  TextAlign `json:"textAlign" yaml:"text_align"`
	Color      string    `json:"color" yaml:"color"`
}

// DefaultStyle returns the style a new session starts with.
func DefaultStyle() CaptionStyle {
	return CaptionStyle{
		FontSizePx: 18,
		FontFamily: FamilyArial,
		TextAlign:  AlignCenter,
		Color:      "#000000",
	}
}

// RGBA returns the parsed caption color. An unparsable color yields black.
func (s CaptionStyle) RGBA() color.RGBA {
	c, err := ParseColor(s.Color)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return c
}

// Validate checks every field and returns the joined field errors, if any.
func (s CaptionStyle) Validate() error {
	_, err := DefaultStyle().merge(StyleUpdate{
		FontSizePx: &s.FontSizePx,
		FontFamily: &s.FontFamily,
		TextAlign:  Ptr(string(s.TextAlign)),
		Color:      &s.Color,
	})
	return err
}

// StyleUpdate is a partial caption style. Nil fields are left unchanged.
type StyleUpdate struct {
	FontSizePx *int    `json:"fontSizePx,omitempty"`
	FontFamily *string `json:"fontFamily,omitempty"`
	TextAlign  *string `json:"textAlign,omitempty"`
	Color      *string `json:"color,omitempty"`
}

// merge applies every valid field of u to a copy of s. Fields are independent,
// so the order in which they are checked does not affect the result.
func (s CaptionStyle) merge(u StyleUpdate) (CaptionStyle, error) {
	var errs fieldErrors
	if u.FontSizePx != nil {
		if reason := checkFontSize(*u.FontSizePx); reason == "" {
			s.FontSizePx = *u.FontSizePx
		} else {
			errs.add(ErrInvalidStyleValue, "fontSizePx", *u.FontSizePx, reason)
		}
	}
	if u.FontFamily != nil {
		if ValidFontFamily(*u.FontFamily) {
			s.FontFamily = *u.FontFamily
		} else {
			errs.add(ErrInvalidStyleValue, "fontFamily", *u.FontFamily, "unknown font family")
		}
	}
	if u.TextAlign != nil {
		if a := TextAlign(*u.TextAlign); a.Valid() {
			s.TextAlign = a
		} else {
			errs.add(ErrInvalidStyleValue, "textAlign", *u.TextAlign, "must be left, center or right")
		}
	}
	if u.Color != nil {
		if _, err := ParseColor(*u.Color); err == nil {
			s.Color = strings.TrimSpace(*u.Color)
		} else {
			errs.add(ErrInvalidStyleValue, "color", *u.Color, err.Error())
		}
	}
	return s, errs.err()
}

// ParseColor parses #rgb, #rrggbb, #rrggbbaa or a CSS color keyword.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color")
	}
	if !strings.HasPrefix(s, "#") {
		if c, ok := colornames.Map[strings.ToLower(s)]; ok {
			return c, nil
		}
		return color.RGBA{}, fmt.Errorf("unknown color name %q", s)
	}

	hex := s[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.RGBA{}, fmt.Errorf("malformed hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("malformed hex color %q", s)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// ParseFontSize parses a font size such as "18" or "18px".
func ParseFontSize(s string) (int, error) {
	n, err := parsePixels(s)
	if err != nil {
		return 0, &FieldError{Field: "fontSizePx", Value: s, Kind: ErrInvalidStyleValue, Reason: err.Error()}
	}
	if reason := checkFontSize(n); reason != "" {
		return 0, &FieldError{Field: "fontSizePx", Value: s, Kind: ErrInvalidStyleValue, Reason: reason}
	}
	return n, nil
}

func checkFontSize(n int) string {
	switch {
	case n <= 0:
		return "must be positive"
	case n > MaxFontSize:
		return fmt.Sprintf("must not exceed %d", MaxFontSize)
	}
	return ""
}

// Ptr returns a pointer to v. It is handy for building partial updates.
func Ptr[T any](v T) *T { return &v }
