package polaroid

import "image"

// Layout constants of the printed frame.
const (
	// Padding is the white margin around the photo and below the caption.
	Padding = 10
	// Border is the width of the outline drawn around the print.
	Border = 1
	// BorderColor is the outline color.
	BorderColor = "#dddddd"
	// BackgroundColor fills the print behind the photo and caption.
	BackgroundColor = "#ffffff"
)

// Size is a width and height in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageBox says where and how large the photo is drawn.
type ImageBox struct {
	// Rect is the target rectangle in print coordinates.
	Rect image.Rectangle `json:"-"`
	// Target is the size the photo is scaled to.
	Target Size `json:"target"`
	// Natural is the decoded size of the source image.
	Natural Size `json:"natural"`
	// Source is the photo itself. It is immutable.
	Source *SourceImage `json:"-"`
}

// Caption is the text drawn below the photo.
type Caption struct {
	Text  string       `json:"text"`
	Style CaptionStyle `json:"style"`
}

// RenderDescriptor is a side-effect-free snapshot of everything needed to
// draw the composition.
type RenderDescriptor struct {
	HasImage bool `json:"hasImage"`
	// Frame is the size of the photo area chosen by the user.
	Frame       Size     `json:"frame"`
	Image       ImageBox `json:"image"`
	Padding     int      `json:"padding"`
	Border      int      `json:"border"`
	BorderColor string   `json:"borderColor"`
	Background  string   `json:"background"`
	Caption     Caption  `json:"caption"`
}

// PrintWidth returns the outer width of the print.
func (d RenderDescriptor) PrintWidth() int {
	return d.Frame.Width + 2*(d.Padding+d.Border)
}

// CaptionOrigin returns the top-left corner of the caption block and the
// width available to it.
func (d RenderDescriptor) CaptionOrigin() (x, y, width int) {
	return d.Border + d.Padding, d.Image.Rect.Max.Y + d.Padding, d.Frame.Width
}

// describe derives a RenderDescriptor. It has no side effects.
func describe(src *SourceImage, frame FrameDimensions, text string, style CaptionStyle) RenderDescriptor {
	origin := Border + Padding
	d := RenderDescriptor{
		HasImage:    src != nil,
		Frame:       Size{Width: frame.Width, Height: frame.Height},
		Padding:     Padding,
		Border:      Border,
		BorderColor: BorderColor,
		Background:  BackgroundColor,
		Caption:     Caption{Text: text, Style: style},
	}
	d.Image = ImageBox{
		Rect:   image.Rect(origin, origin, origin+frame.Width, origin+frame.Height),
		Target: d.Frame,
		Source: src,
	}
	if src != nil {
		d.Image.Natural = Size{Width: src.Width(), Height: src.Height()}
	}
	return d
}
