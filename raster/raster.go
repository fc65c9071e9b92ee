package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/polaroid"
)

// MaxPrintHeight bounds the canvas a caption may grow the print to.
const MaxPrintHeight = 2 * polaroid.MaxDimension

var (
	// ErrNoImage is returned when a descriptor without a photo is rasterized.
	ErrNoImage = errors.New("raster: descriptor has no image")
	// ErrPrintTooLarge is returned when the laid-out print exceeds MaxPrintHeight.
	ErrPrintTooLarge = errors.New("raster: print too large")
)

// Renderer is a polaroid.Rasterizer backed by gg's software renderer.
// It is safe for concurrent use.
type Renderer struct {
	fonts   *fontSet
	format  polaroid.Format
	quality int
}

var _ polaroid.Rasterizer = (*Renderer)(nil)

// New creates a Renderer.
func New(opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	fonts, err := newFontSet(o.fonts)
	if err != nil {
		return nil, err
	}
	if o.complexShaping {
		text.SetShaper(text.NewGoTextShaper())
	}

	r := &Renderer{fonts: fonts, format: o.format, quality: o.quality}
	for _, family := range polaroid.FontFamilies() {
		info := fonts.info[family]
		polaroid.Logger().Debug("raster: font loaded",
			"family", family, "name", info.Name, "embedded", info.Embedded)
	}
	return r, nil
}

// SetLogger forwards l to the gg library so its diagnostics end up in the
// same place as polaroid's.
func SetLogger(l *slog.Logger) {
	gg.SetLogger(l)
}

// Format implements polaroid.Rasterizer.
func (r *Renderer) Format() polaroid.Format { return r.format }

// Fonts reports the font used for each family.
func (r *Renderer) Fonts() []FontInfo {
	out := make([]FontInfo, 0, len(r.fonts.info))
	for _, family := range polaroid.FontFamilies() {
		out = append(out, r.fonts.info[family])
	}
	return out
}

// Close releases the loaded fonts.
func (r *Renderer) Close() error {
	return r.fonts.Close()
}

// Line is one laid-out caption line.
type Line struct {
	Text string
	// X is the anchor position; Anchor is 0, 0.5 or 1 for left, center, right.
	X      float64
	Anchor float64
	// Baseline is the y coordinate of the text baseline.
	Baseline float64
}

// Layout is the geometry of a print.
type Layout struct {
	Width, Height int
	Lines         []Line
	LineHeight    float64
}

// Layout computes the print geometry for d without drawing anything.
func (r *Renderer) Layout(d polaroid.RenderDescriptor) (Layout, error) {
	face, err := r.fonts.face(d.Caption.Style.FontFamily, float64(d.Caption.Style.FontSizePx))
	if err != nil {
		return Layout{}, err
	}
	return layout(d, face), nil
}

func layout(d polaroid.RenderDescriptor, face text.Face) Layout {
	x0, y0, width := d.CaptionOrigin()
	metrics := face.Metrics()
	lh := metrics.LineHeight()

	l := Layout{Width: d.PrintWidth(), LineHeight: lh}

	caption := norm.NFC.String(d.Caption.Text)
	bottom := float64(d.Image.Rect.Max.Y)
	if strings.TrimSpace(caption) != "" {
		var anchor, x float64
		switch d.Caption.Style.TextAlign {
		case polaroid.AlignLeft:
			anchor, x = 0, float64(x0)
		case polaroid.AlignRight:
			anchor, x = 1, float64(x0+width)
		default:
			anchor, x = 0.5, float64(x0)+float64(width)/2
		}
		for i, w := range text.WrapText(caption, face, float64(width), text.WrapWordChar) {
			l.Lines = append(l.Lines, Line{
				Text:     w.Text,
				X:        x,
				Anchor:   anchor,
				Baseline: float64(y0) + metrics.Ascent + float64(i)*lh,
			})
		}
		bottom = float64(y0) + float64(len(l.Lines))*lh
	}
	l.Height = int(math.Ceil(bottom)) + d.Padding + d.Border
	return l
}

// Rasterize implements polaroid.Rasterizer.
func (r *Renderer) Rasterize(ctx context.Context, d polaroid.RenderDescriptor) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !d.HasImage || d.Image.Source == nil {
		return nil, ErrNoImage
	}

	face, err := r.fonts.face(d.Caption.Style.FontFamily, float64(d.Caption.Style.FontSizePx))
	if err != nil {
		return nil, err
	}
	l := layout(d, face)
	if l.Height > MaxPrintHeight {
		return nil, fmt.Errorf("%w: height %d exceeds %d", ErrPrintTooLarge, l.Height, MaxPrintHeight)
	}

	border, err := polaroid.ParseColor(d.BorderColor)
	if err != nil {
		return nil, fmt.Errorf("raster: border color: %w", err)
	}
	background, err := polaroid.ParseColor(d.Background)
	if err != nil {
		return nil, fmt.Errorf("raster: background color: %w", err)
	}

	dc := gg.NewContext(l.Width, l.Height)
	defer func() { _ = dc.Close() }()

	dc.ClearWithColor(gg.FromColor(border))
	dc.SetColor(background)
	b := float64(d.Border)
	dc.DrawRectangle(b, b, float64(l.Width)-2*b, float64(l.Height)-2*b)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("raster: fill background: %w", err)
	}

	rect := d.Image.Rect
	dc.DrawImageEx(gg.ImageBufFromImage(d.Image.Source.Image()), gg.DrawImageOptions{
		X:             float64(rect.Min.X),
		Y:             float64(rect.Min.Y),
		DstWidth:      float64(rect.Dx()),
		DstHeight:     float64(rect.Dy()),
		Interpolation: gg.InterpBilinear,
		Opacity:       1.0,
		BlendMode:     gg.BlendNormal,
	})

	dc.SetFont(face)
	dc.SetColor(d.Caption.Style.RGBA())
	for _, line := range l.Lines {
		dc.DrawStringAnchored(line.Text, line.X, line.Baseline, line.Anchor, 0)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if r.format == polaroid.FormatJPEG {
		err = dc.EncodeJPEG(&buf, r.quality)
	} else {
		err = dc.EncodePNG(&buf)
	}
	if err != nil {
		return nil, fmt.Errorf("raster: encode %s: %w", r.format, err)
	}
	return buf.Bytes(), nil
}
