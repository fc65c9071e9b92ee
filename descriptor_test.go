package polaroid

import (
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"
)

func TestDescriptorGeometry(t *testing.T) {
	src := NewSourceImage(solid(400, 300), "png", nil)
	d := describe(src, FrameDimensions{Width: 300, Height: 350}, "x", DefaultStyle())

	if got := d.PrintWidth(); got != 300+2*(Padding+Border) {
		t.Errorf("PrintWidth() = %d", got)
	}
	if d.Image.Rect.Min.X != Padding+Border || d.Image.Rect.Max.Y != Padding+Border+350 {
		t.Errorf("Image.Rect = %v", d.Image.Rect)
	}
	x, y, w := d.CaptionOrigin()
	if x != Padding+Border || y != d.Image.Rect.Max.Y+Padding || w != 300 {
		t.Errorf("CaptionOrigin() = %d, %d, %d", x, y, w)
	}
}

func TestDescriptorWithoutImage(t *testing.T) {
	d := describe(nil, DefaultFrame(), "", DefaultStyle())
	if d.HasImage || d.Image.Natural != (Size{}) {
		t.Errorf("unexpected image box %+v", d.Image)
	}
}

func TestDescriptorJSON(t *testing.T) {
	src := NewSourceImage(solid(4, 2), "png", nil)
	d := describe(src, DefaultFrame(), "Summer", DefaultStyle())
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"hasImage":true`, `"natural":{"width":4,"height":2}`, `"textAlign":"center"`} {
		if !strings.Contains(string(b), want) {
			t.Errorf("JSON %s missing %s", b, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatPNG, "png": FormatPNG, "jpg": FormatJPEG, "jpeg": FormatJPEG}
	for in, want := range tests {
		if got, ok := ParseFormat(in); !ok || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseFormat("svg"); ok {
		t.Error("svg should be rejected")
	}
	if FormatJPEG.MIME() != "image/jpeg" || FormatJPEG.Extension() != "jpg" || FormatPNG.Extension() != "png" {
		t.Error("unexpected format metadata")
	}
}

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}
