package raster

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/polaroid"
)

// fallbackFonts maps each allowed family to the embedded Go font that stands
// in for it when no font file is configured.
var fallbackFonts = map[string][]byte{
	polaroid.FamilyArial:         goregular.TTF,
	polaroid.FamilyVerdana:       goregular.TTF,
	polaroid.FamilyTimesNewRoman: gomedium.TTF,
	polaroid.FamilyGeorgia:       gomedium.TTF,
	polaroid.FamilyCourierNew:    gomono.TTF,
	polaroid.FamilyImpact:        gobold.TTF,
}

// FontInfo describes the font loaded for one family.
type FontInfo struct {
	Family string
	// Name is the family name stored in the font file.
	Name     string
	Embedded bool
}

// fontSet holds one FontSource per allowed family. It is read-only after
// construction.
type fontSet struct {
	sources map[string]*text.FontSource
	info    map[string]FontInfo
}

func newFontSet(overrides map[string][]byte) (*fontSet, error) {
	fs := &fontSet{
		sources: make(map[string]*text.FontSource, len(fallbackFonts)),
		info:    make(map[string]FontInfo, len(fallbackFonts)),
	}
	for _, family := range polaroid.FontFamilies() {
		data, embedded := overrides[family], false
		if data == nil {
			data, embedded = fallbackFonts[family], true
		}

		name, err := describeFont(data)
		if err != nil {
			fs.Close()
			return nil, fmt.Errorf("raster: font for %q: %w", family, err)
		}
		src, err := text.NewFontSource(data)
		if err != nil {
			fs.Close()
			return nil, fmt.Errorf("raster: font for %q: %w", family, err)
		}
		fs.sources[family] = src
		fs.info[family] = FontInfo{Family: family, Name: name, Embedded: embedded}
	}
	return fs, nil
}

// describeFont parses data with go-text/typesetting and returns the family
// name recorded in the font.
func describeFont(data []byte) (string, error) {
	if len(data) == 0 {
		return "", text.ErrEmptyFontData
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return face.Describe().Family, nil
}

// face returns a face for family at size pixels.
func (fs *fontSet) face(family string, size float64) (text.Face, error) {
	src, ok := fs.sources[family]
	if !ok {
		return nil, fmt.Errorf("raster: no font for family %q", family)
	}
	return src.Face(size), nil
}

// Close releases every font source.
func (fs *fontSet) Close() error {
	for _, src := range fs.sources {
		_ = src.Close()
	}
	return nil
}
