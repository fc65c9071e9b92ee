package polaroid

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
)

// pngBytes encodes a solid w x h PNG.
func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// gatedDecoder decodes normally but waits until the payload's gate is opened.
type gatedDecoder struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
}

func newGatedDecoder() *gatedDecoder {
	return &gatedDecoder{gates: make(map[string]chan struct{}), started: make(chan string, 8)}
}

func (g *gatedDecoder) gate(key string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[key]
	if !ok {
		ch = make(chan struct{})
		g.gates[key] = ch
	}
	return ch
}

func (g *gatedDecoder) open(key string) { close(g.gate(key)) }

func (g *gatedDecoder) Decode(ctx context.Context, data []byte) (*SourceImage, error) {
	key := string(data[len(data)-4:])
	g.started <- key
	<-g.gate(key)
	return ImageDecoder{}.Decode(ctx, data)
}

// fakeRasterizer records calls and returns canned output.
type fakeRasterizer struct {
	mu    sync.Mutex
	calls []RenderDescriptor
	err   error
}

func (f *fakeRasterizer) Rasterize(_ context.Context, d RenderDescriptor) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, d)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("picture"), nil
}

func (f *fakeRasterizer) Format() Format { return FormatPNG }

func (f *fakeRasterizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var errRaster = errors.New("canvas exploded")
