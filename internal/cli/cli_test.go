package cli

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/polaroid"
)

// run executes the root command with args and an isolated config file.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		polaroid.SetLogger(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "polaroid" {
		t.Errorf("Use = %q", rootCmd.Use)
	}
	for _, name := range []string{"render", "serve", "config", "version"} {
		if c, _, err := rootCmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVersion(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })
	SetVersion("1.2.3")

	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "polaroid 1.2.3") {
		t.Errorf("output = %q", out)
	}
}

func TestRender(t *testing.T) {
	in := writePNG(t, 40, 30)
	outPath := filepath.Join(t.TempDir(), "print.jpg")

	_, err := run(t, "render", in,
		"--text", "Summer 2024",
		"--width", "200px",
		"--height", "150",
		"--align", "right",
		"--format", "jpeg",
		"-o", outPath)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("jpeg.Decode: %v", err)
	}
	if got := img.Bounds().Dx(); got != 200+2*(polaroid.Padding+polaroid.Border) {
		t.Errorf("width = %d", got)
	}
}

func TestApplyRenderFlagsReportsEveryError(t *testing.T) {
	m := polaroid.NewManager()
	renderWidth, renderHeight, renderFontSize, renderAlign = "wide", "0", "-1", "justify"
	t.Cleanup(func() { renderWidth, renderHeight, renderFontSize, renderAlign = "", "", "", "" })

	changed := func(name string) bool {
		switch name {
		case "width", "height", "font-size", "align":
			return true
		}
		return false
	}
	err := applyRenderFlags(m, changed)
	for _, want := range []error{polaroid.ErrInvalidDimension, polaroid.ErrInvalidStyleValue} {
		if !errors.Is(err, want) {
			t.Errorf("error %v does not match %v", err, want)
		}
	}
	for _, field := range []string{"width", "height", "fontSizePx", "textAlign"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not mention %s", err, field)
		}
	}
	if d := m.RenderDescriptor(); d.Frame != (polaroid.Size{Width: 300, Height: 350}) {
		t.Errorf("frame changed to %+v", d.Frame)
	}
}

func TestConfigInitShowPath(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "polaroid.yaml")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		polaroid.SetLogger(nil)
	})

	for _, args := range [][]string{
		{"config", "init"},
		{"config", "show"},
		{"config", "path"},
	} {
		rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}
	for _, want := range []string{"Wrote " + cfg, "font_family:", "max_sessions: 256", cfg} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
