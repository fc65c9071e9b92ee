package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/polaroid"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Frame != polaroid.DefaultFrame() || cfg.Style != polaroid.DefaultStyle() {
		t.Error("defaults should match the polaroid package defaults")
	}
	if cfg.ExportFormat() != polaroid.FormatPNG {
		t.Errorf("ExportFormat() = %q", cfg.ExportFormat())
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	l := NewLoaderWithPath(filepath.Join(t.TempDir(), "nope.yaml"))
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Server.Addr != "localhost:8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("POLAROID_TEST_ADDR", ":9999")
	content := `server:
  addr: ${POLAROID_TEST_ADDR}
  session_ttl: 5m
frame:
  width: 500
style:
  text_align: left
export:
  format: jpg
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoaderWithPath(path).Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Addr = %q, want env expansion", cfg.Server.Addr)
	}
	if cfg.Server.SessionTTL != 5*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.Server.SessionTTL)
	}
	if cfg.Frame.Width != 500 || cfg.Frame.Height != 350 {
		t.Errorf("Frame = %+v, want 500x350", cfg.Frame)
	}
	if cfg.Style.TextAlign != polaroid.AlignLeft || cfg.Style.FontSizePx != 18 {
		t.Errorf("Style = %+v", cfg.Style)
	}
	if cfg.ExportFormat() != polaroid.FormatJPEG {
		t.Errorf("ExportFormat() = %q", cfg.ExportFormat())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `frame:
  height: -2
style:
  font_family: Comic Sans MS
fonts:
  Wingdings: /tmp/w.ttf
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewLoaderWithPath(path).Load()
	if err == nil {
		t.Fatal("Load() succeeded, want validation error")
	}
	for _, want := range []string{"frame", "style", "Wingdings"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestInitAndSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	l := NewLoaderWithPath(path)
	if l.Exists() {
		t.Fatal("Exists() before Init")
	}
	if err := l.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	if err := l.Init(); err == nil {
		t.Error("second Init() should fail")
	}

	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Fonts = map[string]string{polaroid.FamilyGeorgia: "/fonts/georgia.ttf"}
	cfg.Export.ComplexShaping = true
	if err := l.Save(cfg); err != nil {
		t.Fatal(err)
	}

	got, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.Fonts[polaroid.FamilyGeorgia] != "/fonts/georgia.ttf" || !got.Export.ComplexShaping {
		t.Errorf("round trip lost settings: %+v", got)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("POLAROID_X", "1")
	if got := expandEnvVars("a ${POLAROID_X} ${POLAROID_UNSET_VAR}"); got != "a 1 ${POLAROID_UNSET_VAR}" {
		t.Errorf("expandEnvVars = %q", got)
	}
}
