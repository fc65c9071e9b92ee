// Package config manages the polaroid configuration file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/polaroid"
)

// Config represents the application configuration.
type Config struct {
	Server ServerConfig             `yaml:"server"`
	Frame  polaroid.FrameDimensions `yaml:"frame"`
	Style  polaroid.CaptionStyle    `yaml:"style"`
	Export ExportConfig             `yaml:"export"`
	// Fonts maps an allowed font family to a TTF/OTF file that replaces the
	// embedded fallback.
	Fonts map[string]string `yaml:"fonts,omitempty"`
}

// ServerConfig configures the HTTP editor.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	MaxSessions    int           `yaml:"max_sessions"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

// ExportConfig configures the rasterizer.
type ExportConfig struct {
	Format         string `yaml:"format"`
	JPEGQuality    int    `yaml:"jpeg_quality"`
	ComplexShaping bool   `yaml:"complex_shaping"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           "localhost:8080",
			MaxSessions:    256,
			SessionTTL:     30 * time.Minute,
			MaxUploadBytes: 20 << 20,
		},
		Frame: polaroid.DefaultFrame(),
		Style: polaroid.DefaultStyle(),
		Export: ExportConfig{
			Format:      string(polaroid.FormatPNG),
			JPEGQuality: 90,
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Frame.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("frame: %w", err))
	}
	if err := c.Style.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("style: %w", err))
	}
	if _, ok := polaroid.ParseFormat(c.Export.Format); !ok {
		errs = append(errs, fmt.Errorf("export.format: unsupported format %q", c.Export.Format))
	}
	if q := c.Export.JPEGQuality; q < 1 || q > 100 {
		errs = append(errs, fmt.Errorf("export.jpeg_quality: %d out of range 1-100", q))
	}
	if c.Server.MaxSessions <= 0 {
		errs = append(errs, errors.New("server.max_sessions: must be positive"))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, errors.New("server.session_ttl: must be positive"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("server.max_upload_bytes: must be positive"))
	}
	for family := range c.Fonts {
		if !polaroid.ValidFontFamily(family) {
			errs = append(errs, fmt.Errorf("fonts: unknown font family %q", family))
		}
	}
	return errors.Join(errs...)
}

// ExportFormat returns the configured export format.
func (c *Config) ExportFormat() polaroid.Format {
	f, ok := polaroid.ParseFormat(c.Export.Format)
	if !ok {
		return polaroid.FormatPNG
	}
	return f
}
