package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/polaroid"
)

var (
	renderOutput     string
	renderText       string
	renderWidth      string
	renderHeight     string
	renderFontSize   string
	renderFontFamily string
	renderAlign      string
	renderColor      string
	renderFormat     string
)

var renderCmd = &cobra.Command{
	Use:   "render <image>",
	Short: "Render a polaroid print from an image file",
	Long: `Render a polaroid print from an image file.

Supported inputs: PNG, JPEG, GIF, WebP, BMP, TIFF.
Flags that are not given fall back to the configuration file.

Examples:
  polaroid render beach.jpg --text "Summer 2024"
  polaroid render beach.jpg --text "Summer 2024" --align right -o summer.png
  polaroid render cat.webp --width 400 --height 400 --font-family "Georgia, serif" --format jpeg`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOutput, "output", "o", "", `output file, "-" for stdout (default polaroid.<ext>)`)
	f.StringVarP(&renderText, "text", "t", "", "caption text")
	f.StringVar(&renderWidth, "width", "", "frame width in pixels")
	f.StringVar(&renderHeight, "height", "", "frame height in pixels")
	f.StringVar(&renderFontSize, "font-size", "", "caption font size in pixels")
	f.StringVar(&renderFontFamily, "font-family", "", "caption font family")
	f.StringVar(&renderAlign, "align", "", "caption alignment (left, center, right)")
	f.StringVar(&renderColor, "color", "", "caption color (#rrggbb or a color name)")
	f.StringVar(&renderFormat, "format", "", "output format (png, jpeg)")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var format polaroid.Format
	if renderFormat != "" {
		f, ok := polaroid.ParseFormat(renderFormat)
		if !ok {
			return fmt.Errorf("unsupported format %q", renderFormat)
		}
		format = f
	}

	r, err := newRenderer(cfg, format)
	if err != nil {
		return err
	}
	defer r.Close()

	m := newManager(cfg, r)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if err := m.IngestImage(ctx, data); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("text") {
		m.SetCaptionText(renderText)
	}
	if err := applyRenderFlags(m, flags.Changed); err != nil {
		return err
	}

	art, err := m.Export(ctx)
	if err != nil {
		return err
	}

	out := renderOutput
	if out == "" {
		out = art.Filename
	}
	if out == "-" {
		_, err = cmd.OutOrStdout().Write(art.Data)
		return err
	}
	if err := os.WriteFile(out, art.Data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s (%d bytes)\n", out, len(art.Data))
	return nil
}

// applyRenderFlags turns the frame and style flags into partial updates.
// Every bad flag is reported, not only the first.
func applyRenderFlags(m *polaroid.Manager, changed func(string) bool) error {
	var errs []error

	var frame polaroid.FrameUpdate
	if changed("width") {
		if n, err := polaroid.ParseDimension("width", renderWidth); err != nil {
			errs = append(errs, err)
		} else {
			frame.Width = &n
		}
	}
	if changed("height") {
		if n, err := polaroid.ParseDimension("height", renderHeight); err != nil {
			errs = append(errs, err)
		} else {
			frame.Height = &n
		}
	}
	errs = append(errs, m.SetFrameDimensions(frame))

	var style polaroid.StyleUpdate
	if changed("font-size") {
		if n, err := polaroid.ParseFontSize(renderFontSize); err != nil {
			errs = append(errs, err)
		} else {
			style.FontSizePx = &n
		}
	}
	if changed("font-family") {
		style.FontFamily = &renderFontFamily
	}
	if changed("align") {
		style.TextAlign = &renderAlign
	}
	if changed("color") {
		style.Color = &renderColor
	}
	errs = append(errs, m.SetCaptionStyle(style))

	return errors.Join(errs...)
}
