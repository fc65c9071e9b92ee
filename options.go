package polaroid

import "log/slog"

// Option configures a Manager during creation.
//
// Example:
//
//	// Defaults: built-in decoder, no rasterizer (Export fails)
//	m := polaroid.NewManager()
//
//	// With a gg-backed rasterizer and a custom starting frame
//	r, _ := raster.New()
//	m := polaroid.NewManager(
//	    polaroid.WithRasterizer(r),
//	    polaroid.WithFrame(polaroid.FrameDimensions{Width: 400, Height: 400}),
//	)
type Option func(*managerOptions)

type managerOptions struct {
	decoder    Decoder
	rasterizer Rasterizer
	frame      FrameDimensions
	style      CaptionStyle
	logger     *slog.Logger
}

func defaultManagerOptions() managerOptions {
	return managerOptions{
		decoder: ImageDecoder{},
		frame:   DefaultFrame(),
		style:   DefaultStyle(),
	}
}

// WithDecoder replaces the image decoder. A nil decoder is ignored.
func WithDecoder(d Decoder) Option {
	return func(o *managerOptions) {
		if d != nil {
			o.decoder = d
		}
	}
}

// WithRasterizer sets the rasterizer used by Export.
func WithRasterizer(r Rasterizer) Option {
	return func(o *managerOptions) {
		o.rasterizer = r
	}
}

// WithFrame sets the initial frame dimensions.
// Invalid dimensions are replaced by DefaultFrame.
func WithFrame(f FrameDimensions) Option {
	return func(o *managerOptions) {
		o.frame = f
	}
}

// WithStyle sets the initial caption style.
// An invalid style is replaced by DefaultStyle.
func WithStyle(s CaptionStyle) Option {
	return func(o *managerOptions) {
		o.style = s
	}
}

// WithLogger sets a logger for this Manager only. Without it the Manager logs
// through the package-wide Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *managerOptions) {
		o.logger = l
	}
}
