package polaroid

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// State is the lifecycle state of a Manager.
type State int

const (
	// StateEmpty means no image has been ingested yet.
	StateEmpty State = iota
	// StateComposing means an image is present and can be exported.
	StateComposing
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateComposing:
		return "composing"
	default:
		return "unknown"
	}
}

// Manager owns the editable composition of one editing session.
//
// All methods are safe for concurrent use. Mutations are applied atomically;
// decoding and rasterizing run without holding the lock.
type Manager struct {
	mu sync.Mutex

	// seq is the token of the most recent IngestImage call.
	seq   uint64
	src   *SourceImage
	frame FrameDimensions
	text  string
	style CaptionStyle

	decoder    Decoder
	rasterizer Rasterizer
	logger     *slog.Logger
}

// NewManager creates a Manager in StateEmpty.
func NewManager(opts ...Option) *Manager {
	o := defaultManagerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager{
		frame:      o.frame,
		style:      o.style,
		decoder:    o.decoder,
		rasterizer: o.rasterizer,
		logger:     o.logger,
	}
	if err := m.frame.Validate(); err != nil {
		m.log().Warn("polaroid: invalid initial frame, using default", "err", err)
		m.frame = DefaultFrame()
	}
	if err := m.style.Validate(); err != nil {
		m.log().Warn("polaroid: invalid initial style, using default", "err", err)
		m.style = DefaultStyle()
	}
	return m
}

func (m *Manager) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return Logger()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.src == nil {
		return StateEmpty
	}
	return StateComposing
}

// IngestImage decodes data and makes it the source image.
//
// On decode failure the previous state is kept and the returned error matches
// ErrImageDecode. If another IngestImage starts before this one finishes
// decoding, this result is discarded and ErrSuperseded is returned, so the
// visible state always belongs to the latest upload.
func (m *Manager) IngestImage(ctx context.Context, data []byte) error {
	m.mu.Lock()
	m.seq++
	token := m.seq
	decoder := m.decoder
	m.mu.Unlock()

	src, err := decoder.Decode(ctx, data)

	m.mu.Lock()
	defer m.mu.Unlock()

	if token != m.seq {
		m.log().Debug("polaroid: discarding stale decode", "token", token, "latest", m.seq)
		return ErrSuperseded
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		if !errors.Is(err, ErrImageDecode) {
			err = &DecodeError{Err: err}
		}
		m.log().Warn("polaroid: image decode failed", "bytes", len(data), "err", err)
		return err
	}
	if src == nil || src.Image() == nil {
		return &DecodeError{Err: errors.New("decoder returned no image")}
	}

	if m.src == nil {
		m.log().Debug("polaroid: state transition", "from", StateEmpty, "to", StateComposing)
	}
	m.src = src
	m.log().Info("polaroid: image ingested",
		"format", src.Format(), "width", src.Width(), "height", src.Height())
	return nil
}

// SetCaptionText replaces the caption text. Any string is accepted.
func (m *Manager) SetCaptionText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
}

// SetCaptionStyle merges u into the caption style. Every invalid field is
// rejected on its own; the other fields still apply. The returned error joins
// one *FieldError per rejected field, each matching ErrInvalidStyleValue.
func (m *Manager) SetCaptionStyle(u StyleUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	style, err := m.style.merge(u)
	m.style = style
	if err != nil {
		m.log().Debug("polaroid: style fields rejected", "err", err)
	}
	return err
}

// SetFrameDimensions merges u into the frame dimensions with the same
// per-field discipline as SetCaptionStyle; rejections match ErrInvalidDimension.
func (m *Manager) SetFrameDimensions(u FrameUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	frame, err := m.frame.merge(u)
	m.frame = frame
	if err != nil {
		m.log().Debug("polaroid: frame fields rejected", "err", err)
	}
	return err
}

// RenderDescriptor derives the current RenderDescriptor. It has no side
// effects and does not depend on earlier calls.
func (m *Manager) RenderDescriptor() RenderDescriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return describe(m.src, m.frame, m.text, m.style)
}

// Export rasterizes a snapshot of the composition.
//
// In StateEmpty it returns ErrNoImageToExport without calling the rasterizer.
// A rasterizer failure is returned as an *ExportError matching
// ErrExportFailed. Export never changes the composition, so a failed export
// can simply be retried. Concurrent exports each draw their own snapshot.
func (m *Manager) Export(ctx context.Context) (*Artifact, error) {
	m.mu.Lock()
	d := describe(m.src, m.frame, m.text, m.style)
	r := m.rasterizer
	m.mu.Unlock()

	if !d.HasImage {
		return nil, ErrNoImageToExport
	}
	if r == nil {
		return nil, &ExportError{Err: errors.New("no rasterizer configured")}
	}

	data, err := r.Rasterize(ctx, d)
	if err != nil {
		m.log().Warn("polaroid: export failed", "err", err)
		return nil, &ExportError{Err: err}
	}

	f := r.Format()
	m.log().Info("polaroid: exported", "format", string(f), "bytes", len(data),
		"frame_width", d.Frame.Width, "frame_height", d.Frame.Height)
	return &Artifact{
		Data:       data,
		MIME:       f.MIME(),
		Filename:   ExportBaseName + "." + f.Extension(),
		Descriptor: d,
	}, nil
}
