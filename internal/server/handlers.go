package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gogpu/polaroid"
)

type sessionResponse struct {
	ID         string                    `json:"id"`
	State      string                    `json:"state"`
	Image      *imageInfo                `json:"image,omitempty"`
	Descriptor polaroid.RenderDescriptor `json:"descriptor"`
}

// imageInfo describes the uploaded photo as received.
type imageInfo struct {
	Format string `json:"format"`
	MIME   string `json:"mime"`
	Bytes  int    `json:"bytes"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func sessionView(id string, m *polaroid.Manager) sessionResponse {
	d := m.RenderDescriptor()
	v := sessionResponse{
		ID:         id,
		State:      m.State().String(),
		Descriptor: d,
	}
	if src := d.Image.Source; src != nil {
		v.Image = &imageInfo{
			Format: src.Format(),
			MIME:   src.MIME(),
			Bytes:  src.Len(),
			Width:  src.Width(),
			Height: src.Height(),
		}
	}
	return v
}

type errorResponse struct {
	Error  string       `json:"error"`
	Fields []fieldError `json:"fields,omitempty"`
	// Descriptor reflects the fields that were accepted alongside the rejected ones.
	Descriptor *polaroid.RenderDescriptor `json:"descriptor,omitempty"`
}

type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request, m *polaroid.Manager) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	data, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := m.IngestImage(r.Context(), data); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(r.PathValue("id"), m))
}

// readUpload returns the image payload from a raw body or from the "image"
// field of a multipart form.
func readUpload(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}
	f, _, err := r.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("multipart field %q: %w", "image", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) handleCaption(w http.ResponseWriter, r *http.Request, m *polaroid.Manager) {
	var req struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if req.Text == nil {
		writeError(w, http.StatusBadRequest, errors.New(`missing "text"`))
		return
	}
	m.SetCaptionText(*req.Text)
	writeJSON(w, http.StatusOK, sessionView(r.PathValue("id"), m))
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request, m *polaroid.Manager) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}

	var u polaroid.StyleUpdate
	var errs []error
	if _, ok := raw["fontSizePx"]; ok {
		if v, dup := raw["fontSize"]; dup {
			delete(raw, "fontSize")
			errs = append(errs, fieldErr("fontSize", v, polaroid.ErrInvalidStyleValue, errors.New(`conflicts with "fontSizePx"`)))
		}
	}
	for field, v := range raw {
		switch field {
		case "fontSizePx", "fontSize":
			n, err := pixelValue(v, polaroid.ParseFontSize)
			if err != nil {
				errs = append(errs, fieldErr("fontSizePx", v, polaroid.ErrInvalidStyleValue, err))
				continue
			}
			u.FontSizePx = &n
		case "fontFamily":
			u.FontFamily, errs = stringField(field, v, u.FontFamily, errs)
		case "textAlign":
			u.TextAlign, errs = stringField(field, v, u.TextAlign, errs)
		case "color":
			u.Color, errs = stringField(field, v, u.Color, errs)
		default:
			errs = append(errs, fieldErr(field, v, polaroid.ErrInvalidStyleValue, errors.New("unknown field")))
		}
	}
	if err := m.SetCaptionStyle(u); err != nil {
		errs = append(errs, err)
	}
	s.respondUpdate(w, r, m, errors.Join(errs...))
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request, m *polaroid.Manager) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}

	var u polaroid.FrameUpdate
	var errs []error
	for field, v := range raw {
		parse := func(s string) (int, error) { return polaroid.ParseDimension(field, s) }
		switch field {
		case "width", "height":
			n, err := pixelValue(v, parse)
			if err != nil {
				errs = append(errs, fieldErr(field, v, polaroid.ErrInvalidDimension, err))
				continue
			}
			if field == "width" {
				u.Width = &n
			} else {
				u.Height = &n
			}
		default:
			errs = append(errs, fieldErr(field, v, polaroid.ErrInvalidDimension, errors.New("unknown field")))
		}
	}
	if err := m.SetFrameDimensions(u); err != nil {
		errs = append(errs, err)
	}
	s.respondUpdate(w, r, m, errors.Join(errs...))
}

func (s *Server) respondUpdate(w http.ResponseWriter, r *http.Request, m *polaroid.Manager, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, sessionView(r.PathValue("id"), m))
		return
	}
	d := m.RenderDescriptor()
	writeJSON(w, statusFor(err), errorResponse{
		Error:      err.Error(),
		Fields:     collectFields(err),
		Descriptor: &d,
	})
}

// handleSource serves the uploaded photo back unchanged.
func (s *Server) handleSource(w http.ResponseWriter, r *http.Request, m *polaroid.Manager) {
	src := m.RenderDescriptor().Image.Source
	if src == nil {
		writeError(w, http.StatusNotFound, errors.New("no image uploaded"))
		return
	}
	data := src.Bytes()
	w.Header().Set("Content-Type", src.MIME())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, m *polaroid.Manager) {
	art, err := m.Export(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", art.MIME)
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Data); err != nil {
		s.logger.Warn("server: write export", "err", err)
	}
}

// pixelValue accepts a JSON number or a string such as "300px".
func pixelValue(v json.RawMessage, parse func(string) (int, error)) (int, error) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return parse(s)
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return 0, errors.New("not a number")
	}
	return parse(n.String())
}

func stringField(field string, v json.RawMessage, dst *string, errs []error) (*string, []error) {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return dst, append(errs, fieldErr(field, v, polaroid.ErrInvalidStyleValue, errors.New("must be a string")))
	}
	return &s, errs
}

func fieldErr(field string, v json.RawMessage, kind, cause error) error {
	var fe *polaroid.FieldError
	if errors.As(cause, &fe) {
		return fe
	}
	return &polaroid.FieldError{Field: field, Value: string(v), Kind: kind, Reason: cause.Error()}
}

// collectFields flattens joined field errors.
func collectFields(err error) []fieldError {
	var out []fieldError
	var walk func(error)
	walk = func(err error) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		var fe *polaroid.FieldError
		if errors.As(err, &fe) {
			out = append(out, fieldError{Field: fe.Field, Reason: fe.Reason})
		}
	}
	walk(err)
	return out
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, polaroid.ErrImageDecode),
		errors.Is(err, polaroid.ErrInvalidStyleValue),
		errors.Is(err, polaroid.ErrInvalidDimension):
		return http.StatusUnprocessableEntity
	case errors.Is(err, polaroid.ErrSuperseded),
		errors.Is(err, polaroid.ErrNoImageToExport):
		return http.StatusConflict
	case errors.Is(err, polaroid.ErrExportFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
