// Package server exposes polaroid editing sessions over HTTP.
package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/gogpu/polaroid"
)

// Options configures a Server.
type Options struct {
	MaxSessions    int
	SessionTTL     time.Duration
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Server keeps one polaroid.Manager per editing session. Idle sessions expire
// after SessionTTL; the least recently used one is dropped when MaxSessions
// is exceeded.
type Server struct {
	newManager func() *polaroid.Manager
	sessions   *expirable.LRU[string, *polaroid.Manager]
	maxUpload  int64
	logger     *slog.Logger
}

// New creates a Server. newManager is called once per created session.
func New(newManager func() *polaroid.Manager, opts Options) (*Server, error) {
	if newManager == nil {
		return nil, errors.New("server: manager factory required")
	}
	if opts.MaxSessions <= 0 {
		return nil, errors.New("server: MaxSessions must be positive")
	}
	if opts.MaxUploadBytes <= 0 {
		return nil, errors.New("server: MaxUploadBytes must be positive")
	}
	logger := opts.Logger
	if logger == nil {
		logger = polaroid.Logger()
	}

	s := &Server{
		newManager: newManager,
		maxUpload:  opts.MaxUploadBytes,
		logger:     logger,
	}
	s.sessions = expirable.NewLRU(opts.MaxSessions, func(id string, _ *polaroid.Manager) {
		s.logger.Debug("server: session evicted", "session", id)
	}, opts.SessionTTL)
	return s, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", s.handleCreate)
	mux.HandleFunc("GET /api/sessions/{id}", s.withSession(s.handleGet))
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDelete)
	mux.HandleFunc("PUT /api/sessions/{id}/image", s.withSession(s.handleImage))
	mux.HandleFunc("GET /api/sessions/{id}/image", s.withSession(s.handleSource))
	mux.HandleFunc("PUT /api/sessions/{id}/caption", s.withSession(s.handleCaption))
	mux.HandleFunc("PATCH /api/sessions/{id}/style", s.withSession(s.handleStyle))
	mux.HandleFunc("PATCH /api/sessions/{id}/frame", s.withSession(s.handleFrame))
	mux.HandleFunc("POST /api/sessions/{id}/export", s.withSession(s.handleExport))
	mux.HandleFunc("GET /api/fonts", s.handleFonts)
	return s.logMiddleware(mux)
}

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int {
	return s.sessions.Len()
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, m *polaroid.Manager)

func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := s.sessions.Get(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, errors.New("session not found"))
			return
		}
		h(w, r, m)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, _ *http.Request) {
	id, err := newSessionID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	m := s.newManager()
	s.sessions.Add(id, m)
	s.logger.Info("server: session created", "session", id)
	writeJSON(w, http.StatusCreated, sessionView(id, m))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, m *polaroid.Manager) {
	writeJSON(w, http.StatusOK, sessionView(r.PathValue("id"), m))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Remove(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFonts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"fontFamilies": polaroid.FontFamilies(),
		"textAligns":   []polaroid.TextAlign{polaroid.AlignLeft, polaroid.AlignCenter, polaroid.AlignRight},
	})
}

func newSessionID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("server: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
