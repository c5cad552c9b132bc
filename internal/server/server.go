// Package server exposes a styling engine over HTTP: style objects are
// posted in, class names come back, and the resulting sheet is served as CSS
// and streamed to live clients.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/recera/vango-styles/pkg/live"
	"github.com/recera/vango-styles/pkg/styling"
	"github.com/recera/vango-styles/pkg/styling/sheet"
)

// maxBody bounds a posted style object
const maxBody = 1 << 20

// Options configures a Server
type Options struct {
	Engine *styling.Engine
	Live   *live.Server
	Logger *zap.Logger

	// Gatherer enables GET /metrics when set
	Gatherer prometheus.Gatherer
	// LivePath is where the websocket endpoint is mounted, "/live" by default
	LivePath string
}

// Server serves the engine's sheet
type Server struct {
	engine   *styling.Engine
	live     *live.Server
	sheet    *styling.Sheet
	log      *zap.Logger
	gatherer prometheus.Gatherer
	livePath string
}

// ClassesResponse is the reply to POST /classes
type ClassesResponse struct {
	ClassName string   `json:"className"`
	Rules     []string `json:"rules"`
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
	Path  string `json:"path,omitempty"`
}

// New creates a server. Missing options get fresh defaults.
func New(opts Options) (*Server, error) {
	s := &Server{
		engine:   opts.Engine,
		live:     opts.Live,
		log:      opts.Logger,
		gatherer: opts.Gatherer,
		livePath: opts.LivePath,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.Named("server")
	if s.engine == nil {
		s.engine = styling.New(styling.WithLogger(opts.Logger))
	}
	if s.live == nil {
		s.live = live.NewServer(live.WithLogger(opts.Logger))
	}
	if s.livePath == "" {
		s.livePath = "/live"
	}

	var err error
	if s.sheet, err = styling.Attach(s.live); err != nil {
		return nil, err
	}
	return s, nil
}

// Engine returns the server's engine
func (s *Server) Engine() *styling.Engine {
	return s.engine
}

// Live returns the live sheet server
func (s *Server) Live() *live.Server {
	return s.live
}

// Sheet returns the attached sheet every commit goes to
func (s *Server) Sheet() *styling.Sheet {
	return s.sheet
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/styles.css", s.handleCSS)
	r.Get("/styles.html", s.handleStyleTag)
	r.Post("/classes", s.handleClasses)
	r.Handle(s.livePath, s.live)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) handleCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := s.live.Sheet().WriteTo(w); err != nil {
		s.log.Debug("Failed to write sheet", zap.Error(err))
	}
}

func (s *Server) handleStyleTag(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := sheet.WriteStyleTag(w, s.live.Sheet(), ""); err != nil {
		s.log.Debug("Failed to write style tag", zap.Error(err))
	}
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	obj, err := styling.DecodeObject(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	records, className, err := s.engine.Compute(obj)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.engine.Commit(records, s.sheet); err != nil {
		s.log.Warn("Commit failed", zap.String("class", className), zap.Error(err))
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	resp := ClassesResponse{ClassName: className, Rules: make([]string, 0, len(records))}
	for _, rec := range records {
		resp.Rules = append(resp.Rules, rec.Rule)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var se *styling.SchemaError
	if errors.As(err, &se) {
		resp.Path = se.Path
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debug("Failed to encode response", zap.Error(err))
	}
}
