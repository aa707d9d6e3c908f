package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"client-manager/internal/domain"
	"client-manager/internal/logging"
	"client-manager/internal/usecase"
)

// Server is a primary adapter that exposes HTTP API + UI.
// It depends on the use case (primary port).
type Server struct {
	usecase usecase.ClientManager
	server  *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(uc usecase.ClientManager, addr string) *Server {
	srv := &Server{usecase: uc}
	srv.server = &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestID)
	r.Use(loggingMiddleware)

	r.Get("/", s.handleRoot)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/sectormap", s.handleSectorMap)

		r.Post("/draft", s.handleBeginDraft)
		r.Patch("/draft", s.handleEditDraft)
		r.Delete("/draft", s.handleCancelDraft)
		r.Post("/draft/commit", s.handleCommitDraft)

		r.Patch("/devices/{index}", s.handleEditDevice)
		r.Delete("/devices/{index}", s.handleRemoveDevice)
	})
	return r
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, frameToView(s.usecase.Current()))
}

func (s *Server) handleSectorMap(w http.ResponseWriter, r *http.Request) {
	bars := domain.SectorMap(s.usecase.Current().Devices)
	out := make([]sectorBarView, 0, len(bars))
	for _, b := range bars {
		out = append(out, sectorBarView{Name: b.Name, Offset: b.Offset, Width: b.Width})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleBeginDraft(w http.ResponseWriter, r *http.Request) {
	frame, err := s.usecase.BeginDraft()
	s.respondFrame(w, frame, err)
}

func (s *Server) handleEditDraft(w http.ResponseWriter, r *http.Request) {
	var req editPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	frame, err := s.usecase.EditDraft(domain.DeviceEdit{
		Name:         req.Name,
		FrequencyMin: req.FrequencyMin,
		FrequencyMax: req.FrequencyMax,
	})
	s.respondFrame(w, frame, err)
}

func (s *Server) handleCancelDraft(w http.ResponseWriter, r *http.Request) {
	frame, err := s.usecase.CancelDraft()
	s.respondFrame(w, frame, err)
}

func (s *Server) handleCommitDraft(w http.ResponseWriter, r *http.Request) {
	frame, err := s.usecase.CommitDraft()
	s.respondFrame(w, frame, err)
}

func (s *Server) handleEditDevice(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid device index")
		return
	}
	var req editPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name != nil {
		respondError(w, http.StatusBadRequest, "committed devices cannot be renamed")
		return
	}
	frame, err := s.usecase.EditDevice(index, domain.DeviceEdit{
		FrequencyMin: req.FrequencyMin,
		FrequencyMax: req.FrequencyMax,
	})
	s.respondFrame(w, frame, err)
}

func (s *Server) handleRemoveDevice(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid device index")
		return
	}
	frame, err := s.usecase.RemoveDevice(index)
	s.respondFrame(w, frame, err)
}

// respondFrame maps frame errors onto status codes. A name collision still
// returns the frame so the client can render the warning.
func (s *Server) respondFrame(w http.ResponseWriter, frame domain.Frame, err error) {
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, frameToView(frame))
	case errors.Is(err, domain.ErrDuplicateName):
		respondJSON(w, http.StatusConflict, frameToView(frame))
	case errors.Is(err, domain.ErrNoDraft):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrDeviceIndex):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		logging.Errorf("request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

type editPayload struct {
	Name         *string  `json:"name"`
	FrequencyMin *float64 `json:"frequency_min"`
	FrequencyMax *float64 `json:"frequency_max"`
}

type deviceView struct {
	Index          int      `json:"index"`
	Name           string   `json:"name"`
	FrequencyMin   float64  `json:"frequency_min"`
	FrequencyMax   float64  `json:"frequency_max"`
	Sectors        []string `json:"sectors"`
	PendingRemoval bool     `json:"pending_removal"`
	Inverted       bool     `json:"inverted"`
}

type draftView struct {
	Name         string   `json:"name"`
	FrequencyMin float64  `json:"frequency_min"`
	FrequencyMax float64  `json:"frequency_max"`
	Sectors      []string `json:"sectors"`
}

type frameView struct {
	Label   string       `json:"label"`
	Devices []deviceView `json:"devices"`
	Draft   *draftView   `json:"draft"`
	Warn    bool         `json:"warn"`
	Message string       `json:"message,omitempty"`
	Removed int          `json:"removed,omitempty"`
}

type sectorBarView struct {
	Name   string  `json:"name"`
	Offset float64 `json:"offset"`
	Width  float64 `json:"width"`
}

func frameToView(f domain.Frame) frameView {
	v := frameView{
		Label:   f.Label,
		Devices: make([]deviceView, 0, len(f.Devices)),
		Warn:    f.Warn,
		Removed: f.Removed,
	}
	for _, d := range f.Devices {
		v.Devices = append(v.Devices, deviceView(d))
	}
	if f.Draft != nil {
		sectors := make([]string, len(f.Draft.Sectors))
		for i, s := range f.Draft.Sectors {
			sectors[i] = string(s)
		}
		v.Draft = &draftView{
			Name:         f.Draft.Name,
			FrequencyMin: f.Draft.FrequencyMin,
			FrequencyMax: f.Draft.FrequencyMax,
			Sectors:      sectors,
		}
	}
	if f.Warn {
		v.Message = domain.WarnMessage
	}
	return v
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("encode JSON: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"code": status, "message": message})
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger := logging.Logger()
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", w.Header().Get("X-Request-ID")).
			Msg("http request")
	})
}
