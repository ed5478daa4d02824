package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gastrohq/kellner/calls"
	"github.com/gastrohq/kellner/config"
	"github.com/gastrohq/kellner/dialog"
	"github.com/gastrohq/kellner/store"
	"github.com/gastrohq/kellner/twiml"
)

const adminListLimit = 200

// TurnHandler is the dialog seam; see dialog.Orchestrator.
type TurnHandler interface {
	HandleTurn(ctx context.Context, turn dialog.Turn) dialog.Directive
}

// RecordReader is the operator-facing read surface; see store.Store.
type RecordReader interface {
	ListRecentReservations(ctx context.Context, limit int) ([]store.Reservation, error)
	GetOrder(ctx context.Context, id string) (*store.Order, error)
}

// Server exposes the telephony webhooks and the operator endpoints.
type Server struct {
	httpServer *http.Server
	dialog     TurnHandler
	records    RecordReader
	registry   *calls.Registry
	log        zerolog.Logger
}

func New(cfg *config.Config, turns TurnHandler, records RecordReader, registry *calls.Registry, log zerolog.Logger) *Server {
	s := &Server{
		dialog:   turns,
		records:  records,
		registry: registry,
		log:      log.With().Str("component", "server").Logger(),
	}

	r := chi.NewRouter()
	r.Post("/voice", s.handleVoice)
	r.Post(dialog.TranscribeCallback, s.handleTranscribe)
	r.Post(dialog.SMSConfirmCallback, s.handleTranscribeSMS)
	r.Get("/admin/reservations", s.handleAdminReservations)
	r.Get("/admin/orders/{id}", s.handleAdminOrder)
	r.Get("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for webhooks.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("voice agent listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down")
	return s.httpServer.Shutdown(ctx)
}

// handleVoice is the inbound call-turn webhook. The provider sends a
// form-encoded body with CallSid and, after the first turn, a
// SpeechResult transcript.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	speech := strings.TrimSpace(r.PostFormValue("SpeechResult"))
	sid := r.PostFormValue("CallSid")
	if sid == "" {
		// Without a provider sid there is nothing stable to correlate
		// on; a fresh id covers this turn only.
		sid = uuid.New().String()
	}
	s.registry.Touch(r.Context(), sid)

	directive := s.dialog.HandleTurn(r.Context(), dialog.Turn{CallID: sid, Speech: speech})

	body, err := twiml.Render(directive)
	if err != nil {
		s.log.Error().Err(err).Str("call_id", sid).Msg("twiml rendering failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write(body)
}

// handleTranscribe receives transcription callbacks. Accepted, not yet
// processed.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s.log.Info().
		Str("call_id", r.PostFormValue("CallSid")).
		Str("text", r.PostFormValue("TranscriptionText")).
		Msg("transcription callback")
	w.WriteHeader(http.StatusOK)
}

// handleTranscribeSMS receives the yes/no follow-up after a reservation
// confirmation. Accepted, not yet processed.
func (s *Server) handleTranscribeSMS(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s.log.Info().
		Str("call_id", r.PostFormValue("CallSid")).
		Str("text", r.PostFormValue("TranscriptionText")).
		Msg("sms confirmation callback")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleAdminReservations(w http.ResponseWriter, r *http.Request) {
	rows, err := s.records.ListRecentReservations(r.Context(), adminListLimit)
	if err != nil {
		s.log.Error().Err(err).Msg("listing reservations failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []store.Reservation{}
	}
	s.writeJSON(w, rows)
}

func (s *Server) handleAdminOrder(w http.ResponseWriter, r *http.Request) {
	ord, err := s.records.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrAmbiguousRef) {
		http.Error(w, "ambiguous order reference", http.StatusConflict)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("fetching order failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if ord == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, ord)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","active_calls":%d}`, s.registry.ActiveCalls())
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
