package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastrohq/kellner/calls"
	"github.com/gastrohq/kellner/config"
	"github.com/gastrohq/kellner/dialog"
	"github.com/gastrohq/kellner/store"
)

type stubTurns struct {
	directive dialog.Directive
	lastTurn  dialog.Turn
}

func (s *stubTurns) HandleTurn(ctx context.Context, turn dialog.Turn) dialog.Directive {
	s.lastTurn = turn
	return s.directive
}

type stubRecords struct {
	reservations []store.Reservation
	order        *store.Order
	err          error
}

func (s *stubRecords) ListRecentReservations(ctx context.Context, limit int) ([]store.Reservation, error) {
	return s.reservations, s.err
}

func (s *stubRecords) GetOrder(ctx context.Context, id string) (*store.Order, error) {
	return s.order, s.err
}

func newTestServer(turns *stubTurns, records *stubRecords) *Server {
	cfg := &config.Config{Port: 0}
	registry := calls.NewRegistry("", "", time.Minute, zerolog.Nop())
	return New(cfg, turns, records, registry, zerolog.Nop())
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestVoiceWebhookFirstContact(t *testing.T) {
	turns := &stubTurns{directive: dialog.Directive{
		Say:    "Guten Tag.",
		Action: dialog.ActionRecord,
		Record: dialog.RecordParams{TimeoutSeconds: 4, MaxLengthSeconds: 20, Callback: "/transcribe"},
	}}
	srv := newTestServer(turns, &stubRecords{})

	w := postForm(t, srv.Handler(), "/voice", url.Values{"CallSid": {"CA1"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<Record")
	assert.Equal(t, "CA1", turns.lastTurn.CallID)
	assert.Empty(t, turns.lastTurn.Speech)
}

func TestVoiceWebhookTrimsSpeech(t *testing.T) {
	turns := &stubTurns{directive: dialog.Directive{Say: "Ok.", Action: dialog.ActionHangup}}
	srv := newTestServer(turns, &stubRecords{})

	postForm(t, srv.Handler(), "/voice", url.Values{
		"CallSid":      {"CA1"},
		"SpeechResult": {"  Tisch für zwei  "},
	})
	assert.Equal(t, "Tisch für zwei", turns.lastTurn.Speech)
}

func TestVoiceWebhookGeneratesSidWhenMissing(t *testing.T) {
	turns := &stubTurns{directive: dialog.Directive{Say: "Ok.", Action: dialog.ActionHangup}}
	srv := newTestServer(turns, &stubRecords{})

	postForm(t, srv.Handler(), "/voice", url.Values{"SpeechResult": {"Hallo"}})
	assert.NotEmpty(t, turns.lastTurn.CallID)
}

func TestTranscribeCallbacksAcknowledge(t *testing.T) {
	srv := newTestServer(&stubTurns{}, &stubRecords{})

	for _, path := range []string{"/transcribe", "/transcribe-sms"} {
		w := postForm(t, srv.Handler(), path, url.Values{
			"CallSid":           {"CA1"},
			"TranscriptionText": {"ja bitte"},
		})
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestAdminReservations(t *testing.T) {
	records := &stubRecords{reservations: []store.Reservation{
		{ID: "r2", Name: "Zweite"},
		{ID: "r1", Name: "Erste"},
	}}
	srv := newTestServer(&stubTurns{}, records)

	req := httptest.NewRequest(http.MethodGet, "/admin/reservations", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var rows []store.Reservation
	body, _ := io.ReadAll(w.Body)
	require.NoError(t, sonic.Unmarshal(body, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "r2", rows[0].ID)
}

func TestAdminReservationsEmpty(t *testing.T) {
	srv := newTestServer(&stubTurns{}, &stubRecords{})

	req := httptest.NewRequest(http.MethodGet, "/admin/reservations", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestAdminReservationsStoreError(t *testing.T) {
	srv := newTestServer(&stubTurns{}, &stubRecords{err: errors.New("database is locked")})

	req := httptest.NewRequest(http.MethodGet, "/admin/reservations", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAdminOrder(t *testing.T) {
	records := &stubRecords{order: &store.Order{ID: "ord-1", Items: `[{"name":"Pizza","qty":2}]`, Total: 19.5}}
	srv := newTestServer(&stubTurns{}, records)

	req := httptest.NewRequest(http.MethodGet, "/admin/orders/ord-1", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ord-1"`)
}

func TestAdminOrderAmbiguousReference(t *testing.T) {
	srv := newTestServer(&stubTurns{}, &stubRecords{err: store.ErrAmbiguousRef})

	req := httptest.NewRequest(http.MethodGet, "/admin/orders/ord", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminOrderNotFound(t *testing.T) {
	srv := newTestServer(&stubTurns{}, &stubRecords{})

	req := httptest.NewRequest(http.MethodGet, "/admin/orders/missing", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubTurns{directive: dialog.Directive{Say: "Ok.", Action: dialog.ActionHangup}}, &stubRecords{})

	postForm(t, srv.Handler(), "/voice", url.Values{"CallSid": {"CA1"}, "SpeechResult": {"Hallo"}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","active_calls":1}`, w.Body.String())
}
