package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"Radon/internal/domain/models"
	domrepo "Radon/internal/domain/repository"
	icache "Radon/internal/service/cache"
	"Radon/internal/usecase"
	xhttp "Radon/pkg/http"
	"Radon/pkg/logger"
)

type stubSignalStore struct {
	evs []*models.SignalEvent
}

func (s *stubSignalStore) Init(context.Context) error                       { return nil }
func (s *stubSignalStore) Store(context.Context, *models.SignalEvent) error { return nil }
func (s *stubSignalStore) StoreBatch(context.Context, []*models.SignalEvent) error {
	return nil
}
func (s *stubSignalStore) BySymbol(context.Context, string, string, int) ([]*models.SignalEvent, error) {
	return s.evs, nil
}
func (s *stubSignalStore) Recent(context.Context, int) ([]*models.SignalEvent, error) {
	return s.evs, nil
}
func (s *stubSignalStore) Close() error { return nil }

type stubBarSource struct {
	bars []models.Bar
}

func (s *stubBarSource) GetBars(context.Context, string, domrepo.Interval, int) ([]models.Bar, error) {
	return s.bars, nil
}

type stubQueue struct {
	types    []string
	payloads []interface{}
}

func (q *stubQueue) PublishMessage(_ context.Context, msgType string, payload interface{}) error {
	q.types = append(q.types, msgType)
	q.payloads = append(q.payloads, payload)
	return nil
}

// decodeEnvelope unwraps the {status, message, data} envelope. Responses
// always arrive over HTTP 200; the semantic status lives inside it.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) xhttp.APIResponse {
	t.Helper()
	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v: %s", err, rec.Body.String())
	}
	return resp
}

func newTestHandler(t *testing.T, store *stubSignalStore, src *stubBarSource, q *stubQueue) *SignalsEchoHandler {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewSignalsEchoHandler(l, usecase.NewSignalsUseCase(store), usecase.NewBarsUseCase(src, nil), q)
}

func TestSignalsEndpoint(t *testing.T) {
	store := &stubSignalStore{evs: []*models.SignalEvent{
		{ID: "1", Symbol: "TCS", Interval: "15m", Label: "buy", Timestamp: time.Now()},
	}}
	h := newTestHandler(t, store, &stubBarSource{}, &stubQueue{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/signals?symbol=TCS", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Signals(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"TCS"`) {
		t.Fatalf("response missing symbol: %s", rec.Body.String())
	}
}

func TestSignalsEndpointMissingSymbol(t *testing.T) {
	h := newTestHandler(t, &stubSignalStore{}, &stubBarSource{}, &stubQueue{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/signals", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Signals(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if env := decodeEnvelope(t, rec); env.Status != http.StatusBadRequest {
		t.Fatalf("envelope status %d, want 400: %s", env.Status, rec.Body.String())
	}
}

func TestScanEndpointEnqueues(t *testing.T) {
	q := &stubQueue{}
	h := newTestHandler(t, &stubSignalStore{}, &stubBarSource{}, q)

	e := echo.New()
	body := `{"symbols": ["TCS", "INFY"], "profile": "light"}`
	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Scan(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if env := decodeEnvelope(t, rec); env.Status != http.StatusCreated {
		t.Fatalf("envelope status %d, want 201: %s", env.Status, rec.Body.String())
	}
	if len(q.types) != 1 || q.types[0] != usecase.ScanMessageType {
		t.Fatalf("scan not enqueued: %v", q.types)
	}
	p, ok := q.payloads[0].(usecase.ScanPayload)
	if !ok {
		t.Fatalf("payload type %T", q.payloads[0])
	}
	if len(p.Symbols) != 2 || p.Profile != "light" || p.Interval != "15m" {
		t.Fatalf("payload wrong: %+v", p)
	}
}

func TestScanEndpointEmptyBasket(t *testing.T) {
	q := &stubQueue{}
	h := newTestHandler(t, &stubSignalStore{}, &stubBarSource{}, q)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"symbols": []}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Scan(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if env := decodeEnvelope(t, rec); env.Status != http.StatusBadRequest {
		t.Fatalf("envelope status %d, want 400: %s", env.Status, rec.Body.String())
	}
	if len(q.types) != 0 {
		t.Fatalf("invalid basket must not be enqueued")
	}
}

func TestSignalsEndpointCacheHitKeepsEnvelope(t *testing.T) {
	store := &stubSignalStore{evs: []*models.SignalEvent{
		{ID: "1", Symbol: "TCS", Interval: "15m", Label: "buy", Timestamp: time.Now()},
	}}
	h := newTestHandler(t, store, &stubBarSource{}, &stubQueue{})
	h.SetCache(icache.NewTTLCache())

	e := echo.New()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/signals?symbol=TCS", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := h.Signals(c); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		env := decodeEnvelope(t, rec)
		if env.Status != http.StatusOK || env.Data == nil {
			t.Fatalf("call %d: envelope status %d data %v", i, env.Status, env.Data)
		}
	}
}

func TestOverviewEndpoint(t *testing.T) {
	store := &stubSignalStore{evs: []*models.SignalEvent{
		{ID: "1", Symbol: "TCS", Interval: "15m", Label: "buy", Timestamp: time.Now()},
	}}
	src := &stubBarSource{bars: []models.Bar{
		{Symbol: "TCS", Interval: "15m", Timestamp: time.Now(), Close: 4100},
	}}
	h := newTestHandler(t, store, src, &stubQueue{})
	h.SetOverview(usecase.NewOverviewUseCase(src, store))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/overview?symbol=TCS", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Overview(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "4100") {
		t.Fatalf("response missing last bar: %s", rec.Body.String())
	}
}

func TestBarsEndpoint(t *testing.T) {
	src := &stubBarSource{bars: []models.Bar{
		{Symbol: "TCS", Interval: "15m", Timestamp: time.Now(), Close: 4100},
	}}
	h := newTestHandler(t, &stubSignalStore{}, src, &stubQueue{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/bars?symbol=TCS&n=100", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Bars(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "4100") {
		t.Fatalf("response missing bar close: %s", rec.Body.String())
	}
}
