package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	windowv1 "github.com/muhammadchandra19/signal-engine/internal/domain/window/v1"
	signalInfra "github.com/muhammadchandra19/signal-engine/internal/infrastructure/questdb/signal"
	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/muhammadchandra19/signal-engine/pkg/util"
)

const (
	// RequestIDHeader is echoed back and attached to the request context.
	RequestIDHeader = "X-Request-Id"

	defaultWindowCount  = 10
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

//go:generate mockgen -source server.go -destination=mock/server_mock.go -package=api_mock

// ForceCloser closes one open signal and reports the closure.
type ForceCloser interface {
	ForceClose(ctx context.Context, id string, price float64) (signalv1.ClosedSignal, error)
}

// SignalReader is the read view over live signals.
type SignalReader interface {
	OpenSignals(symbol string) []signalv1.Signal
	Get(id string) (signalv1.Signal, bool)
}

// WindowReader is the read view over the rolling windows.
type WindowReader interface {
	CurrentWindow(symbol string) (windowv1.WindowStats, bool)
	Windows(symbol string, count int) []windowv1.WindowStats
}

// HistoryReader queries persisted signal events.
type HistoryReader interface {
	GetByFilter(ctx context.Context, filter signalInfra.Filter) ([]*signalInfra.Event, error)
}

// Server serves the signal engine read API and manual force close.
type Server struct {
	engine  ForceCloser
	signals SignalReader
	windows WindowReader
	history HistoryReader
	logger  logger.Interface
}

// NewServer creates the API. history may be nil when the history sink is disabled.
func NewServer(engine ForceCloser, signals SignalReader, windows WindowReader, history HistoryReader, log logger.Interface) *Server {
	return &Server{
		engine:  engine,
		signals: signals,
		windows: windows,
		history: history,
		logger:  log,
	}
}

// Handler returns the routes under /api/v1 wrapped with CORS for origins.
func (s *Server) Handler(origins []string) http.Handler {
	router := mux.NewRouter()
	router.Use(requestID)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/symbols/{symbol}/signals", s.getOpenSignals).Methods(http.MethodGet)
	v1.HandleFunc("/symbols/{symbol}/windows", s.getWindows).Methods(http.MethodGet)
	v1.HandleFunc("/symbols/{symbol}/history", s.getHistory).Methods(http.MethodGet)
	v1.HandleFunc("/signals/{id}", s.getSignal).Methods(http.MethodGet)
	v1.HandleFunc("/signals/{id}/close", s.forceClose).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         3600,
	})
	return c.Handler(router)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := util.WithRequestID(r.Context(), r.Header.Get(RequestIDHeader))
		w.Header().Set(RequestIDHeader, util.GetRequestID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) getOpenSignals(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	signals := s.signals.OpenSignals(symbol)

	writeJSON(w, http.StatusOK, struct {
		Symbol  string            `json:"symbol"`
		Signals []signalv1.Signal `json:"signals"`
		Count   int               `json:"count"`
	}{Symbol: symbol, Signals: signals, Count: len(signals)})
}

func (s *Server) getWindows(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	count, err := intParam(r, "count", defaultWindowCount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	response := struct {
		Symbol  string                 `json:"symbol"`
		Current *windowv1.WindowStats  `json:"current,omitempty"`
		Sealed  []windowv1.WindowStats `json:"sealed"`
	}{Symbol: symbol, Sealed: s.windows.Windows(symbol, count)}
	if current, ok := s.windows.CurrentWindow(symbol); ok {
		response.Current = &current
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, r, errors.NewErrorDetails("signal history is disabled", string(errors.HistoryDisabled), ""))
		return
	}

	filter := signalInfra.Filter{
		Symbol:   mux.Vars(r)["symbol"],
		SignalID: r.URL.Query().Get("signal_id"),
	}
	limit, err := intParam(r, "limit", defaultHistoryLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter.Limit = min(limit, maxHistoryLimit)

	if filter.From, err = timeParam(r, "from"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if filter.To, err = timeParam(r, "to"); err != nil {
		s.writeError(w, r, err)
		return
	}

	events, err := s.history.GetByFilter(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if events == nil {
		events = []*signalInfra.Event{}
	}

	writeJSON(w, http.StatusOK, struct {
		Symbol string               `json:"symbol"`
		Events []*signalInfra.Event `json:"events"`
		Count  int                  `json:"count"`
	}{Symbol: filter.Symbol, Events: events, Count: len(events)})
}

func (s *Server) getSignal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	signal, ok := s.signals.Get(id)
	if !ok {
		s.writeError(w, r, errors.NewErrorDetails("signal not found", string(errors.UnknownSignal), "id"))
		return
	}
	writeJSON(w, http.StatusOK, signal)
}

type forceCloseRequest struct {
	Price float64 `json:"price"`
}

func (s *Server) forceClose(w http.ResponseWriter, r *http.Request) {
	var req forceCloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.NewErrorDetails("body must be a JSON object with a price", string(errors.InvalidRequest), "price"))
		return
	}
	if req.Price <= 0 || math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		s.writeError(w, r, errors.NewErrorDetails("price must be a positive number", string(errors.InvalidRequest), "price"))
		return
	}

	closed, err := s.engine.ForceClose(r.Context(), mux.Vars(r)["id"], req.Price)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, closed)
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, errors.NewErrorDetails(name+" must be a positive integer", string(errors.InvalidRequest), name)
	}
	return v, nil
}

func timeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, errors.NewErrorDetails(name+" must be an RFC 3339 timestamp", string(errors.InvalidRequest), name)
	}
	return &t, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

var statusByCode = map[errors.ErrorCode]int{
	errors.InvalidRequest:  http.StatusBadRequest,
	errors.UnknownSignal:   http.StatusNotFound,
	errors.AlreadyClosed:   http.StatusConflict,
	errors.EngineStopped:   http.StatusServiceUnavailable,
	errors.HistoryDisabled: http.StatusNotImplemented,
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var details *errors.ErrorDetails
	if stderrors.As(err, &details) {
		if status, ok := statusByCode[errors.ErrorCode(details.Code)]; ok {
			writeJSON(w, status, errorResponse{Code: details.Code, Message: details.Message, Field: details.Field})
			return
		}
	}

	s.logger.ErrorContext(r.Context(), errors.TracerFromError(err),
		logger.Field{Key: "action", Value: "serve_api"},
		logger.Field{Key: "path", Value: r.URL.Path},
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    string(errors.GeneralInternalServerError),
		Message: "internal error",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
