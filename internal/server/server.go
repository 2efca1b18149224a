// Package server exposes the watcher state over HTTP.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/push"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/timeutil"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/watcher"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Pusher is the push subsystem surface the server needs. Nil when push is
// not configured.
type Pusher interface {
	PublicKey() string
	Send(ctx context.Context, payload push.Payload) error
	Subscribe(ctx context.Context, sub model.PushSubscription) error
	Unsubscribe(ctx context.Context, endpoint string) error
}

// Server serves the display pages, the JSON API and the push endpoints.
type Server struct {
	watcher    *watcher.Watcher
	fetcher    watcher.PageFetcher
	pusher     Pusher
	production bool
	log        *slog.Logger
	templates  *template.Template
}

// New creates a Server over the given watcher.
func New(w *watcher.Watcher, fetcher watcher.PageFetcher, pusher Pusher, production bool, log *slog.Logger) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"formatDateTime": timeutil.FormatDateTime,
	}).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{
		watcher:    w,
		fetcher:    fetcher,
		pusher:     pusher,
		production: production,
		log:        log,
		templates:  tmpl,
	}, nil
}

// Handler returns the route table as an http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("GET /api/latest", s.handleAPILatest)
	mux.HandleFunc("GET /api/history", s.handleAPIHistory)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/push/public-key", s.handlePushPublicKey)
	mux.HandleFunc("POST /api/push/subscribe", s.handlePushSubscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.handlePushUnsubscribe)
	mux.HandleFunc("POST /api/push/test", s.handlePushTest)
	mux.HandleFunc("GET /debug/parse", s.handleDebugParse)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Latest    *model.OutageItem
		SourceURL string
	}{
		Latest:    s.watcher.Latest(),
		SourceURL: s.watcher.ChannelURL(),
	}
	s.render(w, "index.html.tmpl", data)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history := s.watcher.History()
	// Newest first for display.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	s.render(w, "history.html.tmpl", struct{ History []model.OutageItem }{history})
}

func (s *Server) handleAPILatest(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.watcher.Latest())
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	history := s.watcher.History()
	if history == nil {
		history = []model.OutageItem{}
	}
	s.respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var updatedAt *string
	if latest := s.watcher.Latest(); latest != nil {
		updatedAt = &latest.Date
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"updatedAt": updatedAt,
	})
}

func (s *Server) handlePushPublicKey(w http.ResponseWriter, r *http.Request) {
	if s.pusher == nil || s.pusher.PublicKey() == "" {
		s.respondError(w, http.StatusServiceUnavailable, "Push is not configured")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"publicKey": s.pusher.PublicKey()})
}

// subscriptionRequest matches the browser PushSubscription JSON shape.
type subscriptionRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (s *Server) handlePushSubscribe(w http.ResponseWriter, r *http.Request) {
	if s.pusher == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Push is not configured")
		return
	}
	var req subscriptionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil || req.Endpoint == "" {
		s.respondError(w, http.StatusBadRequest, "Invalid subscription")
		return
	}
	sub := model.PushSubscription{
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	}
	if err := s.pusher.Subscribe(r.Context(), sub); err != nil {
		s.log.Error("subscribe", "error", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to store subscription")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handlePushUnsubscribe(w http.ResponseWriter, r *http.Request) {
	if s.pusher == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Push is not configured")
		return
	}
	var req subscriptionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil || req.Endpoint == "" {
		s.respondError(w, http.StatusBadRequest, "Invalid subscription")
		return
	}
	if err := s.pusher.Unsubscribe(r.Context(), req.Endpoint); err != nil {
		s.log.Error("unsubscribe", "error", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to remove subscription")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handlePushTest(w http.ResponseWriter, r *http.Request) {
	if s.production {
		s.respondError(w, http.StatusNotFound, "Not found")
		return
	}
	if s.pusher == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Push is not configured")
		return
	}
	payload := push.Payload{
		Title: "Тестове сповіщення",
		Body:  "Push-сповіщення працюють.",
		URL:   "/",
	}
	if err := s.pusher.Send(r.Context(), payload); err != nil {
		s.log.Error("test push", "error", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to send")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDebugParse(w http.ResponseWriter, r *http.Request) {
	if s.production {
		s.respondError(w, http.StatusNotFound, "Not found")
		return
	}
	url := r.URL.Query().Get("url")
	if url == "" {
		url = s.watcher.ChannelURL()
	}
	body, err := s.fetcher.Fetch(r.Context(), url)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch: %v", err))
		return
	}
	result, err := s.watcher.DebugParse(body)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Parse failed")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("render template", "template", name, "error", err)
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("marshal response", "error", err)
		http.Error(w, `{"error":"Failed to marshal response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respondJSON(w, code, map[string]string{"error": message})
}
