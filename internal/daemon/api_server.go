package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"vibeline/internal/api"
	"vibeline/internal/config"
	"vibeline/internal/logging"
	"vibeline/internal/services"
)

const (
	maxBodyBytes        = 64 << 10
	correlationIDHeader = "X-Correlation-ID"
)

type apiServer struct {
	bind     string
	logger   *slog.Logger
	daemon   *Daemon
	origins  []string
	token    string
	ping     time.Duration
	upgrader websocket.Upgrader
	handler  http.Handler

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	s := &apiServer{
		bind:    strings.TrimSpace(cfg.Server.APIBind),
		logger:  logging.NewComponentLogger(logger, "api-server"),
		daemon:  d,
		origins: cfg.Server.AllowedOrigins,
		token:   cfg.Server.APIToken,
		ping:    cfg.WSPingInterval(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/requests", s.handleList)
	mux.HandleFunc("POST /api/requests", s.handleSubmit)
	mux.HandleFunc("DELETE /api/requests", requireToken(s.token, s.handleClear))
	mux.HandleFunc("GET /api/requests/{id}", s.handleDescribe)
	mux.HandleFunc("POST /api/requests/{id}/status", requireToken(s.token, s.handleTransition))
	mux.HandleFunc("POST /api/requests/{id}/shoutout", requireToken(s.token, s.handleShoutout))
	mux.HandleFunc("GET /api/preferences", s.handlePreferences)
	mux.HandleFunc("POST /api/preferences/tags", requireToken(s.token, s.handleAddTag))
	mux.HandleFunc("DELETE /api/preferences/tags/{tag}", requireToken(s.token, s.handleRemoveTag))
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/ws", s.handleWS)
	s.handler = s.withCorrelation(s.withCORS(mux))
	return s
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.mu.Lock()
	s.listener = listener
	s.server = server
	s.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		_ = server.Close()
	}
}

func (s *apiServer) addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.daemon.Status(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *apiServer) handleList(w http.ResponseWriter, r *http.Request) {
	resp, err := s.daemon.service.List(r.Context(), api.ListRequest{UserID: r.URL.Query().Get("user")})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req api.SubmitRequest
	if !s.decode(w, r, &req) {
		return
	}
	item, err := s.daemon.service.Submit(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.ItemResponse{Item: item})
}

func (s *apiServer) handleDescribe(w http.ResponseWriter, r *http.Request) {
	item, err := s.daemon.service.Describe(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ItemResponse{Item: item})
}

func (s *apiServer) handleTransition(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	item, err := s.daemon.service.Transition(r.Context(), api.TransitionRequest{ID: r.PathValue("id"), Status: body.Status})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ItemResponse{Item: item})
}

func (s *apiServer) handleClear(w http.ResponseWriter, r *http.Request) {
	resp, err := s.daemon.service.Clear(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleShoutout(w http.ResponseWriter, r *http.Request) {
	resp, err := s.daemon.service.Shoutout(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handlePreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.daemon.service.Preferences(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *apiServer) handleAddTag(w http.ResponseWriter, r *http.Request) {
	var req api.TagRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.daemon.service.AddTag(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleRemoveTag(w http.ResponseWriter, r *http.Request) {
	resp, err := s.daemon.service.RemoveTag(r.Context(), api.TagRequest{Tag: r.PathValue("tag")})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := api.EventsRequest{Follow: query.Get("follow") == "1" || strings.EqualFold(query.Get("follow"), "true")}
	if value := query.Get("since"); value != "" {
		since, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid since"})
			return
		}
		req.Since = since
	}
	if value := query.Get("limit"); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		req.Limit = limit
	}
	if value := query.Get("wait"); value != "" {
		if wait, err := strconv.Atoi(value); err == nil {
			req.WaitMillis = wait
		}
	}
	resp, err := s.daemon.Events(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(target); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

// statusFor maps error markers to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *apiServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), "api request failed", "api_request_failed",
			logging.Error(err),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String(logging.FieldErrorHint, "check storage backend health"),
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *apiServer) withCorrelation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(correlationIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(correlationIDHeader, id)
		ctx := services.WithCorrelationID(r.Context(), id)
		logging.WithContext(ctx, s.logger).Debug("api request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *apiServer) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originListed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+correlationIDHeader)
			h.Set("Access-Control-Expose-Headers", correlationIDHeader)
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *apiServer) originListed(origin string) bool {
	origin = strings.TrimRight(origin, "/")
	return slices.ContainsFunc(s.origins, func(allowed string) bool {
		return allowed == "*" || strings.EqualFold(allowed, origin)
	})
}

// checkOrigin admits listed origins and same-origin requests. Non-browser
// clients send no Origin header and are always admitted.
func (s *apiServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || s.originListed(origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
