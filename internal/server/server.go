// Package server exposes the GitHub tools over MCP on stdio and over a plain
// HTTP API, both backed by the same tool registry and dispatcher.
package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github-search-mcp/internal/tool"
)

// Config contains the HTTP facade settings.
type Config struct {
	Token string
}

// Server contains the configured router and dispatcher for the HTTP facade.
type Server struct {
	cfg        Config
	router     *chi.Mux
	dispatcher *tool.Dispatcher
	logger     *slog.Logger
}

// New constructs a Server with middleware and routes configured.
func New(cfg Config, d *tool.Dispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		cfg:        cfg,
		router:     chi.NewRouter(),
		dispatcher: d,
		logger:     logger,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/mcp", func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/tools", s.handleListTools)
		r.Post("/call", s.handleCall)
	})

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	schemas := s.dispatcher.Tools()
	tools := make([]Tool, 0, len(schemas))
	for _, schema := range schemas {
		tools = append(tools, Tool{
			Name:        schema.Name,
			Description: schema.Description,
			InputSchema: schema.InputSchema(),
		})
	}
	writeJSON(w, http.StatusOK, ListToolsResponse{Tools: tools})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	res := s.dispatcher.Dispatch(r.Context(), req.Name, req.Args)
	if res.IsError() {
		s.logger.Warn("tool call failed",
			"tool", req.Name,
			"kind", res.Failure.Kind,
			"error", res.Failure.Message,
			"request_id", middleware.GetReqID(r.Context()))
	}

	writeJSON(w, statusFor(res), CallResponse{
		Content: []Content{{Type: "text", Text: res.Text()}},
		IsError: res.IsError(),
		Error:   res.Failure,
	})
}

// statusFor maps a dispatch outcome onto an HTTP status.
func statusFor(res tool.Result) int {
	if !res.IsError() {
		return http.StatusOK
	}
	switch res.Failure.Kind {
	case tool.KindMissingArguments, tool.KindValidation:
		return http.StatusBadRequest
	case tool.KindUnknownTool:
		return http.StatusNotFound
	case tool.KindRemoteAPI, tool.KindTransport:
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
