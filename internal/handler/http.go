package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/ugaemi/codeblock-server/internal/codeblock"
	"github.com/ugaemi/codeblock-server/internal/metrics"
)

// HTTPOptions configures the HTTP surface.
type HTTPOptions struct {
	CORSAllow []string
	// WebSocket serves /ws when set.
	WebSocket http.Handler
}

// NewHTTPHandler wires the lobby listing, health, metrics and WebSocket routes.
func NewHTTPHandler(registry *codeblock.Registry, m *metrics.Metrics, opts HTTPOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", handleHome)
	r.Get("/health", handleHealth)
	r.Get("/codeblocks", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, registry.List())
	})
	r.Get("/codeblocks/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(req, "id"))
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "invalid code block id")
			return
		}
		block, err := registry.Get(id)
		if err != nil {
			errorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		jsonResponse(w, http.StatusOK, block.Summary())
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	if opts.WebSocket != nil {
		r.Handle("/ws", opts.WebSocket)
	}

	allow := opts.CORSAllow
	if len(allow) == 0 {
		allow = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allow,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

func handleHome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Welcome to the CodeBlock App!"))
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}
