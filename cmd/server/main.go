package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/ugaemi/codeblock-server/internal/codeblock"
	"github.com/ugaemi/codeblock-server/internal/config"
	"github.com/ugaemi/codeblock-server/internal/handler"
	"github.com/ugaemi/codeblock-server/internal/metrics"
	"github.com/ugaemi/codeblock-server/internal/room"
	"github.com/ugaemi/codeblock-server/internal/store"
	"github.com/ugaemi/codeblock-server/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func main() {
	// Local .env is optional
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	blocks, err := loadCodeBlocks(ctx, cfg)
	if err != nil {
		slog.Error("failed to load code blocks", "error", err)
		os.Exit(1)
	}
	registry, err := codeblock.NewRegistry(blocks)
	if err != nil {
		slog.Error("invalid code block catalogue", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	hub := ws.NewHub()
	tracker := room.NewTracker()
	router := handler.NewRouter(registry, tracker, m)

	hub.OnConnect = router.HandleConnect
	hub.OnMessage = router.HandleMessage
	hub.OnDisconnect = router.HandleDisconnect

	go hub.Run(ctx)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: handler.NewHTTPHandler(registry, m, handler.HTTPOptions{
			CORSAllow: cfg.CORSAllow,
			WebSocket: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handleWebSocket(hub, cfg, w, r)
			}),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "code_blocks", registry.Count())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("server shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}

// loadCodeBlocks reads the catalogue from DATABASE_URL, seeding it on first
// use, or falls back to the built-in list.
func loadCodeBlocks(ctx context.Context, cfg *config.Config) ([]codeblock.CodeBlock, error) {
	if cfg.DatabaseURL == "" {
		return codeblock.DefaultBlocks(), nil
	}

	s, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return store.LoadCodeBlocks(ctx, s, codeblock.DefaultBlocks())
}

func handleWebSocket(hub *ws.Hub, cfg *config.Config, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	var limiter *rate.Limiter
	if cfg.MessagesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.MessagesPerSecond), cfg.MessageBurst)
	}

	client := ws.NewClient(uuid.NewString(), hub, conn, limiter)
	hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

func setupLogger(cfg *config.Config) {
	var h slog.Handler
	opts := &slog.HandlerOptions{}

	switch cfg.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, opts)
	default:
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h))
}
