package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Wxl-c137/blindmarker/internal/config"
	"github.com/Wxl-c137/blindmarker/internal/orchestrator"
	"github.com/Wxl-c137/blindmarker/internal/rpc"
	"github.com/Wxl-c137/blindmarker/internal/sse"
	"github.com/Wxl-c137/blindmarker/internal/workspace"
)

// Run wires the daemon together and serves until ctx is cancelled,
// following the teacher's app.Run shape: build the resources, start
// the background sweepers, hand a router to http.Server, shut down on
// context cancellation.
func Run(ctx context.Context, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.ScratchRoot, 0o755); err != nil {
		return err
	}

	hub := sse.New()

	orch := orchestrator.New(cfg.ScratchRoot, cfg.WorkerCount)

	janitor := &workspace.Janitor{ScratchRoot: cfg.ScratchRoot, MaxAge: 6 * time.Hour, Interval: 30 * time.Minute}
	janitor.Start(ctx)
	defer janitor.Stop()

	server := rpc.New(orch, hub)
	router := server.Routes()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
