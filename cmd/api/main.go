package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/liangzhu/ds-tutor/backend/internal/config"
	"github.com/liangzhu/ds-tutor/backend/internal/handler"
	"github.com/liangzhu/ds-tutor/backend/internal/model/catalog"
	"github.com/liangzhu/ds-tutor/backend/internal/service/ai"
	"github.com/liangzhu/ds-tutor/backend/internal/service/history"
	"github.com/liangzhu/ds-tutor/backend/internal/service/runner"
	"github.com/liangzhu/ds-tutor/backend/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// A missing model credential halts the process: the tutor is useless
	// without its model, so there is no degraded mode.
	if !cfg.AI.Enabled() {
		log.Fatal("model credentials missing: set ARK_API_KEY and ARK_MODEL (or the AK/SK pair)")
	}

	gateway, err := ai.NewGateway(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize model gateway: %v", err)
	}
	log.Println("model gateway initialized")

	questions, comparisons, diagrams := catalog.Seed()
	content := catalog.NewMemoryStore(questions, comparisons, diagrams)

	store := history.NewFileStore(cfg.History.Path)
	sessionSvc := session.NewService(store, gateway, content)
	runnerSvc := runner.NewService(gateway)

	router := handler.NewRouter(content, sessionSvc, runnerSvc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Tutor backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
