package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docchat/internal/app"
	"docchat/internal/config"
	"docchat/internal/logger"
	"docchat/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	docPath := flag.String("doc", "", "Path to the documentation file (overrides DOC_PATH)")
	addr := flag.String("addr", "", "Listen address (overrides ADDR)")
	indexOnly := flag.Bool("index-only", false, "Build the index, report, and exit")
	flag.Parse()

	// Flags win over the environment by being written into it before
	// the config is parsed.
	if *docPath != "" {
		os.Setenv("DOC_PATH", *docPath)
	}
	if *addr != "" {
		os.Setenv("ADDR", *addr)
	}

	_ = godotenv.Load()

	cfg := config.Config{}
	if err := config.Init(&cfg); err != nil {
		logger.Setup("info", false).Fatal("failed to load config", "err", err)
	}

	log := logger.Setup(cfg.LogLevel, cfg.LogJSON)

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", "err", err)
	}

	a, err := app.New(&cfg, log)
	if err != nil {
		log.Fatal("failed to create app", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("indexing", "doc", cfg.DocPath)
	if err := a.BuildIndex(ctx); err != nil {
		log.Fatal("failed to build index", "err", err)
	}
	if *indexOnly {
		log.Info("index built", "chunks", a.IndexSize())
		return
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(a, log).Router(),
	}

	go func() {
		log.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}
