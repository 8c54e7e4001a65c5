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

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/minaorangina/durak/config"
	"github.com/minaorangina/durak/server"
	"github.com/minaorangina/durak/store"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logger.Sync()

	st := store.NewInMemoryGameStore(store.StoreOpts{
		Logger:    logger.Named("store"),
		StaticURL: cfg.StaticURL,
	})

	s := server.NewServer(st, server.ServerOpts{
		Logger:         logger.Named("server"),
		AllowedOrigins: cfg.AllowedOrigins,
		StaticURL:      cfg.StaticURL,
		StaticDir:      cfg.StaticDir,
	})
	s.Addr = cfg.Addr()
	s.Handler = handlers.LoggingHandler(zap.NewStdLog(logger.Named("http")).Writer(), s.Handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reap(ctx, st, cfg.ReapInterval, cfg.RoomIdleTimeout, logger)

	go func() {
		logger.Info("listening", zap.String("addr", s.Addr))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

// reap closes idle rooms until ctx is done
func reap(ctx context.Context, st store.GameStore, every, idle time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if reaped := st.Reap(idle); len(reaped) > 0 {
				logger.Info("reaped rooms", zap.Strings("rooms", reaped))
			}
		}
	}
}
