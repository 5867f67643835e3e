package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/friends-manager/internal/service"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the friends list as a REST API",
		Long:  "Serve the friends list on PORT. The list is saved when the server shuts down.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	s, closeFn, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	service.SetupFriendStore(s, time.Now, logger)
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           service.SetupHttpRouter(cfg.GinLogging),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", server.Addr), zap.String("backend", cfg.Backend))
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown failed", zap.Error(err))
		}
	}

	if err := s.Save(); err != nil {
		return fmt.Errorf("failed to save friends: %w", err)
	}
	logger.Info("Friends saved", zap.Int("count", s.Len()))
	return nil
}
