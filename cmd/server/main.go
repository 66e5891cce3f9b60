package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/go-custom-links/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-custom-links/pkg/adapters/repository"
	"github.com/wadjakorntonsri/go-custom-links/pkg/config"
	"github.com/wadjakorntonsri/go-custom-links/pkg/logger"
	"go.uber.org/zap"
)

type serveFlags struct {
	port        string
	databaseURL string
}

func main() {
	flags := new(serveFlags)

	rootCmd := &cobra.Command{
		Use:   "customlinks-server",
		Short: "Serve the personal links widget",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), flags)
		},
	}
	rootCmd.Flags().StringVarP(&flags.port, "port", "p", "", "listen port (overrides PORT)")
	rootCmd.Flags().StringVar(&flags.databaseURL, "db", "", "database URL (overrides DATABASE_URL)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, flags *serveFlags) error {
	cfg := config.Load()
	if flags.port != "" {
		cfg.Port = flags.port
	}
	if flags.databaseURL != "" {
		cfg.DatabaseURL = flags.databaseURL
	}

	log, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		return err
	}
	defer log.Sync()

	backend, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return err
	}
	defer backend.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(cfg, backend, backend, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
