// Equivalencias - admin panel for course equivalences
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

	"github.com/aethra/equivalencias/internal/api"
	"github.com/aethra/equivalencias/internal/auth"
	"github.com/aethra/equivalencias/internal/config"
	"github.com/aethra/equivalencias/internal/logger"
	"github.com/aethra/equivalencias/internal/ui"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var Version = "1.0.0"

var envFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "equivalencias",
		Short:        "Course equivalence admin panel",
		Long:         `equivalencias serves the public equivalence table and its admin panel in front of the equivalence REST backend.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the panel server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return startServer(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "equivalencias %s\n", Version)
			},
		},
		newListCmd(),
		newCheckAuthCmd(),
	)
	return root
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func startServer(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting equivalencias panel", "version", Version, "backend", cfg.Backend.URL)
	if cfg.EnsureSecret() {
		log.Warn("JWT_SECRET not set, using random secret (sessions end on restart)")
	}

	gin.SetMode(cfg.Server.Mode)

	tokens, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	if err != nil {
		return err
	}
	renderer, err := ui.NewRenderer()
	if err != nil {
		return err
	}

	sessions := api.NewSessionRegistry(api.NewBackendSessionFactory(cfg, log), cfg.Auth.SessionTTL, cfg.Auth.MaxSessions, log.Named("sessions"))
	sessions.StartCleanup(10 * time.Minute)
	defer sessions.Close()

	handler := api.NewPanelHandler(sessions, tokens, renderer, api.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Auth.Secure,
	}, log.Named("api"))
	router := api.SetupRouter(handler, cfg.CORS, log.Named("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
