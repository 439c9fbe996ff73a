package cmd

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

	"github.com/abhisek/textquiz/internal/api"
	"github.com/abhisek/textquiz/internal/app"
	"github.com/abhisek/textquiz/internal/logging"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.App.Addr = addr
		}

		logger := logging.New(cfg.App.LogLevel)
		logger.Info("Starting textquiz service")
		logger.Info("Environment: %s", cfg.App.Env)
		logger.Info("NLP engine: %s", cfg.NLP.Engine)

		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, app.Options{Config: cfg, DBPath: dbPath, Logger: logger})
		if err != nil {
			return err
		}
		defer a.Close()

		srv := &http.Server{
			Addr:              cfg.App.Addr,
			Handler:           api.NewServer(api.NewHandler(a, logger), cfg.App.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Listening on %s", cfg.App.Addr)
			logger.Info("  GET    /health")
			logger.Info("  POST   /api/generate-quiz")
			logger.Info("  POST   /api/summarize")
			logger.Info("  GET    /api/quizzes")
			logger.Info("  GET    /api/quizzes/{id}")
			logger.Info("  DELETE /api/quizzes/{id}")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides TEXTQUIZ_ADDR)")
}
