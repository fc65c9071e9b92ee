package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/polaroid"
	"github.com/gogpu/polaroid/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the composition editor API over HTTP",
	Long: `Serve the composition editor API over HTTP.

Endpoints:
  POST   /api/sessions              create an editing session
  GET    /api/sessions/{id}         session state and render descriptor
  PUT    /api/sessions/{id}/image   upload a photo (raw body or multipart "image")
  PUT    /api/sessions/{id}/caption {"text": "..."}
  PATCH  /api/sessions/{id}/style   {"fontSizePx": 24, "fontFamily": "...", "textAlign": "right", "color": "#333"}
  PATCH  /api/sessions/{id}/frame   {"width": 300, "height": 350}
  POST   /api/sessions/{id}/export  download the print
  DELETE /api/sessions/{id}         end the session
  GET    /api/fonts                 allowed font families and alignments`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	r, err := newRenderer(cfg, "")
	if err != nil {
		return err
	}
	defer r.Close()

	srv, err := server.New(func() *polaroid.Manager { return newManager(cfg, r) }, server.Options{
		MaxSessions:    cfg.Server.MaxSessions,
		SessionTTL:     cfg.Server.SessionTTL,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		polaroid.Logger().Info("polaroid: listening", "addr", cfg.Server.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
