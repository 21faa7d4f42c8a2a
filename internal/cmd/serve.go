package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mavumo/jobbyist/internal/profile"
)

type ServeCmd struct {
	Addr    string `help:"Listen address." env:"JOBBYIST_SERVE_ADDR"`
	DataDir string `help:"Directory holding jobs.json and users.json."`
}

// Run serves the public listing feed and the identity-header profile API
// until SIGINT or SIGTERM.
func (s *ServeCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	if s.DataDir != "" {
		cfg.DataDir = s.DataDir
	}
	addr := firstNonEmpty(s.Addr, cfg.ServeAddr)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	store := profile.NewStore(cfg.UsersPath())
	server := profile.NewServer(store, cfg.ListingsPath(), ctx.Logger)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		ctx.UI.Infof("Listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case <-stop:
	}

	ctx.UI.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
