package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/slidegen/internal/api"
	"github.com/standardbeagle/slidegen/internal/auth"
	"github.com/standardbeagle/slidegen/internal/deck"
	"github.com/standardbeagle/slidegen/internal/events"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP API: website analysis, template management, outline
generation and deck creation. Users sign in with Google at /auth/google.`,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Warn("shutdown_cleanup_failed", "error", err)
		}
	}()

	if err := a.browser.Start(); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}

	cfg := a.cfg
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	var fallback oauth2.TokenSource
	if cfg.Google.CredentialsFile != "" {
		fallback, err = auth.ServiceAccountTokenSource(ctx, cfg.Google.CredentialsFile)
		if err != nil {
			return err
		}
		a.log.Info("google_service_account_loaded", "file", cfg.Google.CredentialsFile)
	}

	authn := auth.New(auth.Options{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.RedirectURL(),
		Secure:       strings.HasPrefix(cfg.Server.PublicURL, "https://"),
		Fallback:     fallback,
	})
	if !authn.Configured() && fallback == nil {
		a.log.Warn("google_oauth_unconfigured", "hint", "set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
	}

	hub := events.NewHub()
	defer hub.Close()

	srv := api.New(api.Deps{
		Analyzer:  a.inspector,
		Branding:  a.branding,
		Registry:  a.registry,
		Generator: a.generator,
		Auth:      authn,
		Decks: api.GoogleDeckFactory(deck.ClientOptions{
			Limiter: deck.NewLimiter(cfg.Google.BatchRate, cfg.Google.BatchBurst),
		}),
		Progress: hub,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("server_started", "addr", cfg.Server.Addr, "public_url", cfg.Server.PublicURL, "version", appVersion)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("server_stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.log.Info("server_stopped")
	return nil
}
