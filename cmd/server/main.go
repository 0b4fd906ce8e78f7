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

	"github.com/clearledger/relay/internal"
	"github.com/clearledger/relay/internal/mail"
	"github.com/clearledger/relay/internal/middleware"
	"github.com/clearledger/relay/internal/relay"
	"github.com/clearledger/relay/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	logger.Info("starting relay server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	resolver := mail.NewResolver(mail.Config{
		Host:          cfg.Mail.Host,
		Port:          int(cfg.Mail.Port),
		Secure:        cfg.Mail.Secure,
		Username:      cfg.Mail.Username,
		Password:      cfg.Mail.Password,
		AllowFallback: cfg.Mail.AllowFallback,
	}, logger)

	renderer, err := relay.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}

	httpMetrics := middleware.NewMetrics("relay")
	relayMetrics := relay.NewMetrics("relay")

	handler := relay.NewHandler(resolver, renderer, cfg.Mail.From, cfg.Mail.To, relayMetrics)

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0
	}

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		router.CORS([]string{"*"}),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	r.Get("/api/health", handler.Health)
	r.Options("/api/{path...}", func(w http.ResponseWriter, req *http.Request) {
		// CORS middleware answers preflight before this runs.
		w.WriteHeader(http.StatusNoContent)
	})

	// Form endpoints get a tighter per-client budget since every accepted
	// POST produces an outbound email.
	limiterConfig := middleware.SubmissionRateLimiterConfig()
	if cfg.TrustProxyHeaders {
		limiterConfig.KeyFunc = middleware.ForwardedClientIP
	}
	submissionLimiter := middleware.NewRateLimiter(limiterConfig)
	defer submissionLimiter.Stop()

	forms := r.Group(submissionLimiter.Middleware)
	forms.Post("/api/contact", handler.Contact)
	forms.Post("/api/business-health-check", handler.HealthCheck)

	r.Handle(http.MethodGet, "/metrics", httpMetrics.Handler())

	if cfg.StaticDir != "" {
		logger.Info("serving static site", "dir", cfg.StaticDir)
		r.SPA(cfg.StaticDir)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
