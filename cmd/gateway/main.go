package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sitecms/internal/config"
	apperrors "sitecms/internal/errors"
	"sitecms/internal/logger"
	"sitecms/internal/proxy"
)

const shutdownTimeout = 10 * time.Second

// The gateway sits next to the storefront and relays /api and /uploads to
// the backend so the browser only ever talks to one origin.
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	p, err := proxy.New(cfg.BackendAPIURL, cfg.ProxyTimeout, zl)
	if err != nil {
		zl.Fatal("proxy init", zap.Error(err))
	}
	defer p.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperrors.Handler(cfg.IsDevelopment(), zl)
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(zl))
	e.Use(apperrors.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.Any("/api/*", p.Forward)
	e.GET("/uploads/*", p.Stream)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("gateway listening",
			zap.String("port", cfg.GatewayPort),
			zap.String("backend", cfg.BackendAPIURL),
			zap.Duration("timeout", cfg.ProxyTimeout))
		if err := e.Start(":" + cfg.GatewayPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zl.Fatal("gateway stopped", zap.Error(err))
	}
	zl.Info("gateway stopped")
}
