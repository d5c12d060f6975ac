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
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sitecms/docs"
	"sitecms/internal/auth"
	"sitecms/internal/cache"
	"sitecms/internal/config"
	"sitecms/internal/db"
	"sitecms/internal/handler"
	"sitecms/internal/logger"
	"sitecms/internal/model"
	"sitecms/internal/repository"
	"sitecms/internal/router"
	"sitecms/internal/service"
	"sitecms/internal/upload"
)

const shutdownTimeout = 10 * time.Second

// @title Site CMS API
// @version 1.0
// @description Content management API for a small-business website.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, db.WithLogger(zl))
	if err != nil {
		zl.Fatal("database init", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		zl.Fatal("database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.ResetDB {
		zl.Warn("RESET_DB set, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			zl.Fatal("reset database", zap.Error(err))
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		zl.Fatal("migrate database", zap.Error(err))
	}

	uploads := upload.NewManager(cfg.UploadDir, zl)
	if err := uploads.EnsureDirs(); err != nil {
		zl.Fatal("create upload directories", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	var cachePinger handler.CachePinger
	if cacheClient != nil {
		cachePinger = cacheClient
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.New[model.Product](gormDB)
	settingsRepo := repository.NewSettingsRepository(gormDB)

	// Auth
	if cfg.UsesDefaultSecret() {
		zl.Warn("SECRET_KEY is not set, tokens are signed with the public default key")
	}
	jwtService := auth.NewJWTService(cfg.SecretKey, cfg.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)
	var authOpts []service.AuthOption
	if cfg.AuthFallback {
		zl.Warn("AUTH_FALLBACK enabled, the bootstrap credential is accepted while the database is unreachable",
			zap.String("username", cfg.AdminUsername))
		authOpts = append(authOpts, service.WithFallbackCredential(cfg.AdminUsername, cfg.AdminPassword))
	}
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, zl, authOpts...)

	if cfg.AdminBootstrap {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		created, err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
		cancel()
		if err != nil {
			zl.Fatal("bootstrap admin", zap.Error(err))
		}
		if created {
			zl.Info("admin user created", zap.String("username", cfg.AdminUsername))
		}
	}

	// Services
	products := service.NewProductService(productRepo, categoryRepo, cacheClient)
	categories := service.NewCategoryService(categoryRepo, cacheClient, zl)
	cases := service.NewCaseService(repository.New[model.Case](gormDB))
	news := service.NewNewsService(repository.New[model.News](gormDB))
	gallery := service.NewGalleryService(repository.New[model.Gallery](gormDB), uploads, zl)
	documents := service.NewDocumentService(repository.New[model.Document](gormDB), uploads, zl)
	slides := service.NewHeroSlideService(repository.New[model.HeroSlide](gormDB), uploads, zl)
	messages := service.NewMessageService(repository.New[model.Message](gormDB))
	settings := service.NewSettingsService(settingsRepo, cacheClient)
	maps := service.NewMapService(settings, cfg.BaiduMapAK)
	home := service.NewHomeService(products, cases, news, slides)

	docs.SwaggerInfo.Host = cfg.SwaggerHost

	e := echo.New()
	e.HidePort = true
	router.Register(e, cfg, zl, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Products: handler.NewProductHandler(products, categories),
		Content:  handler.NewContentHandler(cases, news),
		Media:    handler.NewMediaHandler(gallery, documents, slides, uploads),
		Messages: handler.NewMessageHandler(messages),
		Settings: handler.NewSettingsHandler(settings, maps),
		Home:     handler.NewHomeHandler(home),
		Upload:   handler.NewUploadHandler(uploads),
		Health:   handler.NewHealthHandler(sqlDB, cachePinger, authService.Degraded),
	}, uploads, auth.Middleware(jwtService, tokenStore))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("server listening",
			zap.String("port", cfg.Port),
			zap.String("db_driver", cfg.DBDriver),
			zap.Bool("cache", cacheClient != nil),
			zap.String("uploads", uploads.Root()))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		zl.Error("server stopped", zap.Error(err))
		return
	}
	zl.Info("server stopped")
}
