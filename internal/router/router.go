package router

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"sitecms/internal/config"
	"sitecms/internal/errors"
	"sitecms/internal/handler"
	"sitecms/internal/logger"
	"sitecms/internal/upload"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	Content  *handler.ContentHandler
	Media    *handler.MediaHandler
	Messages *handler.MessageHandler
	Settings *handler.SettingsHandler
	Home     *handler.HomeHandler
	Upload   *handler.UploadHandler
	Health   *handler.HealthHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	h Handlers,
	uploads *upload.Manager,
	requireAuth echo.MiddlewareFunc,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = errors.Handler(cfg.IsDevelopment(), log)
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(errors.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", h.Health.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static(upload.URLPrefix, uploads.Root())

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", h.Auth.Login)

	api.GET("/products", h.Products.ListProducts)
	api.GET("/products/:id", h.Products.GetProduct)
	api.GET("/product-categories", h.Products.ListCategories)
	api.GET("/product-categories/:id", h.Products.GetCategory)
	api.GET("/cases", h.Content.ListCases)
	api.GET("/cases/:id", h.Content.GetCase)
	api.GET("/news", h.Content.ListNews)
	api.GET("/news/:id", h.Content.GetNews)
	api.GET("/documents", h.Media.ListDocuments)
	api.GET("/documents/:id", h.Media.GetDocument)
	api.GET("/gallery", h.Media.ListGallery)
	api.GET("/gallery/:id", h.Media.GetGallery)

	api.POST("/messages", h.Messages.Submit)

	api.GET("/home/hero-slides", h.Home.HeroSlides)
	api.GET("/home/featured", h.Home.Featured)
	api.GET("/map/config", h.Settings.MapConfig)
	api.GET("/map/locations", h.Settings.MapLocations)
	api.GET("/settings/info", h.Settings.GetInfo)
	api.GET("/settings/meta", h.Settings.GetMeta)

	// Secured routes (require a bearer token)
	secured := api.Group("", requireAuth)

	secured.GET("/auth/me", h.Auth.Me)
	secured.POST("/auth/change-password", h.Auth.ChangePassword)
	secured.POST("/auth/logout", h.Auth.Logout)

	secured.POST("/products", h.Products.CreateProduct)
	secured.PUT("/products/:id", h.Products.UpdateProduct)
	secured.DELETE("/products/:id", h.Products.DeleteProduct)
	secured.POST("/product-categories", h.Products.CreateCategory)
	secured.PUT("/product-categories/:id", h.Products.UpdateCategory)
	secured.DELETE("/product-categories/:id", h.Products.DeleteCategory)

	secured.POST("/cases", h.Content.CreateCase)
	secured.PUT("/cases/:id", h.Content.UpdateCase)
	secured.DELETE("/cases/:id", h.Content.DeleteCase)
	secured.POST("/news", h.Content.CreateNews)
	secured.PUT("/news/:id", h.Content.UpdateNews)
	secured.DELETE("/news/:id", h.Content.DeleteNews)

	secured.POST("/documents", h.Media.CreateDocument, uploads.Middleware("documents", true))
	secured.PUT("/documents/:id", h.Media.UpdateDocument, uploads.Middleware("documents", false))
	secured.DELETE("/documents/:id", h.Media.DeleteDocument)
	secured.POST("/gallery", h.Media.CreateGallery, uploads.Middleware("gallery", true))
	secured.PUT("/gallery/:id", h.Media.UpdateGallery, uploads.Middleware("gallery", false))
	secured.DELETE("/gallery/:id", h.Media.DeleteGallery)

	secured.GET("/home/hero-slides/all", h.Home.AllHeroSlides)
	secured.POST("/home/hero-slides", h.Media.CreateHeroSlide, uploads.Middleware("hero", true))
	secured.PUT("/home/hero-slides/:id", h.Media.UpdateHeroSlide, uploads.Middleware("hero", false))
	secured.DELETE("/home/hero-slides/:id", h.Media.DeleteHeroSlide)

	secured.GET("/messages", h.Messages.List)
	secured.GET("/messages/:id", h.Messages.Get)
	secured.PUT("/messages/:id/status", h.Messages.UpdateStatus)
	secured.DELETE("/messages/:id", h.Messages.Delete)

	secured.POST("/upload/:category", h.Upload.Upload)
	secured.DELETE("/upload/:category/:filename", h.Upload.Delete)

	secured.PUT("/settings/admin/info", h.Settings.UpdateInfo)
	secured.PUT("/settings/admin/meta", h.Settings.UpdateMeta)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator used by every handler.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
