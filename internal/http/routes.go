package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
	"task-tracker.com/task-tracker/internal/http/validators"
)

const DefaultBodyLimit = "100K"

type RouterConfig struct {
	Logger   *zap.Logger
	Limiter  middleware.Limiter
	Registry *prometheus.Registry

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string
	// BodyLimit caps request bodies, e.g. "100K". Defaults to DefaultBodyLimit.
	BodyLimit string
}

// NewServer builds the echo instance with error rendering, validation and the
// middleware chain shared by every route.
func NewServer(h *Handler, health *HealthHandler, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewRequestValidator()
	e.HTTPErrorHandler = ErrorHandler(cfg.Logger)

	Register(e, h, health, cfg)
	return e
}

func Register(e *echo.Echo, h *Handler, health *HealthHandler, cfg RouterConfig) {
	metrics := middleware.NewMetrics(cfg.Registry)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(metrics.Middleware())
	e.Use(echomw.Recover())
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		HSTSMaxAge:            15552000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "no-referrer",
	}))
	// Preflights are answered here, before the identity check of the task routes.
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSAllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders:  []string{echo.HeaderContentType, middleware.HeaderUserID, echo.HeaderXRequestID},
		ExposeHeaders: []string{echo.HeaderXRequestID},
	}))
	bodyLimit := cfg.BodyLimit
	if bodyLimit == "" {
		bodyLimit = DefaultBodyLimit
	}
	e.Use(echomw.BodyLimit(bodyLimit))

	e.GET("/healthz", health.Live)
	e.GET("/readyz", health.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))

	tasks := e.Group("/api/v1/tasks", middleware.UserIdentity(), middleware.RateLimiter(cfg.Limiter))
	tasks.POST("", h.CreateTask)
	tasks.GET("", h.ListTasks)
	tasks.GET("/:id", h.GetTask)
	tasks.PATCH("/:id", h.UpdateTask)
	tasks.DELETE("/:id", h.DeleteTask)
}
