package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/pyconafrica/registration/docs"
	"github.com/pyconafrica/registration/internal/api/handler"
	"github.com/pyconafrica/registration/internal/api/middleware"
	"github.com/pyconafrica/registration/internal/core/domain"
	"github.com/pyconafrica/registration/internal/core/ports"
)

// Deps are the services and settings the router wires into handlers.
type Deps struct {
	Registration ports.RegistrationService
	Accounts     ports.AccountService
	Countries    ports.CountryList
	JWTSecret    string
	Logger       zerolog.Logger
	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handler.Check
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Registration)
	accountHandler := handler.NewAccountHandler(d.Accounts)
	countryHandler := handler.NewCountryHandler(d.Countries)
	authMiddleware := middleware.Auth(d.JWTSecret)

	v1 := e.Group("/v1")

	// --- Public routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/activate", authHandler.Activate)
	v1.POST("/auth/activation/resend", authHandler.ResendActivation)
	v1.GET("/countries", countryHandler.List)

	// --- Authenticated routes ---
	me := v1.Group("/me", authMiddleware)
	me.GET("", accountHandler.Me)
	me.PUT("/profile", accountHandler.UpdateProfile)
	me.PUT("/account", accountHandler.UpdateAccount)
	me.POST("/password", accountHandler.ChangePassword)

	users := v1.Group("/users", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	users.GET("/:username", accountHandler.GetUser)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
