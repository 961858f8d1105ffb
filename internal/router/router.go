package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/iliyamo/airline-seat-booking/internal/config"
    "github.com/iliyamo/airline-seat-booking/internal/handler"
    "github.com/iliyamo/airline-seat-booking/internal/middleware"
    "github.com/iliyamo/airline-seat-booking/internal/model"
)

// Deps carries what the route groups need beyond their handlers.
type Deps struct {
    JWTSecret string
    Redis     *redis.Client // nil disables caching and rate limiting
    Cache     config.CacheConfig
    RateLimit config.RateLimitConfig
    Gatherer  prometheus.Gatherer
    Log       *zap.Logger
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, d Deps) {
    e.GET("/healthz", handler.Health)
    e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
}

// RegisterAuth mounts register and login under /v1/auth and the
// protected profile endpoint at /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, d Deps) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)

    e.GET("/v1/me", a.Me, protected(d)...)
}

// RegisterSeats mounts the seat and fare endpoints.  Reads are public;
// booking changes need a PASSENGER or AGENT token and are rate limited.
func RegisterSeats(e *echo.Echo, s *handler.SeatHandler, d Deps) {
    pub := e.Group("/v1")
    pub.GET("/seats", s.List)
    pub.GET("/seats/map", s.Map)
    pub.GET("/seats/:id", s.Get)
    pub.GET("/seats/:id/group", s.Group)

    // fares only change with configuration, so they are safe to cache
    fares := pub.Group("/fares", middleware.ResponseCache(d.Cache, d.Redis, d.Log))
    fares.GET("", s.Fares)
    fares.GET("/:category", s.Fare)

    auth := e.Group("/v1/seats", protected(d)...)
    auth.POST("/:id/book", s.Book)
    auth.DELETE("/:id/book", s.Cancel)
    auth.POST("/auto-assign", s.AutoAssign)
}

func protected(d Deps) []echo.MiddlewareFunc {
    return []echo.MiddlewareFunc{
        middleware.JWTAuth(d.JWTSecret),
        middleware.RequireRole(model.RolePassenger, model.RoleAgent),
        middleware.RateLimit(d.RateLimit, d.Redis, d.Log),
    }
}
