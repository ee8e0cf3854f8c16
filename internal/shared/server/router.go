package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mikemtdev/career-lift/internal/services/health"
	"github.com/mikemtdev/career-lift/internal/shared/config"
	"github.com/mikemtdev/career-lift/internal/shared/metrics"
	"github.com/mikemtdev/career-lift/internal/shared/server/middleware"
	"github.com/mikemtdev/career-lift/internal/shared/server/respond"
)

const (
	RateLimitGroupAuth    = "AUTH"
	RateLimitGroupPayment = "PAYMENT"
)

// Registrar mounts a feature's routes on the /api/v1 group.
type Registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

type RouterDeps struct {
	Config   config.Config
	Verifier middleware.TokenVerifier
	Health   *health.Service
	Handlers []Registrar
	// Limiter may be shared across routers in tests. Nil builds a fresh one.
	Limiter *middleware.RateLimiter
}

// DefaultRateLimits throttles credential and payment endpoints per caller.
var DefaultRateLimits = map[string]middleware.RateLimitRule{
	RateLimitGroupAuth:    {Rate: 10.0 / 60, Burst: 10},
	RateLimitGroupPayment: {Rate: 5.0 / 60, Burst: 5},
}

var rateLimitedRoutes = map[string]string{
	"POST /api/v1/auth/signup":                RateLimitGroupAuth,
	"POST /api/v1/auth/login":                 RateLimitGroupAuth,
	"POST /api/v1/payments/initiate":          RateLimitGroupPayment,
	"POST /api/v1/payments/verify/:reference": RateLimitGroupPayment,
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		metrics.Middleware(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Verifier, middleware.DefaultPublicPaths),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    DefaultRateLimits,
			GroupFor: middleware.RouteGroups(rateLimitedRoutes),
			Limiter:  deps.Limiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := health.Status{OK: true, Database: health.StateMemory, Cache: health.StateDisabled}
		if deps.Health != nil {
			status = deps.Health.Status(c.Request.Context())
		}
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	for _, h := range deps.Handlers {
		h.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
