package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"curbside-backend/config"
	"curbside-backend/internal/mw"
)

// defaultCacheTTL is used when the server config leaves the cache lifetime unset.
const defaultCacheTTL = 5 * time.Minute

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Window definitions only change on migrate, so they are safe to cache.
	ttl := cfg.CacheTTL()
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/segments/evaluate", handler.EvaluateSegments)

		api.GET("/vehicles/:vehicle_id/budget", handler.GetBudget)
		api.GET("/vehicles/:vehicle_id/session", handler.GetActiveSession)

		api.POST("/sessions", handler.StartSession)
		api.POST("/sessions/:session_id/stop", handler.StopSession)

		api.GET("/tariffs/:tariff_id/windows", caching, handler.GetTariffWindows)
		api.GET("/tariffs/:tariff_id/status", handler.GetTariffStatus)
	}

	return r
}
