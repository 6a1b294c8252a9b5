package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leadlens/leadlens/api/handler"
	"github.com/leadlens/leadlens/api/middleware"
	"github.com/leadlens/leadlens/cache"
	"github.com/leadlens/leadlens/config"
	"github.com/leadlens/leadlens/pipeline"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     RateLimit
//
// Authentication and quota live upstream of this service; requests arriving
// here are already authorized. Health stays outside the rate limit so
// monitoring probes always work.
func NewRouter(p *pipeline.Pipeline, cc *cache.Cache, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(cc, startTime))

	limited := v1.Group("")
	limited.Use(middleware.RateLimit(cfg.RateLimit))
	limited.POST("/scrape", handler.Scrape(p))

	return r
}
