// Package api - Router setup
package api

import (
	"time"

	"github.com/aethra/equivalencias/internal/config"
	"github.com/aethra/equivalencias/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{
	"http://localhost:8090",
	"http://127.0.0.1:8090",
}

// SetupRouter creates and configures the Gin router
func SetupRouter(handler *PanelHandler, corsCfg config.CORSConfig, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))

	// When credentials are used, specific origins must be provided (not *)
	corsConfig := cors.Config{
		AllowOrigins:     corsCfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "HX-Request", "HX-Target", "HX-Current-URL"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = defaultOrigins
	}
	r.Use(cors.New(corsConfig))

	// Health check (no session required)
	r.GET("/healthz", handler.Health)

	// ==========================================================================
	// PANEL - every route below runs inside a browser session
	// ==========================================================================
	p := r.Group("/")
	p.Use(handler.SessionMiddleware())
	{
		p.GET("/", handler.Index)
		p.GET("/search", handler.Search)
		p.POST("/sort/:column", handler.Sort)

		// Login dialog and session
		p.GET("/login/open", handler.OpenLogin)
		p.POST("/login/open", handler.OpenLogin)
		p.GET("/login/close", handler.CloseLogin)
		p.POST("/login/close", handler.CloseLogin)
		p.POST("/login", handler.Login)
		p.POST("/logout", handler.Logout)

		// Record management
		p.POST("/equivalencias", handler.Submit)
		p.POST("/equivalencias/:id/edit", handler.BeginEdit)
		p.POST("/edit/cancel", handler.CancelEdit)
		p.GET("/equivalencias/:id/delete", handler.ConfirmDelete)
		p.POST("/equivalencias/:id/delete", handler.Delete)

		p.POST("/toasts/:id/dismiss", handler.DismissToast)
	}

	r.NoRoute(handler.NotFound)

	return r
}

// RequestLogger logs one line per request
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
