package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/evaselfe/entrepedia-7/internal/config"
	"github.com/evaselfe/entrepedia-7/internal/http/handler"
	httpmiddleware "github.com/evaselfe/entrepedia-7/internal/http/middleware"
	"github.com/evaselfe/entrepedia-7/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, jobHandler *handler.JobHandler, resetHandler *handler.PasswordResetHandler, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/password-reset", resetHandler.Handle)
		authGroup.POST("/password-strength", resetHandler.Strength)
	}

	jobs := r.Group("/jobs")
	{
		jobs.GET("", jobHandler.List)
		jobs.POST("", jobHandler.Create)
		jobs.GET("/:id", jobHandler.Get)
		jobs.POST("/:id/applications", jobHandler.Apply)
		jobs.PATCH("/:id/status", jobHandler.UpdateStatus)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
