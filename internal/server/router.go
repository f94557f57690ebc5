package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arul-selvam/steel-quotes/internal/common"
)

// requestID tags every request with an ID, echoed in the X-Request-ID header
// and carried on the request context for downstream logging.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Header("X-Request-ID", rid)
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

// NewRouter wires the HTTP surface of the assistant. Everything except the
// healthcheck lives under /api.
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", h.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions/:id/draft", h.GetDraft)
		api.POST("/sessions/:id/chat", h.Chat)
		api.POST("/sessions/:id/generate", h.Generate)
		api.POST("/sessions/:id/reset", h.Reset)

		api.GET("/quotations", h.ListQuotations)
		api.GET("/quotations/export", h.ExportQuotations)
	}

	return router
}
