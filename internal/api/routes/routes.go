package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobtrack/internal/api/handlers"
	"github.com/yoockh/jobtrack/internal/api/middleware"
)

type Deps struct {
	Applications *handlers.ApplicationHandler
	Auth         middleware.AuthConfig
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT), one collection per user
	apps := r.Group("/users/:user_id/applications")
	apps.Use(middleware.JWTAuth(d.Auth), middleware.RequireOwner("user_id"))

	apps.GET("", d.Applications.List)
	apps.POST("", d.Applications.Create)
	apps.PUT("/:id", d.Applications.Update)
	apps.DELETE("/:id", d.Applications.Delete)
}
