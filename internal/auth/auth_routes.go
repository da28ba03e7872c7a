package auth

import (
	"go-presence/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMW gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		auth.POST("/logout", authMW, middleware.RateLimitByUser(2, 5), handler.Logout)
		auth.GET("/me", authMW, middleware.RateLimitByUser(2, 5), handler.Me)
	}
}
