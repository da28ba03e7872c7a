package session

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts read routes behind authMW. punchMW runs after authMW
// on every route that talks to the attendance service.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMW gin.HandlerFunc, punchMW ...gin.HandlerFunc) {
	s := r.Group("/session", authMW)
	{
		s.GET("", handler.Get)
		s.GET("/history", handler.History)

		punch := s.Group("", punchMW...)
		punch.POST("/status", handler.CheckStatus)
		punch.POST("/punch-in", handler.PunchIn)
		punch.POST("/punch-out", handler.PunchOut)
		punch.POST("/toggle", handler.Toggle)
	}
}
