package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes registers auth routes. The signup and login endpoints are
// public; everything else requires a valid token.
func RegisterRoutes(r *gin.Engine, handler *Handler, service *Service) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)

		protected := authGroup.Group("", RequireAuth(service))
		{
			protected.GET("/me", handler.Me)
			protected.POST("/change-password", handler.ChangePassword)
			protected.POST("/users", RequireRole(RoleAdmin), handler.CreateUser)
		}
	}
}
