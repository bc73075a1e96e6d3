package http

import "github.com/gin-gonic/gin"

// Register mounts the /auth routes. requireAuth guards the routes that act
// on the signed-in caller.
func (h *Handler) Register(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.POST("/signup", h.SignUp)
	rg.POST("/signin", h.SignIn)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/signout", requireAuth, h.SignOut)
}
