package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.Use(requireAuth)
	rg.GET("/profile", h.GetProfile)
	rg.PATCH("/profile/update", h.UpdateProfile)
	rg.GET("/nutrition-photo/all", h.GetUploadHistory)
}
