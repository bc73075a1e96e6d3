package http

import "github.com/gin-gonic/gin"

// Register mounts the /nutrition routes. The public predict route is kept
// for debugging clients and does not require a token.
func (h *Handler) Register(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.POST("/photo/predict_food", h.PredictFoodPublic)

	secured := rg.Group("", requireAuth)
	secured.GET("/recommendation", h.GetRecommendation)
	secured.POST("/photo", h.UploadPhoto)
	secured.GET("/photo/count", h.CountUploadsToday)
	secured.POST("/photo/predict_food_secure", h.PredictFoodSecure)
}
