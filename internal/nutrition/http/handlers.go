package http

import (
	"github.com/gin-gonic/gin"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/api/http/request"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

// UploadPhoto stores a nutrition photo for the caller, subject to the daily quota.
func (h *Handler) UploadPhoto(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}
	upload, ok := readPhoto(c)
	if !ok {
		return
	}

	res := h.nutritionService.UploadPhoto(c.Request.Context(), upload.Body, user.ID, upload.ContentType)
	c.JSON(res.Code, res)
}

func (h *Handler) CountUploadsToday(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}

	res := h.nutritionService.GetUploadCountToday(c.Request.Context(), user.ID)
	c.JSON(res.Code, res)
}

// PredictFoodPublic predicts without a caller, using the default meal count.
//
// Deprecated: clients should call PredictFoodSecure.
func (h *Handler) PredictFoodPublic(c *gin.Context) {
	upload, ok := readPhoto(c)
	if !ok {
		return
	}

	res := h.nutritionService.PredictFood(c.Request.Context(), upload.Body, upload.ContentType, "")
	c.JSON(res.Code, res)
}

// PredictFoodSecure predicts and scales calories to the caller's meals per day.
func (h *Handler) PredictFoodSecure(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}
	upload, ok := readPhoto(c)
	if !ok {
		return
	}

	res := h.nutritionService.PredictFood(c.Request.Context(), upload.Body, upload.ContentType, user.ID)
	c.JSON(res.Code, res)
}

func (h *Handler) GetRecommendation(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}

	res := h.nutritionService.GetRecommendation(c.Request.Context(), user.ID)
	c.JSON(res.Code, res)
}

func readPhoto(c *gin.Context) (*request.Upload, bool) {
	upload, err := request.ReadImage(c, photoField)
	if err == nil {
		return upload, true
	}
	if request.UploadError(c, photoField, err) {
		return nil, false
	}

	logging.NewLogger(c.Request.Context()).LogError("nutrition.read_photo", err)
	res := result.InternalErr()
	c.JSON(res.Code, res)
	return nil, false
}
