package http

import "github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/service"

// photoField is the multipart field carrying the food photo.
const photoField = "file"

type Handler struct {
	nutritionService *service.NutritionService
}

func New(nutritionService *service.NutritionService) *Handler {
	return &Handler{
		nutritionService: nutritionService,
	}
}
