package http

import "github.com/NuSa-Nutrition-Scan/API-V1/internal/settings/service"

const photoField = "img"

type Handler struct {
	settingsService *service.SettingsService
}

func New(settingsService *service.SettingsService) *Handler {
	return &Handler{
		settingsService: settingsService,
	}
}

// updateProfileRequest is the multipart form of a profile update. The photo
// travels in the "img" file field and is read separately.
type updateProfileRequest struct {
	Name           string `form:"name" binding:"required,min=1,max=50"`
	RefreshToken   string `form:"refresh_token" binding:"required"`
	Weight         int    `form:"weight" binding:"min=0"`
	Height         int    `form:"height" binding:"min=0"`
	Sex            string `form:"sex"`
	CaloriesTarget int    `form:"calories_target" binding:"min=0"`
	Age            int    `form:"age" binding:"min=0"`
	EatPerDay      int    `form:"eat_per_day" binding:"min=0"`
}

type historyQuery struct {
	Page int `form:"page" binding:"min=0"`
}
