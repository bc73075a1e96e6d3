package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/api/http/request"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/settings/service"
)

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}

	res := h.settingsService.GetProfile(c.Request.Context(), user)
	c.JSON(res.Code, res)
}

// UpdateProfile updates the user's name, optional photo and profile detail,
// and answers with a refreshed session.
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !request.Bind(c, &req) {
		return
	}

	in := service.ProfileInput{
		Name:           req.Name,
		Weight:         req.Weight,
		Height:         req.Height,
		Sex:            req.Sex,
		CaloriesTarget: req.CaloriesTarget,
		Age:            req.Age,
		EatPerDay:      req.EatPerDay,
		RefreshToken:   req.RefreshToken,
	}

	upload, err := request.ReadImage(c, photoField)
	switch {
	case err == nil:
		in.Photo = upload.Body
		in.ContentType = upload.ContentType
	case errors.Is(err, request.ErrNoFile):
	case request.UploadError(c, photoField, err):
		return
	default:
		logging.NewLogger(c.Request.Context()).LogError("settings.read_photo", err)
		res := result.InternalErr()
		c.JSON(res.Code, res)
		return
	}

	res := h.settingsService.UpdateProfile(c.Request.Context(), user, in)
	c.JSON(res.Code, res)
}

// GetUploadHistory lists the user's nutrition photos, ten per page.
func (h *Handler) GetUploadHistory(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}

	var q historyQuery
	if !request.BindQuery(c, &q) {
		return
	}

	res := h.settingsService.GetUploadHistory(c.Request.Context(), user.ID, q.Page)
	c.JSON(res.Code, res)
}
