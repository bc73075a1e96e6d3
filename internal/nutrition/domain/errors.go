package domain

import (
	"net/http"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

var (
	ErrQuotaExceeded   = result.NewError(http.StatusBadRequest, "quota exceeded")
	ErrFoodNotFound    = result.NewError(http.StatusNotFound, "Food not found")
	ErrStillGenerating = result.NewError(http.StatusLocked, "Still generating. Please wait")
)
