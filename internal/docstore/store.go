// Package docstore persists user details, upload events, foods and
// recommendation state.
package docstore

import (
	"context"
	"errors"
	"time"

	nutrition "github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/domain"
	profile "github.com/NuSa-Nutrition-Scan/API-V1/internal/profile/domain"
)

// Collection names.
const (
	CollectionUploads         = "user_nutrition"
	CollectionUserDetail      = "user_detail"
	CollectionFoods           = "food_collection"
	CollectionRecommendations = "user_recommendation"
	CollectionCounters        = "counters"

	// counterMLID is the document in CollectionCounters holding the next ml_id.
	counterMLID = "ml_id"
)

var (
	ErrUserDetailNotFound     = errors.New("user detail not found")
	ErrNotUpdated             = errors.New("user detail not updated")
	ErrRecommendationNotFound = errors.New("recommendation not found")
	// ErrFoodNotFound is the nutrition domain error so handlers can surface it as 404.
	ErrFoodNotFound = nutrition.ErrFoodNotFound
)

// Store is implemented by every document store driver.
type Store interface {
	SaveUploadEvent(ctx context.Context, userID, imgURL string) (nutrition.UploadEvent, error)
	CountUploadsToday(ctx context.Context, userID string) (int, error)
	ListUploads(ctx context.Context, userID string, page int) ([]nutrition.UploadEvent, error)

	UserExists(ctx context.Context, userID string) (bool, error)
	InitUserDetail(ctx context.Context, userID string) (*profile.UserDetail, error)
	GetUserDetail(ctx context.Context, userID string) (*profile.UserDetail, error)
	SaveUserDetail(ctx context.Context, userID string, update profile.ProfileUpdate) (*profile.UserDetail, error)

	GetFoodByName(ctx context.Context, name string) (*nutrition.Food, error)
	PutFood(ctx context.Context, food *nutrition.Food) error

	InitRecommendation(ctx context.Context, userID string) error
	GetRecommendation(ctx context.Context, userID string) (*nutrition.Recommendation, error)
}

// Clock returns the current time. Drivers take one so tests can pin the day window.
type Clock func() time.Time

func pageOffset(page int) int {
	if page < 0 {
		page = 0
	}
	return page * nutrition.HistoryPageSize
}
