package service

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/docstore"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/metrics"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/domain"
	profile "github.com/NuSa-Nutrition-Scan/API-V1/internal/profile/domain"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

// PredictPath is the shared folder for photos submitted for prediction.
const PredictPath = "tmp/predict"

// Store is the document store surface the service needs.
type Store interface {
	CountUploadsToday(ctx context.Context, userID string) (int, error)
	SaveUploadEvent(ctx context.Context, userID, imgURL string) (domain.UploadEvent, error)
	GetUserDetail(ctx context.Context, userID string) (*profile.UserDetail, error)
	GetRecommendation(ctx context.Context, userID string) (*domain.Recommendation, error)
}

// FoodLookup resolves a predicted label to a food record.
type FoodLookup interface {
	GetFoodByName(ctx context.Context, name string) (*domain.Food, error)
}

// BlobStore writes photos and returns their public URL.
type BlobStore interface {
	Store(ctx context.Context, path string, content io.Reader, contentType string) (string, error)
}

// Predictor classifies a photo by URL.
type Predictor interface {
	PredictFood(ctx context.Context, imageURL string) (*domain.Prediction, error)
}

type NutritionService struct {
	store      Store
	foods      FoodLookup
	blobs      BlobStore
	predictor  Predictor
	dailyLimit int
}

func NewNutritionService(store Store, foods FoodLookup, blobs BlobStore, predictor Predictor, dailyLimit int) *NutritionService {
	return &NutritionService{
		store:      store,
		foods:      foods,
		blobs:      blobs,
		predictor:  predictor,
		dailyLimit: dailyLimit,
	}
}

// UploadPhoto stores a nutrition photo and records the upload. The daily quota
// is checked before anything is written; concurrent uploads can overshoot it.
func (s *NutritionService) UploadPhoto(ctx context.Context, file io.Reader, userID, contentType string) result.Result {
	logger := logging.NewLogger(ctx).With("user_id", userID)

	count, err := s.store.CountUploadsToday(ctx, userID)
	if err != nil {
		logger.LogError("nutrition.upload_photo", err)
		return result.InternalErr()
	}
	if count >= s.dailyLimit {
		metrics.RecordQuotaRejection()
		logger.LogInfof("nutrition.upload_photo", "quota reached (%d/%d)", count, s.dailyLimit)
		return result.FromError(domain.ErrQuotaExceeded)
	}

	url, err := s.blobs.Store(ctx, userID+"/nutrition", file, contentType)
	if err != nil {
		logger.LogError("nutrition.upload_photo", err)
		return result.InternalErr()
	}

	event, err := s.store.SaveUploadEvent(ctx, userID, url)
	if err != nil {
		logger.LogErrorf("nutrition.upload_photo", "stored %s but failed to record it: %v", url, err)
		return result.InternalErr()
	}

	metrics.RecordPhotoUpload()
	return result.OK(event)
}

// PredictFood classifies a food photo and scales the matching food to the
// caller's meals per day. userID is empty for anonymous callers.
func (s *NutritionService) PredictFood(ctx context.Context, file io.Reader, contentType, userID string) result.Result {
	logger := logging.NewLogger(ctx)

	url, err := s.blobs.Store(ctx, PredictPath, file, contentType)
	if err != nil {
		logger.LogError("nutrition.predict_food", err)
		return result.InternalErr()
	}

	var (
		prediction *domain.Prediction
		eatPerDay  = profile.DefaultEatPerDay
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.predictor.PredictFood(gctx, url)
		if err != nil {
			return err
		}
		prediction = p
		return nil
	})
	if userID != "" {
		g.Go(func() error {
			d, err := s.store.GetUserDetail(gctx, userID)
			if errors.Is(err, docstore.ErrUserDetailNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			eatPerDay = d.EatPerDay
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.LogError("nutrition.predict_food", err)
		return result.InternalErr()
	}

	food, err := s.foods.GetFoodByName(ctx, prediction.Label)
	if err != nil {
		if !result.IsDomain(err) {
			logger.LogError("nutrition.predict_food", err)
		}
		return result.FromError(err)
	}

	return result.OK(food.Scale(eatPerDay, prediction.OtherOptions))
}

// GetUploadCountToday returns how many photos the user uploaded today.
func (s *NutritionService) GetUploadCountToday(ctx context.Context, userID string) result.Result {
	count, err := s.store.CountUploadsToday(ctx, userID)
	if err != nil {
		logging.NewLogger(ctx).LogError("nutrition.count_today", err)
		return result.InternalErr()
	}
	return result.OK(map[string]int{"count": count})
}

// GetRecommendation returns the user's food recommendation once the ML
// pipeline has produced it.
func (s *NutritionService) GetRecommendation(ctx context.Context, userID string) result.Result {
	rec, err := s.store.GetRecommendation(ctx, userID)
	if errors.Is(err, docstore.ErrRecommendationNotFound) {
		return result.FromError(domain.ErrStillGenerating)
	}
	if err != nil {
		logging.NewLogger(ctx).LogError("nutrition.get_recommendation", err)
		return result.InternalErr()
	}
	if rec.Status != domain.RecommendationReady {
		return result.FromError(domain.ErrStillGenerating)
	}
	return result.OK(rec)
}
