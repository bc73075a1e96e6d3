package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	nutrition "github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/domain"
	profile "github.com/NuSa-Nutrition-Scan/API-V1/internal/profile/domain"
)

// uploadDoc is the stored shape of an upload event.
type uploadDoc struct {
	UserID    string    `firestore:"user_id"`
	ImgURL    string    `firestore:"img_url"`
	CreatedAt time.Time `firestore:"created_at"`
}

type counterDoc struct {
	Value string `firestore:"value"`
}

// FirestoreStore is the Cloud Firestore driver.
type FirestoreStore struct {
	client *firestore.Client
	now    Clock
}

// NewFirestoreStore wraps client. A nil clock uses time.Now.
func NewFirestoreStore(client *firestore.Client, now Clock) *FirestoreStore {
	if now == nil {
		now = time.Now
	}
	return &FirestoreStore{client: client, now: now}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (s *FirestoreStore) SaveUploadEvent(ctx context.Context, userID, imgURL string) (nutrition.UploadEvent, error) {
	createdAt := s.now().In(nutrition.Zone)

	ref, _, err := s.client.Collection(CollectionUploads).Add(ctx, uploadDoc{
		UserID:    userID,
		ImgURL:    imgURL,
		CreatedAt: createdAt,
	})
	if err != nil {
		return nutrition.UploadEvent{}, fmt.Errorf("failed to save upload event: %w", err)
	}
	return nutrition.NewUploadEvent(ref.ID, userID, imgURL, createdAt), nil
}

func (s *FirestoreStore) CountUploadsToday(ctx context.Context, userID string) (int, error) {
	start, end := nutrition.DayWindow(s.now())

	q := s.client.Collection(CollectionUploads).
		Where("user_id", "==", userID).
		Where("created_at", ">=", start).
		Where("created_at", "<", end)

	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count uploads: %w", err)
	}

	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count result type %T", res["all"])
	}
	return int(v.GetIntegerValue()), nil
}

func (s *FirestoreStore) ListUploads(ctx context.Context, userID string, page int) ([]nutrition.UploadEvent, error) {
	docs, err := s.client.Collection(CollectionUploads).
		Where("user_id", "==", userID).
		OrderBy("created_at", firestore.Desc).
		Offset(pageOffset(page)).
		Limit(nutrition.HistoryPageSize).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	out := make([]nutrition.UploadEvent, 0, len(docs))
	for _, doc := range docs {
		var u uploadDoc
		if err := doc.DataTo(&u); err != nil {
			return nil, fmt.Errorf("failed to decode upload %s: %w", doc.Ref.ID, err)
		}
		out = append(out, nutrition.NewUploadEvent(doc.Ref.ID, u.UserID, u.ImgURL, u.CreatedAt))
	}
	return out, nil
}

func (s *FirestoreStore) UserExists(ctx context.Context, userID string) (bool, error) {
	snap, err := s.client.Collection(CollectionUserDetail).Doc(userID).Get(ctx)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return snap.Exists(), nil
}

// InitUserDetail assigns the next ml_id and creates the detail in one
// transaction, so concurrent signups never share an ml_id.
func (s *FirestoreStore) InitUserDetail(ctx context.Context, userID string) (*profile.UserDetail, error) {
	counterRef := s.client.Collection(CollectionCounters).Doc(counterMLID)
	detailRef := s.client.Collection(CollectionUserDetail).Doc(userID)

	var detail *profile.UserDetail
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		current := profile.FormatMLID(1)

		snap, err := tx.Get(counterRef)
		switch {
		case isNotFound(err):
		case err != nil:
			return err
		default:
			var c counterDoc
			if err := snap.DataTo(&c); err != nil {
				return err
			}
			if c.Value != "" {
				current = c.Value
			}
		}

		next, err := profile.NextMLID(current)
		if err != nil {
			return err
		}

		detail = profile.NewUserDetail(userID, current)
		if err := tx.Set(counterRef, counterDoc{Value: next}); err != nil {
			return err
		}
		return tx.Set(detailRef, detail)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init user detail: %w", err)
	}
	return detail, nil
}

func (s *FirestoreStore) GetUserDetail(ctx context.Context, userID string) (*profile.UserDetail, error) {
	snap, err := s.client.Collection(CollectionUserDetail).Doc(userID).Get(ctx)
	if isNotFound(err) {
		return nil, ErrUserDetailNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user detail: %w", err)
	}

	var d profile.UserDetail
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to decode user detail: %w", err)
	}
	return &d, nil
}

func (s *FirestoreStore) SaveUserDetail(ctx context.Context, userID string, update profile.ProfileUpdate) (*profile.UserDetail, error) {
	ref := s.client.Collection(CollectionUserDetail).Doc(userID)

	var saved profile.UserDetail
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if isNotFound(err) {
			return ErrNotUpdated
		}
		if err != nil {
			return err
		}

		var d profile.UserDetail
		if err := snap.DataTo(&d); err != nil {
			return err
		}
		update.Apply(&d)
		saved = d
		return tx.Set(ref, &d)
	})
	if errors.Is(err, ErrNotUpdated) {
		return nil, ErrNotUpdated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save user detail: %w", err)
	}
	return &saved, nil
}

func (s *FirestoreStore) GetFoodByName(ctx context.Context, name string) (*nutrition.Food, error) {
	snap, err := s.client.Collection(CollectionFoods).Doc(nutrition.NormalizeFoodName(name)).Get(ctx)
	if isNotFound(err) {
		return nil, ErrFoodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get food: %w", err)
	}

	var f nutrition.Food
	if err := snap.DataTo(&f); err != nil {
		return nil, fmt.Errorf("failed to decode food: %w", err)
	}
	return &f, nil
}

func (s *FirestoreStore) PutFood(ctx context.Context, food *nutrition.Food) error {
	if _, err := s.client.Collection(CollectionFoods).Doc(food.Name).Set(ctx, food); err != nil {
		return fmt.Errorf("failed to put food %s: %w", food.Name, err)
	}
	return nil
}

func (s *FirestoreStore) InitRecommendation(ctx context.Context, userID string) error {
	_, err := s.client.Collection(CollectionRecommendations).Doc(userID).Set(ctx, nutrition.Recommendation{
		UserID: userID,
		Status: nutrition.RecommendationGenerating,
		Top15:  []nutrition.FoodRef{},
		Recom:  []map[string]string{},
	})
	if err != nil {
		return fmt.Errorf("failed to init recommendation: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetRecommendation(ctx context.Context, userID string) (*nutrition.Recommendation, error) {
	snap, err := s.client.Collection(CollectionRecommendations).Doc(userID).Get(ctx)
	if isNotFound(err) {
		return nil, ErrRecommendationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}

	var rec nutrition.Recommendation
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode recommendation: %w", err)
	}
	return &rec, nil
}
