package service

import (
	"context"
	"errors"
	"io"

	authdomain "github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/domain"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/docstore"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/metrics"
	nutrition "github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/domain"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/objectstore"
	profile "github.com/NuSa-Nutrition-Scan/API-V1/internal/profile/domain"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

const msgInvalidSex = "Gender can only be male or female"

// Store is the document store surface the service needs.
type Store interface {
	UserExists(ctx context.Context, userID string) (bool, error)
	GetUserDetail(ctx context.Context, userID string) (*profile.UserDetail, error)
	SaveUserDetail(ctx context.Context, userID string, update profile.ProfileUpdate) (*profile.UserDetail, error)
	ListUploads(ctx context.Context, userID string, page int) ([]nutrition.UploadEvent, error)
}

// BlobStore stores and removes profile photos.
type BlobStore interface {
	Store(ctx context.Context, path string, content io.Reader, contentType string) (string, error)
	DestroyByName(ctx context.Context, path, name string) error
	OwnsURL(url string) bool
}

// Identity updates the provider-side profile.
type Identity interface {
	UpdateUser(ctx context.Context, uid, name, photoURL string) error
}

// Refresher exchanges a refresh token for a new session.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*authdomain.Session, error)
}

// ProfileInput is a profile update request. Photo is nil when the photo is
// left unchanged; EatPerDay 0 keeps the stored value.
type ProfileInput struct {
	Name           string
	Photo          io.Reader
	ContentType    string
	Weight         int
	Height         int
	Sex            string
	CaloriesTarget int
	Age            int
	EatPerDay      int
	RefreshToken   string
}

type SettingsService struct {
	store     Store
	blobs     BlobStore
	identity  Identity
	refresher Refresher
}

func NewSettingsService(store Store, blobs BlobStore, identity Identity, refresher Refresher) *SettingsService {
	return &SettingsService{
		store:     store,
		blobs:     blobs,
		identity:  identity,
		refresher: refresher,
	}
}

// UpdateProfile updates the provider profile (name, photo) and the stored
// profile detail, then returns a refreshed session carrying the new claims.
//
// Validation happens before any side effect. If the provider update fails
// after a new photo was stored, that photo is deleted again. Failures after
// the provider update leave the stored detail stale; this is not reconciled.
func (s *SettingsService) UpdateProfile(ctx context.Context, user *authdomain.User, in ProfileInput) result.Result {
	const op = "settings.update_profile"
	logger := logging.NewLogger(ctx).With("user_id", user.ID)

	exists, err := s.store.UserExists(ctx, user.ID)
	if err != nil {
		logger.LogError(op, err)
		return result.InternalErr()
	}
	if !exists {
		return result.FromError(authdomain.ErrUnauthorized)
	}

	sex := profile.Sex(in.Sex)
	if !sex.Valid() {
		return result.BadInput(map[string]string{"sex": msgInvalidSex})
	}

	eatPerDay := in.EatPerDay
	if eatPerDay == 0 {
		current, err := s.store.GetUserDetail(ctx, user.ID)
		if err != nil {
			logger.LogError(op, err)
			return result.InternalErr()
		}
		eatPerDay = current.EatPerDay
	}

	path := user.ID + "/profile"
	newPhotoURL := ""

	if in.Photo != nil {
		if user.PhotoURL != "" && s.blobs.OwnsURL(user.PhotoURL) {
			err := s.blobs.DestroyByName(ctx, path, objectstore.NameFromURL(user.PhotoURL))
			switch {
			case errors.Is(err, objectstore.ErrObjectNotFound):
				logger.LogWarnf(op, "previous photo %s already gone", user.PhotoURL)
			case err != nil:
				logger.LogError(op, err)
				return result.InternalErr()
			}
		}

		newPhotoURL, err = s.blobs.Store(ctx, path, in.Photo, in.ContentType)
		if err != nil {
			logger.LogError(op, err)
			return result.InternalErr()
		}
	}

	if err := s.identity.UpdateUser(ctx, user.ID, in.Name, newPhotoURL); err != nil {
		if newPhotoURL != "" {
			derr := s.blobs.DestroyByName(ctx, path, objectstore.NameFromURL(newPhotoURL))
			metrics.RecordCompensation(derr)
			if derr != nil {
				logger.LogErrorf(op, "failed to remove orphaned photo %s: %v", newPhotoURL, derr)
			}
		}
		if !result.IsDomain(err) {
			logger.LogError(op, err)
		}
		return result.FromError(err)
	}

	detail, err := s.store.SaveUserDetail(ctx, user.ID, profile.ProfileUpdate{
		Weight:         in.Weight,
		Height:         in.Height,
		Sex:            sex,
		CaloriesTarget: in.CaloriesTarget,
		Age:            in.Age,
		EatPerDay:      eatPerDay,
	})
	if err != nil {
		logger.LogError(op, err)
		return result.InternalErr()
	}

	session, err := s.refresher.Refresh(ctx, in.RefreshToken)
	if err != nil {
		if !result.IsDomain(err) {
			logger.LogError(op, err)
		}
		return result.FromError(err)
	}

	photoURL := newPhotoURL
	if photoURL == "" {
		photoURL = user.PhotoURL
	}

	resp := map[string]any{
		"id":            session.ID,
		"email":         user.Email,
		"name":          in.Name,
		"photo_url":     photoURL,
		"token":         session.Token,
		"refresh_token": session.RefreshToken,
		"expires_in":    session.ExpiresIn,
	}
	return result.OK(profile.MergeFields(resp, detail.Fields()))
}

// GetUploadHistory returns one page of the user's uploads, newest first.
func (s *SettingsService) GetUploadHistory(ctx context.Context, userID string, page int) result.Result {
	uploads, err := s.store.ListUploads(ctx, userID, page)
	if err != nil {
		logging.NewLogger(ctx).LogError("settings.upload_history", err)
		return result.InternalErr()
	}
	return result.OK(uploads)
}

// GetProfile returns the caller's identity merged over the stored detail.
func (s *SettingsService) GetProfile(ctx context.Context, user *authdomain.User) result.Result {
	detail, err := s.store.GetUserDetail(ctx, user.ID)
	if errors.Is(err, docstore.ErrUserDetailNotFound) {
		return result.OK(user.Fields())
	}
	if err != nil {
		logging.NewLogger(ctx).LogError("settings.get_profile", err)
		return result.InternalErr()
	}
	return result.OK(profile.MergeFields(user.Fields(), detail.Fields()))
}
