package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/errorutils"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/domain"
)

// DefaultPhotoURL is the avatar given to new accounts.
const DefaultPhotoURL = "https://static.vecteezy.com/system/resources/thumbnails/004/511/281/small/default-avatar-photo-placeholder-profile-picture-vector.jpg"

// AdminClient is the subset of *auth.Client the adapter needs.
type AdminClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
}

// CreateUser registers a verified email/password account and returns its uid.
func (a *Adapter) CreateUser(ctx context.Context, name, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).
		DisplayName(name).
		Email(email).
		EmailVerified(true).
		Password(password).
		PhotoURL(DefaultPhotoURL)

	rec, err := a.admin.CreateUser(ctx, params)
	if err != nil {
		return "", classifyCreateError(err)
	}
	return rec.UID, nil
}

func classifyCreateError(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return domain.ErrEmailAlreadyExists
	case errorutils.IsInvalidArgument(err):
		return domain.ErrInvalidInput
	case isProviderFailure(err):
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	default:
		// The SDK rejects malformed parameters locally with plain errors.
		return domain.ErrInvalidInput
	}
}

// isProviderFailure reports whether err came back from (or on the way to) the
// provider rather than from local parameter validation.
func isProviderFailure(err error) bool {
	return errorutils.HTTPResponse(err) != nil ||
		errorutils.IsUnavailable(err) ||
		errorutils.IsInternal(err) ||
		errorutils.IsUnknown(err) ||
		errorutils.IsDeadlineExceeded(err)
}

// RevokeAllTokens invalidates every refresh token issued to uid.
func (a *Adapter) RevokeAllTokens(ctx context.Context, uid string) error {
	if uid == "" {
		return domain.ErrBadCredentials
	}
	if err := a.admin.RevokeRefreshTokens(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) || errorutils.IsInvalidArgument(err) {
			return domain.ErrBadCredentials
		}
		return fmt.Errorf("revoke tokens: %w", err)
	}
	return nil
}

// UpdateUser sets the display name and, when photoURL is not empty, the photo.
func (a *Adapter) UpdateUser(ctx context.Context, uid, name, photoURL string) error {
	if uid == "" {
		return domain.ErrInvalidUser
	}

	params := (&auth.UserToUpdate{}).DisplayName(name)
	if photoURL != "" {
		params = params.PhotoURL(photoURL)
	}

	if _, err := a.admin.UpdateUser(ctx, uid, params); err != nil {
		if auth.IsUserNotFound(err) || errorutils.IsInvalidArgument(err) {
			return domain.ErrInvalidUser
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
