package service

import (
	"context"
	"errors"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/domain"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/docstore"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
	profile "github.com/NuSa-Nutrition-Scan/API-V1/internal/profile/domain"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

// Identity is the identity provider surface the service orchestrates.
type Identity interface {
	CreateUser(ctx context.Context, name, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Session, error)
	RevokeAllTokens(ctx context.Context, uid string) error
	RefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
}

// UserStore is the document store surface the service needs.
type UserStore interface {
	InitUserDetail(ctx context.Context, userID string) (*profile.UserDetail, error)
	GetUserDetail(ctx context.Context, userID string) (*profile.UserDetail, error)
	InitRecommendation(ctx context.Context, userID string) error
}

type AuthService struct {
	identity Identity
	store    UserStore
}

func NewAuthService(identity Identity, store UserStore) *AuthService {
	return &AuthService{
		identity: identity,
		store:    store,
	}
}

// CreateUser registers the account, then creates its profile detail and
// recommendation state. Nothing is written to the store if registration fails.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password string) result.Result {
	logger := logging.NewLogger(ctx)

	uid, err := s.identity.CreateUser(ctx, name, email, password)
	if err != nil {
		return failure(logger, "auth.create_user", err)
	}

	if _, err := s.store.InitUserDetail(ctx, uid); err != nil {
		logger.LogErrorf("auth.create_user", "init user detail for %s: %v", uid, err)
		return result.InternalErr()
	}

	if err := s.store.InitRecommendation(ctx, uid); err != nil {
		logger.LogErrorf("auth.create_user", "init recommendation for %s: %v", uid, err)
		return result.InternalErr()
	}

	logger.LogInfof("auth.create_user", "created user %s", uid)
	return result.Created()
}

// AuthenticateUser signs in and returns the session merged over the stored
// profile detail. Session fields win on collision.
func (s *AuthService) AuthenticateUser(ctx context.Context, email, password string) result.Result {
	logger := logging.NewLogger(ctx)

	session, err := s.identity.Authenticate(ctx, email, password)
	if err != nil {
		return failure(logger, "auth.authenticate_user", err)
	}

	detail, err := s.store.GetUserDetail(ctx, session.ID)
	if errors.Is(err, docstore.ErrUserDetailNotFound) {
		logger.LogWarnf("auth.authenticate_user", "no user detail for %s", session.ID)
		return result.OK(session.Fields())
	}
	if err != nil {
		logger.LogError("auth.authenticate_user", err)
		return result.InternalErr()
	}

	return result.OK(profile.MergeFields(session.Fields(), detail.Fields()))
}

// RevokeToken signs the user out of every device.
func (s *AuthService) RevokeToken(ctx context.Context, uid string) result.Result {
	if err := s.identity.RevokeAllTokens(ctx, uid); err != nil {
		return failure(logging.NewLogger(ctx), "auth.revoke_token", err)
	}
	return result.OK()
}

// RefreshToken exchanges a refresh token for a new session envelope.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) result.Result {
	session, err := s.Refresh(ctx, refreshToken)
	if err != nil {
		return failure(logging.NewLogger(ctx), "auth.refresh_token", err)
	}
	return result.OK(session)
}

// Refresh is RefreshToken for callers that need the typed session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	return s.identity.RefreshToken(ctx, refreshToken)
}

// failure maps err to its envelope, logging anything that is not a domain error.
func failure(logger *logging.Logger, operation string, err error) result.Result {
	if !result.IsDomain(err) {
		logger.LogError(operation, err)
	}
	return result.FromError(err)
}
