// Package identity wraps the identity provider: Firebase Admin for account
// management and the public REST API for password sign-in and token refresh.
package identity

import (
	"context"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/domain"
)

// Adapter is the identity provider facade used by the services.
type Adapter struct {
	admin AdminClient
	rest  *RESTClient
}

func New(admin AdminClient, rest *RESTClient) *Adapter {
	return &Adapter{admin: admin, rest: rest}
}

// Authenticate signs in with email and password.
func (a *Adapter) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	return a.rest.SignIn(ctx, email, password)
}

// RefreshToken exchanges a refresh token for a new session.
func (a *Adapter) RefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	return a.rest.Refresh(ctx, refreshToken)
}
