package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/domain"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

const (
	CtxUser = "current_user"
)

// SetCurrentUser stores the verified caller on the Gin context.
// This is called by FirebaseAuthMiddleware
func SetCurrentUser(c *gin.Context, user *domain.User) {
	c.Set(CtxUser, user)
}

// CurrentUser extracts the verified caller from the Gin context.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil && user.ID != ""
}

// RequireUser returns the verified caller, or writes the 401 envelope and
// aborts when the route was reached without one.
func RequireUser(c *gin.Context) (*domain.User, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		res := result.FromError(domain.ErrInvalidCredentials)
		c.AbortWithStatusJSON(res.Code, res)
		return nil, false
	}
	return user, true
}
