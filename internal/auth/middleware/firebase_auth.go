package middleware

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	authctx "github.com/NuSa-Nutrition-Scan/API-V1/internal/auth"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/domain"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware validates Firebase ID tokens and stores the caller
// on the context. Expired tokens answer 401 "Unauthorized", every other
// rejected token 401 "Invalid credentials".
func FirebaseAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			abort(c, result.FromError(domain.ErrInvalidCredentials))
			return
		}

		ctx := c.Request.Context()
		decoded, err := verifier.VerifyIDToken(ctx, token)
		switch {
		case err == nil:
		case auth.IsIDTokenExpired(err):
			abort(c, result.FromError(domain.ErrUnauthorized))
			return
		case auth.IsIDTokenInvalid(err):
			abort(c, result.FromError(domain.ErrInvalidCredentials))
			return
		default:
			logging.NewLogger(ctx).LogError("auth.verify_token", err)
			abort(c, result.InternalErr())
			return
		}

		authctx.SetCurrentUser(c, &domain.User{
			ID:       decoded.UID,
			Name:     claim(decoded, "name"),
			Email:    claim(decoded, "email"),
			PhotoURL: claim(decoded, "picture"),
			Token:    token,
		})

		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func claim(t *auth.Token, key string) string {
	s, _ := t.Claims[key].(string)
	return s
}

func abort(c *gin.Context, res result.Result) {
	c.AbortWithStatusJSON(res.Code, res)
}
