package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/domain"
	authservice "github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/service"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/docstore"
	nutritionservice "github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/service"
	settingsservice "github.com/NuSa-Nutrition-Scan/API-V1/internal/settings/service"
)

type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, token string) (*auth.Token, error) {
	if token != "good" {
		return nil, errors.New("verifier offline")
	}
	return &auth.Token{UID: "uid-1", Claims: map[string]interface{}{"email": "budi@nusa.id"}}, nil
}

type stubIdentity struct{}

func (stubIdentity) CreateUser(context.Context, string, string, string) (string, error) {
	return "uid-1", nil
}

func (stubIdentity) Authenticate(context.Context, string, string) (*authdomain.Session, error) {
	return nil, authdomain.ErrBadCredentials
}

func (stubIdentity) RevokeAllTokens(context.Context, string) error { return nil }

func (stubIdentity) RefreshToken(context.Context, string) (*authdomain.Session, error) {
	return &authdomain.Session{ID: "uid-1"}, nil
}

func (stubIdentity) UpdateUser(context.Context, string, string, string) error { return nil }

func newTestRouter(t *testing.T, burst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := docstore.NewMemoryStore(nil)
	authSvc := authservice.NewAuthService(stubIdentity{}, store)
	r, stop := BuildRouter(RouterDeps{
		ServiceName:      "nusa-api",
		Version:          "test",
		AllowedOrigins:   []string{"*"},
		RateLimitRPS:     1,
		RateLimitBurst:   burst,
		TokenVerifier:    stubVerifier{},
		AuthService:      authSvc,
		NutritionService: nutritionservice.NewNutritionService(store, store, nil, nil, 10),
		SettingsService:  settingsservice.NewSettingsService(store, nil, stubIdentity{}, authSvc),
	})
	t.Cleanup(stop)
	return r
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBuildRouter_PublicRoutes(t *testing.T) {
	r := newTestRouter(t, 10)

	for _, path := range []string{"/", "/health", "/healthz", "/metrics"} {
		w := serve(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"), path)
	}
}

func TestBuildRouter_ProtectedRoutes(t *testing.T) {
	r := newTestRouter(t, 10)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/auth/signout"},
		{http.MethodPost, "/nutrition/photo"},
		{http.MethodGet, "/nutrition/photo/count"},
		{http.MethodPost, "/nutrition/photo/predict_food_secure"},
		{http.MethodGet, "/nutrition/recommendation"},
		{http.MethodGet, "/settings/profile"},
		{http.MethodPatch, "/settings/profile/update"},
		{http.MethodGet, "/settings/nutrition-photo/all"},
	}
	for _, rt := range routes {
		w := serve(r, rt.method, rt.path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.path)
	}

	w := serve(r, http.MethodGet, "/nutrition/photo/count", "good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":200,"msg":"OK","data":{"count":0}}`, w.Body.String())

	w = serve(r, http.MethodGet, "/nutrition/recommendation", "broken")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestBuildRouter_AuthRateLimit(t *testing.T) {
	r := newTestRouter(t, 2)

	assert.Equal(t, http.StatusUnprocessableEntity, serve(r, http.MethodPost, "/auth/signin", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, serve(r, http.MethodPost, "/auth/signin", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/auth/signin", "").Code)

	// Other groups are not limited.
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)
}

func TestCORSConfig(t *testing.T) {
	all := corsConfig([]string{"*"})
	assert.True(t, all.AllowAllOrigins)
	assert.Empty(t, all.AllowOrigins)
	require.NoError(t, all.Validate())

	some := corsConfig([]string{"https://nusa.id"})
	assert.False(t, some.AllowAllOrigins)
	assert.Equal(t, []string{"https://nusa.id"}, some.AllowOrigins)
	require.NoError(t, some.Validate())
}
