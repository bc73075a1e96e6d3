package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/NuSa-Nutrition-Scan/API-V1/internal/api/http"
	apimiddleware "github.com/NuSa-Nutrition-Scan/API-V1/internal/api/http/middleware"
	authhttp "github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/http"
	authmiddleware "github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/middleware"
	authservice "github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/service"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/metrics"
	nutritionhttp "github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/http"
	nutritionservice "github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/service"
	settingshttp "github.com/NuSa-Nutrition-Scan/API-V1/internal/settings/http"
	settingsservice "github.com/NuSa-Nutrition-Scan/API-V1/internal/settings/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	RateLimitRPS   int
	RateLimitBurst int

	DocStoreDriver string
	StorageDriver  string
	Cache          *redis.Client
	TokenVerifier  authmiddleware.TokenVerifier

	AuthService      *authservice.AuthService
	NutritionService *nutritionservice.NutritionService
	SettingsService  *settingsservice.SettingsService
}

// BuildRouter wires every route. The returned stop function ends background
// work started for the router.
func BuildRouter(dep RouterDeps) (*gin.Engine, func()) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(apimiddleware.RequestIDMiddleware())
	r.Use(metrics.Middleware())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, httpapi.Backends{
		DocStore: dep.DocStoreDriver,
		Storage:  dep.StorageDriver,
		Cache:    dep.Cache,
	})
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	requireAuth := authmiddleware.FirebaseAuthMiddleware(dep.TokenVerifier)

	stop := make(chan struct{})
	limiter := apimiddleware.NewRateLimiter(dep.RateLimitRPS, dep.RateLimitBurst)
	limiter.StartCleanup(10*time.Minute, stop)

	authGroup := r.Group("/auth", limiter.Handler())
	authhttp.New(dep.AuthService).Register(authGroup, requireAuth)

	nutritionhttp.New(dep.NutritionService).Register(r.Group("/nutrition"), requireAuth)
	settingshttp.New(dep.SettingsService).Register(r.Group("/settings"), requireAuth)

	return r, func() { close(stop) }
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", apimiddleware.HeaderRequestID)
	cfg.ExposeHeaders = []string{apimiddleware.HeaderRequestID}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
