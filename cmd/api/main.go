package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/NuSa-Nutrition-Scan/API-V1/config"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/identity"
	authservice "github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/service"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/bootstrap"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/cleanup"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/ml"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/repository"
	nutritionservice "github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/service"
	settingsservice "github.com/NuSa-Nutrition-Scan/API-V1/internal/settings/service"
)

const serviceName = "nusa-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup(cfg.App.LogLevel, cfg.App.Environment)
	bootstrap.SetGinMode(cfg.App.Environment)
	logger := logging.NewLogger(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := auth.InitializeFirebase(ctx, &cfg.Firebase, cfg.Storage.BucketName)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("firebase auth: %v", err)
	}

	store, closeStore, err := bootstrap.OpenDocStore(ctx, app, cfg.DocStore)
	if err != nil {
		log.Fatalf("docstore: %v", err)
	}
	defer closeStore()

	blobs, err := bootstrap.OpenObjectStore(ctx, app, cfg.Storage)
	if err != nil {
		log.Fatalf("object store: %v", err)
	}

	rdb := bootstrap.OpenRedis(ctx, bootstrap.CacheOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	idp := identity.New(authClient, identity.NewRESTClient(
		cfg.Firebase.APIKey,
		cfg.Firebase.IdentityToolkitURL,
		cfg.Firebase.SecureTokenURL,
	))
	foods := repository.NewFoodCache(rdb, store, cfg.Redis.FoodCacheTTL)
	predictor := ml.NewClient(cfg.ML.FoodPredictionURL, cfg.ML.Timeout)

	authSvc := authservice.NewAuthService(idp, store)
	nutritionSvc := nutritionservice.NewNutritionService(store, foods, blobs, predictor, cfg.Quota.DailyUploadLimit)
	settingsSvc := settingsservice.NewSettingsService(store, blobs, idp, authSvc)

	purge := cleanup.NewScheduler(blobs, nutritionservice.PredictPath, cfg.Cleanup.Retention)
	if err := purge.Start(cfg.Cleanup.Schedule); err != nil {
		log.Fatalf("cleanup: %v", err)
	}

	router, stopRouter := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:      serviceName,
		Version:          cfg.App.Version,
		AllowedOrigins:   cfg.HTTP.CORSAllowedOrigins,
		RateLimitRPS:     cfg.HTTP.RateLimitRPS,
		RateLimitBurst:   cfg.HTTP.RateLimitBurst,
		DocStoreDriver:   cfg.DocStore.Driver,
		StorageDriver:    cfg.Storage.Driver,
		Cache:            rdb,
		TokenVerifier:    authClient,
		AuthService:      authSvc,
		NutritionService: nutritionSvc,
		SettingsService:  settingsSvc,
	})
	defer stopRouter()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.LogInfof("api.start", "%s %s listening on :%s", serviceName, cfg.App.Version, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.LogInfo("api.shutdown", "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError("api.shutdown", err)
	}
	select {
	case <-purge.Stop().Done():
	case <-shutdownCtx.Done():
		logger.LogWarn("api.shutdown", "purge still running at shutdown deadline")
	}
}
