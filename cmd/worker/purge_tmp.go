package main

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"

	"github.com/NuSa-Nutrition-Scan/API-V1/config"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/bootstrap"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/cleanup"
	nutritionservice "github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/service"
)

// RunPurgeTmp runs the temporary prediction photo purge once.
func RunPurgeTmp(ctx context.Context, cfg *config.Config, app *firebase.App) error {
	blobs, err := bootstrap.OpenObjectStore(ctx, app, cfg.Storage)
	if err != nil {
		return err
	}

	n, err := cleanup.NewScheduler(blobs, nutritionservice.PredictPath, cfg.Cleanup.Retention).RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Purged %d objects under %s\n", n, nutritionservice.PredictPath)
	return nil
}
