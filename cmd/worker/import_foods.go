package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"

	"github.com/NuSa-Nutrition-Scan/API-V1/config"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/bootstrap"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/importer"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/repository"
)

// RunImportFoods loads the food CSV into the document store and drops the
// cached copies of every imported food.
func RunImportFoods(ctx context.Context, cfg *config.Config, app *firebase.App, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: import-foods <csvPath>")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	store, closeStore, err := bootstrap.OpenDocStore(ctx, app, cfg.DocStore)
	if err != nil {
		return err
	}
	defer closeStore()

	rdb := bootstrap.OpenRedis(ctx, bootstrap.CacheOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	cache := repository.NewFoodCache(rdb, store, cfg.Redis.FoodCacheTTL)

	n, err := importer.ImportFoods(ctx, f, store, cache)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d foods from %s\n", n, args[0])
	return nil
}
