package main

import (
	"context"
	"log"
	"os"

	"github.com/NuSa-Nutrition-Scan/API-V1/config"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
)

const usage = "usage: worker <import-foods <csvPath> | purge-tmp>"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.App.LogLevel, cfg.App.Environment)

	ctx := context.Background()
	app, err := auth.InitializeFirebase(ctx, &cfg.Firebase, cfg.Storage.BucketName)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}

	switch os.Args[1] {
	case "import-foods":
		err = RunImportFoods(ctx, cfg, app, os.Args[2:])
	case "purge-tmp":
		err = RunPurgeTmp(ctx, cfg, app)
	default:
		log.Fatalf("unknown command: %s\n%s", os.Args[1], usage)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}
