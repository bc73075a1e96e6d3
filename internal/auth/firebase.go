package auth

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/NuSa-Nutrition-Scan/API-V1/config"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
)

// InitializeFirebase initializes the Firebase Admin SDK app shared by the
// auth, Firestore and Storage clients. When the credentials file is absent the
// SDK falls back to application default credentials.
func InitializeFirebase(ctx context.Context, cfg *config.FirebaseConfig, bucket string) (*firebase.App, error) {
	fbCfg := &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: bucket,
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		if _, err := os.Stat(cfg.CredentialsPath); err == nil {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
		} else {
			logging.NewLogger(ctx).LogWarnf("firebase.init", "credentials file %s not readable, using default credentials", cfg.CredentialsPath)
		}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	return app, nil
}
