package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/NuSa-Nutrition-Scan/API-V1/config"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/objectstore"
)

// OpenObjectStore builds the blob store for the configured driver.
func OpenObjectStore(ctx context.Context, app *firebase.App, cfg config.StorageConfig) (*objectstore.Store, error) {
	var bucket objectstore.Bucket

	switch cfg.Driver {
	case "gcs":
		client, err := app.Storage(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage connect: %w", err)
		}
		handle, err := client.Bucket(cfg.BucketName)
		if err != nil {
			return nil, fmt.Errorf("storage bucket %s: %w", cfg.BucketName, err)
		}
		bucket = objectstore.NewGCSBucket(handle)
	case "s3":
		client, err := newS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		bucket = objectstore.NewS3Bucket(client, cfg.BucketName)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	return objectstore.New(bucket, cfg.PublicBaseURL), nil
}

func newS3Client(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
