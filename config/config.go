package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Firebase FirebaseConfig
	DocStore DocStoreConfig
	Storage  StorageConfig
	Redis    RedisConfig
	ML       MLConfig
	Quota    QuotaConfig
	HTTP     HTTPConfig
	Cleanup  CleanupConfig
}

type ServerConfig struct {
	Port string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
	APIKey          string
	// IdentityToolkitURL and SecureTokenURL are overridable for the auth emulator.
	IdentityToolkitURL string
	SecureTokenURL     string
}

type DocStoreConfig struct {
	Driver string // firestore | memory
}

type StorageConfig struct {
	Driver        string // gcs | s3
	BucketName    string
	PublicBaseURL string
	S3Region      string
	S3Endpoint    string
	// Static S3 credentials; when empty the AWS default chain is used.
	S3AccessKeyID     string
	S3SecretAccessKey string
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	FoodCacheTTL time.Duration
}

type MLConfig struct {
	FoodPredictionURL string
	Timeout           time.Duration
}

type QuotaConfig struct {
	DailyUploadLimit int
}

type HTTPConfig struct {
	CORSAllowedOrigins []string
	RateLimitRPS       int
	RateLimitBurst     int
}

type CleanupConfig struct {
	Schedule  string
	Retention time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	bucket := getEnv("BUCKET_NAME", "")

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "0.5.2"),
		},
		Firebase: FirebaseConfig{
			CredentialsPath:    getEnv("FIREBASE_CREDENTIALS_PATH", "serviceAccountKey.json"),
			ProjectID:          getEnv("FIREBASE_PROJECT_ID", getEnv("PROJECT_ID", "")),
			APIKey:             getEnv("FIREBASE_API_KEY", getEnv("API_KEY", "")),
			IdentityToolkitURL: getEnv("IDENTITY_TOOLKIT_URL", "https://identitytoolkit.googleapis.com/v1"),
			SecureTokenURL:     getEnv("SECURE_TOKEN_URL", "https://securetoken.googleapis.com/v1"),
		},
		DocStore: DocStoreConfig{
			Driver: getEnv("DOCSTORE_DRIVER", "firestore"),
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", "gcs"),
			BucketName:    bucket,
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", "https://storage.googleapis.com/"+bucket),
			S3Region:      getEnv("S3_REGION", getEnv("AWS_REGION", "")),
			S3Endpoint:    getEnv("S3_ENDPOINT", ""),

			S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			FoodCacheTTL: getEnvAsDuration("FOOD_CACHE_TTL", 24*time.Hour),
		},
		ML: MLConfig{
			FoodPredictionURL: getEnv("FOOD_PREDICTIONS_API", ""),
			Timeout:           getEnvAsDuration("ML_TIMEOUT", 60*time.Second),
		},
		Quota: QuotaConfig{
			DailyUploadLimit: getEnvAsInt("DAILY_UPLOAD_LIMIT", 10),
		},
		HTTP: HTTPConfig{
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			RateLimitRPS:       getEnvAsInt("RATE_LIMIT_RPS", 5),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Cleanup: CleanupConfig{
			Schedule:  getEnv("TMP_PURGE_SCHEDULE", "0 0 0 * * *"),
			Retention: getEnvAsDuration("TMP_RETENTION", 24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Firebase.APIKey == "" {
		return fmt.Errorf("FIREBASE_API_KEY is required")
	}

	if c.Storage.BucketName == "" {
		return fmt.Errorf("BUCKET_NAME is required")
	}

	switch c.Storage.Driver {
	case "gcs":
	case "s3":
		if c.Storage.S3Region == "" {
			return fmt.Errorf("S3_REGION is required when STORAGE_DRIVER is s3")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be gcs or s3, got %q", c.Storage.Driver)
	}

	switch c.DocStore.Driver {
	case "firestore", "memory":
	default:
		return fmt.Errorf("DOCSTORE_DRIVER must be firestore or memory, got %q", c.DocStore.Driver)
	}

	if c.ML.FoodPredictionURL == "" {
		return fmt.Errorf("FOOD_PREDICTIONS_API is required")
	}

	if c.Quota.DailyUploadLimit <= 0 {
		return fmt.Errorf("DAILY_UPLOAD_LIMIT must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
