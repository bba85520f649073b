// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	App     AppConfig
	Cache   CacheConfig
	Storage StorageConfig
	Planner PlannerConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	DataDir         string
	ModelDir        string
	MaxUploadSizeMB int64
}

type CacheConfig struct {
	Enabled        bool
	RedisURL       string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	PlanTTLSeconds int
}

type StorageConfig struct {
	Backend   string // "local" or "s3"
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// PlannerConfig carries the business constants for the stock planner.
// These are placeholder values in the absence of real cost data.
type PlannerConfig struct {
	MinServiceLevel     float64
	SafetyStockCap      float64
	ShelfLifeNormDays   float64
	DefaultShelfLife    int
	BaselineDailyDemand float64
	UnitCost            float64
	HoldingCostRate     float64
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"})
		viper.SetDefault("APP_DATA_DIR", "./data")
		viper.SetDefault("APP_MODEL_DIR", "./models")
		viper.SetDefault("APP_MAX_UPLOAD_SIZE_MB", 16)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PLAN_TTL_SECONDS", 60)
		viper.SetDefault("STORAGE_BACKEND", "local")
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("PLANNER_MIN_SERVICE_LEVEL", 80.0)
		viper.SetDefault("PLANNER_SAFETY_STOCK_CAP", 0.5)
		viper.SetDefault("PLANNER_SHELF_LIFE_NORM_DAYS", 30.0)
		viper.SetDefault("PLANNER_DEFAULT_SHELF_LIFE", 7)
		viper.SetDefault("PLANNER_BASELINE_DAILY_DEMAND", 30.0)
		viper.SetDefault("PLANNER_UNIT_COST", 5.0)
		viper.SetDefault("PLANNER_HOLDING_COST_RATE", 0.02)

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure data and model directories exist
		ensureDir(viper.GetString("APP_DATA_DIR"))
		ensureDir(viper.GetString("APP_MODEL_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				DataDir:         viper.GetString("APP_DATA_DIR"),
				ModelDir:        viper.GetString("APP_MODEL_DIR"),
				MaxUploadSizeMB: viper.GetInt64("APP_MAX_UPLOAD_SIZE_MB"),
			},
			Cache: CacheConfig{
				Enabled:        viper.GetBool("CACHE_ENABLED"),
				RedisURL:       viper.GetString("REDIS_URL"),
				RedisHost:      viper.GetString("REDIS_HOST"),
				RedisPort:      viper.GetString("REDIS_PORT"),
				RedisPassword:  viper.GetString("REDIS_PASSWORD"),
				RedisDB:        viper.GetInt("REDIS_DB"),
				PlanTTLSeconds: viper.GetInt("CACHE_PLAN_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Backend:   viper.GetString("STORAGE_BACKEND"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Planner: PlannerConfig{
				MinServiceLevel:     viper.GetFloat64("PLANNER_MIN_SERVICE_LEVEL"),
				SafetyStockCap:      viper.GetFloat64("PLANNER_SAFETY_STOCK_CAP"),
				ShelfLifeNormDays:   viper.GetFloat64("PLANNER_SHELF_LIFE_NORM_DAYS"),
				DefaultShelfLife:    viper.GetInt("PLANNER_DEFAULT_SHELF_LIFE"),
				BaselineDailyDemand: viper.GetFloat64("PLANNER_BASELINE_DAILY_DEMAND"),
				UnitCost:            viper.GetFloat64("PLANNER_UNIT_COST"),
				HoldingCostRate:     viper.GetFloat64("PLANNER_HOLDING_COST_RATE"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
