package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	StorageURL          string // object storage base URL used for signed upload URLs and public photo URLs
	StorageSecretKey    string // service key, never the anon key
	PhotoBucket         string
	StorageSignPath     string // upload signing endpoint, Supabase layout by default
	StoragePublicPath   string // public object prefix
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string

	Search  SearchConfig
	Reviews ReviewConfig

	CategoryCacheTTL    time.Duration
	ReviewCountCacheTTL time.Duration
	SlowQueryThreshold  time.Duration
}

// SearchConfig carries the page size and the per request shape radius defaults.
type SearchConfig struct {
	PageSize int
	// DefaultRadiusKm applies to the single category_id request shape.
	DefaultRadiusKm float64
	// ListDefaultRadiusKm applies to the category_list request shape.
	ListDefaultRadiusKm float64
}

type ReviewConfig struct {
	PageSize         int
	CommentMaxLength int
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("STORAGE_PHOTO_BUCKET", "building-photos")
	viper.SetDefault("STORAGE_SIGN_PATH", "/storage/v1/object/upload/sign")
	viper.SetDefault("STORAGE_PUBLIC_PATH", "/storage/v1/object/public")
	viper.SetDefault("SEARCH_PAGE_SIZE", 5)
	viper.SetDefault("SEARCH_DEFAULT_RADIUS_KM", 10.0)
	viper.SetDefault("SEARCH_LIST_DEFAULT_RADIUS_KM", 10000.0)
	viper.SetDefault("REVIEW_PAGE_SIZE", 5)
	viper.SetDefault("REVIEW_COMMENT_MAX_LENGTH", 1000)
	viper.SetDefault("CATEGORY_CACHE_TTL", "5m")
	viper.SetDefault("REVIEW_COUNT_CACHE_TTL", "1h")
	viper.SetDefault("SLOW_QUERY_THRESHOLD", "500ms")

	return &Config{
		Env:                 viper.GetString("APP_ENV"),
		Port:                viper.GetString("PORT"),
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		RedisURL:            viper.GetString("REDIS_URL"),
		StorageURL:          viper.GetString("STORAGE_URL"),
		StorageSecretKey:    viper.GetString("STORAGE_SECRET_KEY"),
		PhotoBucket:         viper.GetString("STORAGE_PHOTO_BUCKET"),
		StorageSignPath:     viper.GetString("STORAGE_SIGN_PATH"),
		StoragePublicPath:   viper.GetString("STORAGE_PUBLIC_PATH"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		Search: SearchConfig{
			PageSize:            positiveInt(viper.GetInt("SEARCH_PAGE_SIZE"), 5),
			DefaultRadiusKm:     viper.GetFloat64("SEARCH_DEFAULT_RADIUS_KM"),
			ListDefaultRadiusKm: viper.GetFloat64("SEARCH_LIST_DEFAULT_RADIUS_KM"),
		},
		Reviews: ReviewConfig{
			PageSize:         positiveInt(viper.GetInt("REVIEW_PAGE_SIZE"), 5),
			CommentMaxLength: positiveInt(viper.GetInt("REVIEW_COMMENT_MAX_LENGTH"), 1000),
		},
		CategoryCacheTTL:    viper.GetDuration("CATEGORY_CACHE_TTL"),
		ReviewCountCacheTTL: viper.GetDuration("REVIEW_COUNT_CACHE_TTL"),
		SlowQueryThreshold:  viper.GetDuration("SLOW_QUERY_THRESHOLD"),
	}, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func positiveInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
