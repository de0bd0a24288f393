package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Cookie  CookieConfig
	Reviews ReviewsConfig
	Storage StorageConfig
}

type AppConfig struct {
	Env            string
	Port           string
	AllowedOrigins []string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// RedisConfig is optional; an empty Addr disables the catalog cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	Secret        string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type CookieConfig struct {
	Domain string
	Secure bool
}

type ReviewsConfig struct {
	RequireAuth bool
}

type StorageConfig struct {
	Provider        string // gcs, r2 or none
	GCSBucket       string
	CredentialsFile string
	R2Bucket        string
	R2AccessKey     string
	R2SecretKey     string
	R2Endpoint      string
	R2PublicDomain  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "storefront")
	v.SetDefault("MONGODB_TIMEOUT_SECONDS", 10)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 60)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_REFRESH_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_TTL_MINUTES", 15)
	v.SetDefault("REFRESH_TOKEN_TTL_DAYS", 14)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("REVIEWS_REQUIRE_AUTH", false)
	v.SetDefault("STORAGE_PROVIDER", "none")
	v.SetDefault("GCS_BUCKET", "")
	v.SetDefault("CREDENTIALS_FILE_LOCATION", "")
	v.SetDefault("R2_BUCKET", "")
	v.SetDefault("R2_ACCESS_KEY_ID", "")
	v.SetDefault("R2_SECRET_ACCESS_KEY", "")
	v.SetDefault("R2_ENDPOINT", "")
	v.SetDefault("R2_PUBLIC_DOMAIN", "")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:            v.GetString("APP_ENV"),
			Port:           v.GetString("PORT"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("DATABASE_NAME"),
			Timeout:  time.Duration(positive(v.GetInt("MONGODB_TIMEOUT_SECONDS"), 10)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      time.Duration(positive(v.GetInt("CACHE_TTL_SECONDS"), 60)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			RefreshSecret: v.GetString("JWT_REFRESH_SECRET"),
			AccessTTL:     time.Duration(positive(v.GetInt("ACCESS_TOKEN_TTL_MINUTES"), 15)) * time.Minute,
			RefreshTTL:    time.Duration(positive(v.GetInt("REFRESH_TOKEN_TTL_DAYS"), 14)) * 24 * time.Hour,
		},
		Cookie: CookieConfig{
			Domain: v.GetString("COOKIE_DOMAIN"),
			Secure: v.GetBool("COOKIE_SECURE"),
		},
		Reviews: ReviewsConfig{
			RequireAuth: v.GetBool("REVIEWS_REQUIRE_AUTH"),
		},
		Storage: StorageConfig{
			Provider:        strings.ToLower(v.GetString("STORAGE_PROVIDER")),
			GCSBucket:       v.GetString("GCS_BUCKET"),
			CredentialsFile: v.GetString("CREDENTIALS_FILE_LOCATION"),
			R2Bucket:        v.GetString("R2_BUCKET"),
			R2AccessKey:     v.GetString("R2_ACCESS_KEY_ID"),
			R2SecretKey:     v.GetString("R2_SECRET_ACCESS_KEY"),
			R2Endpoint:      v.GetString("R2_ENDPOINT"),
			R2PublicDomain:  v.GetString("R2_PUBLIC_DOMAIN"),
		},
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}
	if c.JWT.RefreshSecret == c.JWT.Secret {
		return fmt.Errorf("JWT_REFRESH_SECRET must differ from JWT_SECRET")
	}
	switch c.Storage.Provider {
	case "", "none", "gcs", "r2":
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.Storage.Provider)
	}
	return nil
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func positive(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
