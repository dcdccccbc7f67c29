package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

// UploadConfig bounds what the upload pipeline accepts and how it
// re-encodes. An incoming image is downscaled only when it clears both
// resize thresholds at once.
type UploadConfig struct {
	MaxBytes        int64
	ResizeMinPixels int
	ResizeMinBytes  int64
	ResizeMaxDim    int
	ThumbCropSize   int
	FullQuality     float32
	ThumbQuality    float32
}

type SecurityConfig struct {
	SessionSecret string
	SignedURLTTL  time.Duration
}

type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

type ReconcileConfig struct {
	Enabled bool
	Spec    string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Upload           UploadConfig
	Security         SecurityConfig
	RateLimit        RateLimitConfig
	Reconcile        ReconcileConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("FOTOMURO")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "30s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.bucket", "fotomuro-gallery")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("upload.maxbytes", int64(50)<<20)
	v.SetDefault("upload.resizeminpixels", 8_000_000)
	v.SetDefault("upload.resizeminbytes", int64(10)<<20)
	v.SetDefault("upload.resizemaxdim", 1980)
	v.SetDefault("upload.thumbcropsize", 800)
	v.SetDefault("upload.fullquality", 95)
	v.SetDefault("upload.thumbquality", 80)

	v.SetDefault("security.signedurlttl", "1h")

	v.SetDefault("ratelimit.window", "1m")
	v.SetDefault("ratelimit.maxrequests", 5)

	v.SetDefault("reconcile.enabled", true)
	v.SetDefault("reconcile.spec", "0 0 */1 * * *")
}
