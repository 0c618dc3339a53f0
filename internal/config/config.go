package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMySQL = "mysql"
	StoreMongo = "mongo"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string `envconfig:"SERVER_PORT" default:"8080"`
	StoreDriver string `envconfig:"STORE_DRIVER" default:"mysql"`
	ResetDB     bool   `envconfig:"RESET_DB" default:"false"`

	MySQLDSN      string `envconfig:"MYSQL_DSN" default:"user:password@tcp(localhost:3306)/jobportal?charset=utf8mb4&parseTime=True&loc=Local"`
	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"jobportal"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`
	RedisPass string `envconfig:"REDIS_PASSWORD"`

	JWTSecret    string `envconfig:"SECRET_KEY" required:"true"`
	CookieSecure bool   `envconfig:"COOKIE_SECURE" default:"true"`
	BcryptCost   int    `envconfig:"BCRYPT_COST" default:"12"`

	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"5242880"`
	S3Bucket       string `envconfig:"S3_BUCKET" default:"jobportal"`
	S3Region       string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint     string `envconfig:"S3_ENDPOINT"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey    string `envconfig:"S3_SECRET_KEY"`
	S3UsePathStyle bool   `envconfig:"S3_USE_PATH_STYLE" default:"true"`
	MediaPublicURL string `envconfig:"MEDIA_PUBLIC_URL" default:"http://localhost:9000/jobportal"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	SwaggerHost string   `envconfig:"SWAGGER_HOST"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string   `envconfig:"LOG_FORMAT" default:"json"`
}

// Load builds Config from an optional .env file and the process environment.
func Load() (*Config, error) {
	// .env is a development convenience; a missing file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("SECRET_KEY must not be empty")
	}
	switch c.StoreDriver {
	case StoreMySQL, StoreMongo:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.BcryptCost < bcrypt.DefaultCost {
		c.BcryptCost = bcrypt.DefaultCost
	}
	if c.BcryptCost > bcrypt.MaxCost {
		c.BcryptCost = bcrypt.MaxCost
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}
