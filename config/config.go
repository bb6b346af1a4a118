// Package config builds the process configuration once at start-up. Every
// collaborator receives the values it needs from the returned *Config.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	// ClientURL is the SPA origin; links in emails point at it.
	ClientURL string

	Mongo   MongoConfig
	JWT     JWTConfig
	Email   EmailConfig
	Images  ImageConfig
	Payment PaymentConfig

	InviteTTL time.Duration
	ResetTTL  time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type EmailConfig struct {
	Provider       string
	PostmarkToken  string
	SendGridAPIKey string
	From           string
	Timeout        time.Duration
}

type ImageConfig struct {
	Provider         string
	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string
	CloudinaryFolder string
	UploadDir        string
	PublicURL        string
	MaxWidth         uint
	MaxFiles         int
	MaxFileSizeBytes int64
}

type PaymentConfig struct {
	RazorpayKeyID     string
	RazorpayKeySecret string
	Currency          string
	RequireSignature  bool
}

func (c *Config) Production() bool { return c.Env == "production" }

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found. Proceeding with environment variables.")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:      v.GetString("PORT"),
		Env:       strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:  v.GetString("LOG_LEVEL"),
		ClientURL: strings.TrimRight(v.GetString("CLIENT_URL"), "/"),
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
			Timeout:  v.GetDuration("MONGO_TIMEOUT"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Expiry: v.GetDuration("JWT_EXPIRY"),
		},
		Email: EmailConfig{
			Provider:       strings.ToLower(v.GetString("EMAIL_PROVIDER")),
			PostmarkToken:  v.GetString("POSTMARK_SERVER_TOKEN"),
			SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
			From:           v.GetString("EMAIL_FROM"),
			Timeout:        v.GetDuration("EMAIL_TIMEOUT"),
		},
		Images: ImageConfig{
			Provider:         strings.ToLower(v.GetString("IMAGE_PROVIDER")),
			CloudinaryCloud:  v.GetString("CLOUDINARY_CLOUD_NAME"),
			CloudinaryKey:    v.GetString("CLOUDINARY_API_KEY"),
			CloudinarySecret: v.GetString("CLOUDINARY_API_SECRET"),
			CloudinaryFolder: v.GetString("CLOUDINARY_FOLDER"),
			UploadDir:        v.GetString("UPLOAD_DIR"),
			PublicURL:        strings.TrimRight(v.GetString("UPLOAD_PUBLIC_URL"), "/"),
			MaxWidth:         v.GetUint("IMAGE_MAX_WIDTH"),
			MaxFiles:         v.GetInt("IMAGE_MAX_FILES"),
			MaxFileSizeBytes: v.GetInt64("IMAGE_MAX_FILE_BYTES"),
		},
		Payment: PaymentConfig{
			RazorpayKeyID:     v.GetString("RAZORPAY_KEY_ID"),
			RazorpayKeySecret: v.GetString("RAZORPAY_KEY_SECRET"),
			Currency:          strings.ToUpper(v.GetString("PAYMENT_CURRENCY")),
			RequireSignature:  v.GetBool("PAYMENT_REQUIRE_SIGNATURE"),
		},
		InviteTTL: v.GetDuration("INVITE_TTL"),
		ResetTTL:  v.GetDuration("RESET_TOKEN_TTL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CLIENT_URL", "http://localhost:5173")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "furniture_store")
	v.SetDefault("MONGO_TIMEOUT", 10*time.Second)
	v.SetDefault("JWT_EXPIRY", 7*24*time.Hour)
	v.SetDefault("EMAIL_PROVIDER", "log")
	v.SetDefault("EMAIL_FROM", "no-reply@localhost")
	v.SetDefault("EMAIL_TIMEOUT", 8*time.Second)
	v.SetDefault("IMAGE_PROVIDER", "local")
	v.SetDefault("CLOUDINARY_FOLDER", "furniture")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_PUBLIC_URL", "/uploads")
	v.SetDefault("IMAGE_MAX_WIDTH", 1600)
	v.SetDefault("IMAGE_MAX_FILES", 10)
	v.SetDefault("IMAGE_MAX_FILE_BYTES", 10<<20)
	v.SetDefault("PAYMENT_CURRENCY", "INR")
	v.SetDefault("PAYMENT_REQUIRE_SIGNATURE", false)
	v.SetDefault("INVITE_TTL", 72*time.Hour)
	v.SetDefault("RESET_TOKEN_TTL", time.Hour)
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		if c.Production() {
			return errors.New("JWT_SECRET must be set in production")
		}
		logrus.Warn("JWT_SECRET not set. Using an insecure development secret.")
		c.JWT.Secret = "dev-secret-change-me"
	}
	if c.Email.Timeout <= 0 {
		c.Email.Timeout = 8 * time.Second
	}
	return nil
}

// ConfigureLogger applies the log level and formatter for the environment.
func (c *Config) ConfigureLogger(l *logrus.Logger) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		l.Warnf("invalid LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	if c.Production() {
		l.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
