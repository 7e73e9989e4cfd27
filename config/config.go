package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds every runtime setting the service reads from the environment.
type Config struct {
	Port      string
	DBDriver  string
	DBDSN     string
	JWTSecret string

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	AdminEmail string

	BotToken    string
	AdminChatID int64

	RestaurantLat   float64
	RestaurantLon   float64
	BookingRadiusKM float64

	UploadDir string
	BaseURL   string
}

// Load reads the environment into a Config. Every value has a development
// default except credentials.
func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBDriver:        getEnv("DB_DRIVER", "postgres"),
		DBDSN:           getEnv("DB_DSN", "host=localhost user=postgres dbname=online_restaurant port=5432 sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", "TestSecretKeyAUTH1945"),
		SMTPHost:        getEnv("MAIL_SERVER", "smtp.gmail.com"),
		SMTPPort:        getEnvInt("MAIL_PORT", 587),
		SMTPUser:        os.Getenv("MAIL_USERNAME"),
		SMTPPass:        os.Getenv("MAIL_PASSWORD"),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		BotToken:        os.Getenv("BOT_TOKEN"),
		AdminChatID:     getEnvInt64("ADMIN_CHAT_ID", 0),
		RestaurantLat:   getEnvFloat("RESTAURANT_LAT", 50.4501),
		RestaurantLon:   getEnvFloat("RESTAURANT_LON", 30.5234),
		BookingRadiusKM: getEnvFloat("BOOKING_RADIUS_KM", 20),
		UploadDir:       getEnv("UPLOAD_DIR", "public/uploads/menu"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
	}
	return cfg
}

// InitDB opens the configured database. Postgres is the production store;
// sqlite is kept for local runs and tests.
func InitDB(cfg *Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DBDSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
