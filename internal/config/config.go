package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	AppEnv      string
	LogLevel    string
	MongoURI    string
	MongoDB     string
	FrontendURL string

	JWTSecret      string
	JWTExpireHours int
	AdminAPIKey    string

	OTPTTLMinutes      int
	OTPServiceURL      string
	OTPRequestsPerHour int
	ExposeOTPCode      bool

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	PhotoStore          string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	MinioEndpoint       string
	MinioAccessKey      string
	MinioSecretKey      string
	MinioBucket         string
	MinioUseSSL         bool

	AMQPURI         string
	AMQPEventsQueue string

	RedisAddress  string
	RedisPassword string

	ScorerTimeoutSeconds int
	ScorerConcurrency    int
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	appEnv := getEnv("APP_ENV", "development")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      appEnv,
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "civic_connect"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		JWTSecret:      getEnv("JWT_SECRET", "dev-secret"),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 168),
		AdminAPIKey:    getEnv("ADMIN_API_KEY", ""),

		OTPTTLMinutes:      getEnvInt("OTP_TTL_MINUTES", 10),
		OTPServiceURL:      getEnv("OTP_SERVICE_URL", ""),
		OTPRequestsPerHour: getEnvInt("OTP_REQUESTS_PER_HOUR", 5),
		ExposeOTPCode:      getEnvBool("EXPOSE_OTP_CODE", appEnv != "production"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),

		PhotoStore:          getEnv("PHOTO_STORE", "cloudinary"),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_UPLOAD_FOLDER", "civic-connect"),
		MinioEndpoint:       getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:      getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:      getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:         getEnv("MINIO_BUCKET", "report-photos"),
		MinioUseSSL:         getEnvBool("MINIO_USE_SSL", false),

		AMQPURI:         getEnv("AMQP_URI", ""),
		AMQPEventsQueue: getEnv("AMQP_EVENTS_QUEUE", "report.events"),

		RedisAddress:  getEnv("REDIS_ADDRESS", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		ScorerTimeoutSeconds: getEnvInt("SCORER_TIMEOUT_SECONDS", 5),
		ScorerConcurrency:    getEnvInt("SCORER_CONCURRENCY", 4),
	}
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
