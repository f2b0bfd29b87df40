package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"primariaPortal/internal/logger"
)

type DB struct {
	URL        string
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
}

type Auth struct {
	JWTSecretKey        string
	MinSecretLength     int
	RequireSecret       bool
	AccessTokenDuration time.Duration
}

type Uploads struct {
	Dir           string
	MaxUploadSize int64
	MaxPostImages int
	Backend       string
}

type Config struct {
	AppEnv         string
	ServerPort     int
	LogLevel       string
	DB             DB
	MinIO          MinIO
	Auth           Auth
	Uploads        Uploads
	AllowedOrigins []string
}

const (
	StorageLocal = "local"
	StorageMinIO = "minio"
)

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 10 * 1024 * 1024
	}
	return size
}

// ParseOrigins splits a comma separated origin list; entries are trimmed and
// lose their trailing slashes so they compare exactly against the Origin header.
func ParseOrigins(value string) []string {
	var origins []string
	for _, part := range strings.Split(value, ",") {
		origin := NormalizeOrigin(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func NormalizeOrigin(origin string) string {
	return strings.TrimRight(strings.TrimSpace(origin), "/")
}

func LoadDB() DB {
	return DB{
		URL:        getEnv("DATABASE_URL", ""),
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "primaria"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "uploads"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
	}
}

func LoadAuth(appEnv string) Auth {
	return Auth{
		JWTSecretKey:        getEnv("JWT_SECRET_KEY", ""),
		MinSecretLength:     getEnvAsInt("JWT_MIN_SECRET_LENGTH", 32),
		RequireSecret:       getEnvBool("JWT_REQUIRE_SECRET", false) || appEnv == "production",
		AccessTokenDuration: parseDuration(getEnv("ACCESS_TOKEN_DURATION", "8h"), 8*time.Hour),
	}
}

func LoadUploads() Uploads {
	return Uploads{
		Dir:           getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadSize: parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "10485760")),
		MaxPostImages: getEnvAsInt("MAX_POST_IMAGES", 5),
		Backend:       strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logger.Warning("fișierul .env nu a fost găsit, se folosesc variabilele de mediu")
	}

	appEnv := getEnv("APP_ENV", "development")

	return &Config{
		AppEnv:         appEnv,
		ServerPort:     getEnvAsInt("SERVER_PORT", 8080),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DB:             LoadDB(),
		MinIO:          LoadMinIO(),
		Auth:           LoadAuth(appEnv),
		Uploads:        LoadUploads(),
		AllowedOrigins: ParseOrigins(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}
}

// DSN returns DATABASE_URL when set, otherwise a keyword/value string built from the parts.
func (d DB) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.DbHOST, d.DbPORT, d.DbUSER, d.DbPASSWORD, d.DbNAME, d.DbSSLMODE,
	)
}

// String masks credentials so the config can be logged at startup.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{env: %s, port: %d, db: %s@%s/%s, storage: %s, origins: %v, jwt: ***}",
		c.AppEnv, c.ServerPort, c.DB.DbUSER, c.DB.DbHOST, c.DB.DbNAME, c.Uploads.Backend, c.AllowedOrigins,
	)
}
