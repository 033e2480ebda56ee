package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultProfilesSubDir   = "profiles"
	DefaultThumbnailsSubDir = "thumbnails"
	DefaultBugReportsSubDir = "import_bugs"
	DefaultCountryName      = "India"
)

const (
	defaultSearchPageSize          = 20
	defaultSearchMaxPageSize       = 100
	defaultSearchRecorderWorkers   = 2
	defaultSearchRecorderQueueSize = 256
)

type Config struct {
	// database path
	DatabasePath string `validate:"required"`

	// media storage configuration
	MediaStoragePath string `validate:"required"` // blob store root
	ProfilesPath     string // full-calculated path for profile images
	ThumbnailsPath   string // full-calculated path for thumbnails
	BugReportsPath   string // full-calculated path for import bug reports

	Port      string `validate:"required,numeric"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`

	CORSAllowedOrigins []string

	// admin auth; both empty disables admin routes
	JWTSecret       string
	AdminAPIKeyHash string

	// import behaviour
	CreateMissingSurnames bool
	DefaultCountry        string `validate:"required"`

	// search settings
	SearchPageSize          int `validate:"gte=1"`
	SearchMaxPageSize       int `validate:"gtefield=SearchPageSize"`
	SearchRecorderWorkers   int `validate:"gte=1,lte=64"`
	SearchRecorderQueueSize int `validate:"gte=1"`
}

var validate = validator.New()

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvBool(envVar string) bool {
	valStr := strings.TrimSpace(os.Getenv(envVar))
	if valStr == "" {
		return false
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s'. Using false. Error: %v", envVar, valStr, err)
		return false
	}
	return val
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "community.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	profileSubDir := getEnvOrDefault("PROFILES_SUBDIR", DefaultProfilesSubDir)
	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	bugSubDir := getEnvOrDefault("BUG_REPORTS_SUBDIR", DefaultBugReportsSubDir)

	cfg := Config{
		DatabasePath:            dbPath,
		MediaStoragePath:        absMediaStorage,
		ProfilesPath:            filepath.Join(absMediaStorage, profileSubDir),
		ThumbnailsPath:          filepath.Join(absMediaStorage, thumbSubDir),
		BugReportsPath:          filepath.Join(absMediaStorage, bugSubDir),
		Port:                    getEnvOrDefault("PORT", "8080"),
		LogLevel:                strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:               strings.ToLower(getEnvOrDefault("LOG_FORMAT", "console")),
		CORSAllowedOrigins:      splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		AdminAPIKeyHash:         os.Getenv("ADMIN_API_KEY_HASH"),
		CreateMissingSurnames:   getEnvBool("IMPORT_CREATE_SURNAMES"),
		DefaultCountry:          getEnvOrDefault("DEFAULT_COUNTRY", DefaultCountryName),
		SearchPageSize:          getEnvIntOrDefault("SEARCH_PAGE_SIZE", defaultSearchPageSize),
		SearchMaxPageSize:       getEnvIntOrDefault("SEARCH_MAX_PAGE_SIZE", defaultSearchMaxPageSize),
		SearchRecorderWorkers:   getEnvIntOrDefault("SEARCH_RECORDER_WORKERS", defaultSearchRecorderWorkers),
		SearchRecorderQueueSize: getEnvIntOrDefault("SEARCH_RECORDER_QUEUE_SIZE", defaultSearchRecorderQueueSize),
	}

	if err := validate.Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
