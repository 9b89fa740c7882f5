package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultJWTAccessTTL    = "24h"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultHTTPAddr        = ":8080"
	defaultUploadDir       = "./uploads"
	defaultStaticURLBase   = "/static/uploads"
	defaultPageSize        = "20"
	defaultMaxPageSize     = "100"
	defaultMaxReasonLength = "500"
	defaultMaxListImages   = "20"
)

// Runtime holds everything the services need, threaded through
// constructors instead of being read from env at call sites.
type Runtime struct {
	AppEnv        string
	HTTPAddr      string
	DatabaseURL   string
	JWTSecret     string
	JWTAccessTTL  time.Duration
	UploadDir     string
	StaticURLBase string

	// Pagination and workflow limits shared by the three workflows.
	PageSize        int
	MaxPageSize     int
	MaxReasonLength int
	MaxListImages   int
}

func Load() (*Runtime, error) {
	cfg := &Runtime{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = getEnv("HTTP_ADDR", defaultHTTPAddr)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	if cfg.AppEnv == "prod" && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in prod")
	}

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.UploadDir = getEnv("UPLOAD_DIR", defaultUploadDir)
	cfg.StaticURLBase = getEnv("STATIC_URL_BASE", defaultStaticURLBase)

	cfg.PageSize, err = parseIntEnv("PAGE_SIZE", defaultPageSize)
	if err != nil {
		return nil, err
	}
	cfg.MaxPageSize, err = parseIntEnv("MAX_PAGE_SIZE", defaultMaxPageSize)
	if err != nil {
		return nil, err
	}
	cfg.MaxReasonLength, err = parseIntEnv("MAX_REASON_LENGTH", defaultMaxReasonLength)
	if err != nil {
		return nil, err
	}
	cfg.MaxListImages, err = parseIntEnv("MAX_LISTING_IMAGES", defaultMaxListImages)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	return d, nil
}

func parseIntEnv(key, fallback string) (int, error) {
	raw := getEnv(key, fallback)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s=%q", key, raw)
	}
	return n, nil
}
