package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	FirebaseProjectID string
	DatabaseURL       string
	CredentialsFile   string

	FieldReportsEmail string

	NotificationRetention   time.Duration
	CancelledMatchRetention time.Duration
	PastMatchRetention      time.Duration

	NotificationCleanupAt string
	MatchCleanupAt        string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	fieldReportsEmail := getEnv("FIELD_REPORTS_EMAIL", "")
	if fieldReportsEmail == "" {
		fieldReportsEmail = getEnv("MUNICIPALITY_REPORT_EMAIL", "luisfccfigueiredo@gmail.com")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		DatabaseURL:       databaseURL,
		CredentialsFile:   getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		FieldReportsEmail: fieldReportsEmail,

		NotificationRetention:   getDuration("NOTIFICATION_RETENTION", 30*24*time.Hour),
		CancelledMatchRetention: getDuration("CANCELLED_MATCH_RETENTION", 90*24*time.Hour),
		PastMatchRetention:      getDuration("PAST_MATCH_RETENTION", 365*24*time.Hour),

		NotificationCleanupAt: getEnv("NOTIFICATION_CLEANUP_AT", "02:00"),
		MatchCleanupAt:        getEnv("MATCH_CLEANUP_AT", "03:00"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ParseClock splits an "HH:MM" schedule value.
func ParseClock(value string) (hour, minute int, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid schedule %q, want HH:MM", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid schedule %q, want HH:MM", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid schedule %q, want HH:MM", value)
	}
	return hour, minute, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
