package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "https://test-db.firebaseio.com")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 30*24*time.Hour, cfg.NotificationRetention)
	assert.Equal(t, 90*24*time.Hour, cfg.CancelledMatchRetention)
	assert.Equal(t, 365*24*time.Hour, cfg.PastMatchRetention)
	assert.Equal(t, "02:00", cfg.NotificationCleanupAt)
	assert.Equal(t, "03:00", cfg.MatchCleanupAt)
	assert.NotEmpty(t, cfg.FieldReportsEmail)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "https://test-db.firebaseio.com")
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("NOTIFICATION_RETENTION", "168h")
	t.Setenv("FIELD_REPORTS_EMAIL", "reports@example.com")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.NotificationRetention)
	assert.Equal(t, "reports@example.com", cfg.FieldReportsEmail)
}

func TestLoad_LegacyReportEmailVariable(t *testing.T) {
	t.Setenv("DATABASE_URL", "https://test-db.firebaseio.com")
	t.Setenv("FIELD_REPORTS_EMAIL", "")
	t.Setenv("MUNICIPALITY_REPORT_EMAIL", "legacy@example.com")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "legacy@example.com", cfg.FieldReportsEmail)
}

func TestParseClock(t *testing.T) {
	testCases := []struct {
		value      string
		wantHour   int
		wantMinute int
		wantErr    bool
	}{
		{"02:00", 2, 0, false},
		{"23:59", 23, 59, false},
		{"0:5", 0, 5, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"noon", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			hour, minute, err := ParseClock(tc.value)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantHour, hour)
			assert.Equal(t, tc.wantMinute, minute)
		})
	}
}
