package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("LOYALTY_THRESHOLD", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.False(t, cfg.DatabaseConfigured())
	assert.False(t, cfg.TwilioConfigured())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.LoyaltyThreshold)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL())
	assert.Equal(t, "0 9 * * *", cfg.ReminderSchedule)
	assert.Equal(t, "Asia/Jakarta", cfg.Location().String())
	assert.Equal(t, "62", cfg.PhoneCountryCode)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{DBDriver: "sqlite", JWTExpiryHours: 1, LoyaltyThreshold: 3, TaskQueueSize: 10, Timezone: "UTC"}
	}
	base := valid()
	require.NoError(t, base.Validate())

	tests := map[string]func(*Config){
		"driver":    func(c *Config) { c.DBDriver = "mysql" },
		"expiry":    func(c *Config) { c.JWTExpiryHours = 0 },
		"threshold": func(c *Config) { c.LoyaltyThreshold = 0 },
		"queue":     func(c *Config) { c.TaskQueueSize = -1 },
		"timezone":  func(c *Config) { c.Timezone = "Mars/Olympus" },
		"country":   func(c *Config) { c.PhoneCountryCode = "0062" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConnectDBUnconfigured(t *testing.T) {
	db, err := ConnectDB(&Config{})
	assert.NoError(t, err)
	assert.Nil(t, db)
	assert.NoError(t, CloseDB(nil))
}

func TestConnectDBSQLite(t *testing.T) {
	db, err := ConnectDB(&Config{DBDriver: "sqlite", DBURL: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	assert.NoError(t, CloseDB(db))
}
