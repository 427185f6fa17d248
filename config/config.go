package config

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var countryCodePattern = regexp.MustCompile(`^(\+?[1-9]\d{0,2})?$`)

// Config is built once at startup and handed to the components that need it.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Timezone string `envconfig:"TIMEZONE" default:"Asia/Jakarta"`

	DBDriver          string        `envconfig:"DB_DRIVER" default:"postgres"`
	DBURL             string        `envconfig:"DB_URL"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`

	JWTSecret      string   `envconfig:"JWT_SECRET"`
	JWTExpiryHours int      `envconfig:"JWT_EXPIRY_HOURS" default:"24"`
	CookieSecure   bool     `envconfig:"COOKIE_SECURE" default:"true"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	AdminUsername string `envconfig:"ADMIN_USERNAME"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
	AdminName     string `envconfig:"ADMIN_NAME" default:"Administrator"`

	LoginRatePerSecond float64 `envconfig:"LOGIN_RATE_PER_SECOND" default:"1"`
	LoginBurst         int     `envconfig:"LOGIN_BURST" default:"5"`

	PhoneCountryCode string `envconfig:"PHONE_COUNTRY_CODE" default:"62"`

	LoyaltyThreshold int    `envconfig:"LOYALTY_THRESHOLD" default:"3"`
	TaskQueueSize    int    `envconfig:"TASK_QUEUE_SIZE" default:"100"`
	ReminderSchedule string `envconfig:"REMINDER_SCHEDULE" default:"0 9 * * *"`

	TwilioAccountSID     string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber    string `envconfig:"TWILIO_PHONE_NUMBER"`
	TwilioWhatsAppNumber string `envconfig:"TWILIO_WHATSAPP_NUMBER"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid config: DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.JWTExpiryHours <= 0 {
		return fmt.Errorf("invalid config: JWT_EXPIRY_HOURS must be positive")
	}
	if c.LoyaltyThreshold <= 0 {
		return fmt.Errorf("invalid config: LOYALTY_THRESHOLD must be positive")
	}
	if c.TaskQueueSize <= 0 {
		return fmt.Errorf("invalid config: TASK_QUEUE_SIZE must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid config: TIMEZONE: %w", err)
	}
	if !countryCodePattern.MatchString(c.PhoneCountryCode) {
		return fmt.Errorf("invalid config: PHONE_COUNTRY_CODE must be 1-3 digits, got %q", c.PhoneCountryCode)
	}
	return nil
}

// Location is the salon's local time zone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

// DatabaseConfigured reports whether a backing store was configured at all.
func (c *Config) DatabaseConfigured() bool {
	return c.DBURL != ""
}

func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}
