package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Audit    AuditConfig
	Schedule ScheduleConfig
	Export   ExportConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// StorageConfig locates archived uploads, the inbox and saved reports
type StorageConfig struct {
	Type     string
	BasePath string
}

// AuditConfig holds the reconciliation options
type AuditConfig struct {
	CutoffTime         string
	PresentMarkers     []string
	WeekdayLabels      map[string]string
	HeaderSkipRows     int
	DefaultLeaveReason string
	AppSourceName      string
	MaxWindowDays      int
}

// ScheduleConfig controls the inbox audit job
type ScheduleConfig struct {
	Enabled  bool
	Interval time.Duration
}

type ExportConfig struct {
	PDFFontPath string
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	config.App.AllowedOrigins = getEnvSlice("APP_ALLOWED_ORIGINS")
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{"http://localhost:3000"}
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hr_audit"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./data"),
	}

	defaults := audit.DefaultSettings()
	skipRows, err := strconv.Atoi(getEnv("AUDIT_HEADER_SKIP_ROWS", strconv.Itoa(defaults.HeaderSkipRows)))
	if err != nil {
		return nil, &audit.ConfigurationError{Option: "header_skip_rows", Reason: "AUDIT_HEADER_SKIP_ROWS is not a number"}
	}
	maxDays, err := strconv.Atoi(getEnv("AUDIT_MAX_WINDOW_DAYS", strconv.Itoa(defaults.MaxWindowDays)))
	if err != nil {
		return nil, &audit.ConfigurationError{Option: "max_window_days", Reason: "AUDIT_MAX_WINDOW_DAYS is not a number"}
	}
	labels, err := parseWeekdayLabels(getEnv("AUDIT_WEEKDAY_LABELS", ""))
	if err != nil {
		return nil, &audit.ConfigurationError{Option: "weekday_label_map", Reason: "AUDIT_WEEKDAY_LABELS: " + err.Error()}
	}
	markers := getEnvSlice("AUDIT_PRESENT_MARKERS")
	if len(markers) == 0 {
		markers = defaults.PresentMarkers
	}
	config.Audit = AuditConfig{
		CutoffTime:         getEnv("AUDIT_CUTOFF_TIME", defaults.CutoffTime),
		PresentMarkers:     markers,
		WeekdayLabels:      labels,
		HeaderSkipRows:     skipRows,
		DefaultLeaveReason: getEnv("AUDIT_DEFAULT_LEAVE_REASON", defaults.DefaultLeaveReason),
		AppSourceName:      getEnv("AUDIT_APP_SOURCE_NAME", defaults.AppSourceName),
		MaxWindowDays:      maxDays,
	}

	enabled, err := strconv.ParseBool(getEnv("SCHEDULE_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_ENABLED: %w", err)
	}
	interval, err := time.ParseDuration(getEnv("SCHEDULE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_INTERVAL: %w", err)
	}
	config.Schedule = ScheduleConfig{Enabled: enabled, Interval: interval}

	config.Export = ExportConfig{PDFFontPath: getEnv("EXPORT_PDF_FONT", "")}

	return config, nil
}

// Validate checks what the HTTP service needs beyond the audit options.
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Storage.Type != "local" {
		return fmt.Errorf("STORAGE_TYPE %q is not supported", c.Storage.Type)
	}
	if c.Schedule.Enabled && c.Schedule.Interval <= 0 {
		return fmt.Errorf("SCHEDULE_INTERVAL must be positive")
	}
	return nil
}

// AuditOptions validates the audit configuration. Failures are
// *audit.ConfigurationError.
func (c *Config) AuditOptions() (audit.Options, error) {
	return audit.NewOptions(audit.Settings{
		CutoffTime:         c.Audit.CutoffTime,
		PresentMarkers:     c.Audit.PresentMarkers,
		WeekdayLabels:      c.Audit.WeekdayLabels,
		HeaderSkipRows:     c.Audit.HeaderSkipRows,
		DefaultLeaveReason: c.Audit.DefaultLeaveReason,
		AppSourceName:      c.Audit.AppSourceName,
		MaxWindowDays:      c.Audit.MaxWindowDays,
	})
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// parseWeekdayLabels reads "label=Weekday" pairs separated by commas, e.g.
// "Fri=Friday,جمعة=Friday". An empty value keeps the built-in labels.
func parseWeekdayLabels(value string) (map[string]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	labels := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		label, day, ok := strings.Cut(pair, "=")
		label, day = strings.TrimSpace(label), strings.TrimSpace(day)
		if !ok || label == "" || day == "" {
			return nil, fmt.Errorf("%q is not label=Weekday", pair)
		}
		labels[label] = day
	}
	return labels, nil
}
