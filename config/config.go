package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Credentials never have defaults inside code and must be provided via .env or the environment.
type AppConfig struct {
	AppPort        string
	AllowedOrigins []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Persisted state locations
	DataFile   string
	UploadsDir string
	PublicDir  string
	// Intake limits
	RateLimitPerMinute int
	MaxImageMB         int
	// SMTP relay for operator notifications
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFromName string
	SMTPTLS      bool
	NotifyTo     string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// fileConfig mirrors the flat keys accepted in config/config.json.
type fileConfig struct {
	AppPort            string   `json:"AppPort"`
	AllowedOrigins     []string `json:"AllowedOrigins"`
	GinMode            string   `json:"GinMode"`
	GinPath            string   `json:"GinPath"`
	DataFile           string   `json:"DataFile"`
	UploadsDir         string   `json:"UploadsDir"`
	PublicDir          string   `json:"PublicDir"`
	RateLimitPerMinute int      `json:"RateLimitPerMinute"`
	MaxImageMB         int      `json:"MaxImageMB"`
	SMTPHost           string   `json:"SMTPHost"`
	SMTPPort           int      `json:"SMTPPort"`
	SMTPFromName       string   `json:"SMTPFromName"`
	SMTPTLS            *bool    `json:"SMTPTLS"`
	NotifyTo           string   `json:"NotifyTo"`
	LogLevel           string   `json:"LogLevel"`
	LogPath            string   `json:"LogPath"`
	LogMaxSizeMB       int      `json:"LogMaxSizeMB"`
	LogMaxBackups      int      `json:"LogMaxBackups"`
	LogMaxAgeDays      int      `json:"LogMaxAgeDays"`
	LogCompress        bool     `json:"LogCompress"`
}

// Load builds the application configuration. It should be called once during boot
// and the result passed to the components that need it.
//
// Precedence: config/config.json -> defaults -> .env -> environment variables.
func Load() AppConfig {
	cfg := AppConfig{SMTPTLS: true}
	if err := loadJSONConfig(filepath.Join("config", "config.json"), &cfg); err != nil {
		log.Printf("ignoring invalid config/config.json: %v", err)
	}
	applyDefaults(&cfg)

	// .env never overrides variables already present in the process environment.
	_ = godotenv.Load()
	applyEnvOverrides(&cfg)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads the JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var fc fileConfig
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return err
	}

	out.AppPort = fc.AppPort
	out.AllowedOrigins = fc.AllowedOrigins
	out.GinMode = fc.GinMode
	out.GinPath = fc.GinPath
	out.DataFile = fc.DataFile
	out.UploadsDir = fc.UploadsDir
	out.PublicDir = fc.PublicDir
	out.RateLimitPerMinute = fc.RateLimitPerMinute
	out.MaxImageMB = fc.MaxImageMB
	out.SMTPHost = fc.SMTPHost
	out.SMTPPort = fc.SMTPPort
	out.SMTPFromName = fc.SMTPFromName
	if fc.SMTPTLS != nil {
		out.SMTPTLS = *fc.SMTPTLS
	}
	out.NotifyTo = fc.NotifyTo
	out.LogLevel = fc.LogLevel
	out.LogPath = fc.LogPath
	out.LogMaxSizeMB = fc.LogMaxSizeMB
	out.LogMaxBackups = fc.LogMaxBackups
	out.LogMaxAgeDays = fc.LogMaxAgeDays
	out.LogCompress = fc.LogCompress
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "3000"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/gin.log"
	}
	if c.DataFile == "" {
		c.DataFile = filepath.Join("data", "submissions.json")
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "uploads"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 30
	}
	if c.MaxImageMB == 0 {
		c.MaxImageMB = 10
	}
	if c.SMTPHost == "" {
		c.SMTPHost = "smtp.gmail.com"
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
	if c.SMTPFromName == "" {
		c.SMTPFromName = "Product Requests"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", ""); v != "" { // compatibility
		c.AppPort = v
	}
	if v := getEnv("PORT", ""); v != "" {
		c.AppPort = v
	}
	c.AllowedOrigins = readListEnv("ALLOWED_ORIGINS", c.AllowedOrigins)
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("DATA_FILE", ""); v != "" {
		c.DataFile = v
	}
	if v := getEnv("UPLOADS_DIR", ""); v != "" {
		c.UploadsDir = v
	}
	if v := getEnv("PUBLIC_DIR", ""); v != "" {
		c.PublicDir = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("MAX_IMAGE_MB", ""); v != "" {
		c.MaxImageMB = mustParseInt(v)
	}
	if v := getEnv("SMTP_HOST", ""); v != "" {
		c.SMTPHost = v
	}
	if v := getEnv("SMTP_PORT", ""); v != "" {
		c.SMTPPort = mustParseInt(v)
	}
	if v := getEnv("SMTP_FROM_NAME", ""); v != "" {
		c.SMTPFromName = v
	}
	if v := getEnv("SMTP_TLS", ""); v != "" {
		c.SMTPTLS = v == "true"
	}
	c.SMTPUsername = getEnv("GMAIL_USER", "")
	c.SMTPPassword = getEnv("GMAIL_PASS", "")
	if v := getEnv("NOTIFY_TO", ""); v != "" {
		c.NotifyTo = v
	}
	if c.NotifyTo == "" {
		c.NotifyTo = c.SMTPUsername
	}
	// Logging env overrides
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}
