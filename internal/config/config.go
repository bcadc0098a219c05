package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Credential backends the portal can persist browser credentials in
const (
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	API        APIConfig
	Credential CredentialConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Cookie     CookieConfig
	Assistant  AssistantConfig
}

// APIConfig points at the backend REST API
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CredentialConfig selects where credentials are persisted
type CredentialConfig struct {
	Backend         string
	File            string
	CleanupSchedule string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL string
}

// CookieConfig holds the browser session cookie configuration
type CookieConfig struct {
	Name     string
	Secure   bool
	SameSite string
	Domain   string
	MaxAge   int
}

// AssistantConfig holds the description assistant configuration
type AssistantConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Enabled reports whether an assistant endpoint is configured
func (a AssistantConfig) Enabled() bool {
	return a.APIKey != "" || a.BaseURL != ""
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	credential := loadCredentialConfig(appMode)
	switch credential.Backend {
	case BackendMemory, BackendMySQL, BackendRedis:
	default:
		return nil, fmt.Errorf("invalid CREDENTIAL_BACKEND: '%s' (must be 'memory', 'mysql' or 'redis')", credential.Backend)
	}

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "3000"),
		API:        loadAPIConfig(),
		Credential: credential,
		Database:   loadDatabaseConfig(appMode),
		Redis:      loadRedisConfig(appMode),
		Cookie:     loadCookieConfig(appMode),
		Assistant:  loadAssistantConfig(),
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadAPIConfig loads the backend API config. A zero timeout means none.
func loadAPIConfig() APIConfig {
	timeoutSecs, _ := strconv.Atoi(getEnv("API_TIMEOUT_SECONDS", "0"))
	if timeoutSecs < 0 {
		timeoutSecs = 0
	}

	return APIConfig{
		BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "https://localhost:7280/api"), "/"),
		Timeout: time.Duration(timeoutSecs) * time.Second,
	}
}

// loadCredentialConfig picks memory storage in dev and MySQL in prod unless overridden
func loadCredentialConfig(mode string) CredentialConfig {
	defaultBackend := BackendMemory
	if mode == "prod" {
		defaultBackend = BackendMySQL
	}

	return CredentialConfig{
		Backend:         strings.ToLower(strings.TrimSpace(getEnv("CREDENTIAL_BACKEND", defaultBackend))),
		File:            getEnv("CREDENTIAL_FILE", DefaultCredentialFile()),
		CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "*/15 * * * *"),
	}
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "roadcare_portal"),
	}
}

// loadRedisConfig loads Redis config based on mode
func loadRedisConfig(mode string) RedisConfig {
	return RedisConfig{
		URL: getEnv(modePrefix(mode)+"REDIS_URL", "redis://localhost:6379/0"),
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv(modePrefix(mode)+"COOKIE_SECURE", "false"))
	maxAgeDays, _ := strconv.Atoi(getEnv("SESSION_COOKIE_DAYS", "30"))

	return CookieConfig{
		Name:     getEnv("SESSION_COOKIE_NAME", "roadcare_sid"),
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
		MaxAge:   maxAgeDays * 24 * 60 * 60,
	}
}

// loadAssistantConfig loads the OpenAI-compatible assistant config
func loadAssistantConfig() AssistantConfig {
	return AssistantConfig{
		BaseURL: getEnv("ASSISTANT_BASE_URL", ""),
		APIKey:  getEnv("ASSISTANT_API_KEY", ""),
		Model:   getEnv("ASSISTANT_MODEL", "gpt-4o-mini"),
	}
}

// DefaultCredentialFile returns where the CLI keeps its credential.
// Checks XDG_CONFIG_HOME first, then falls back to ~/.config.
func DefaultCredentialFile() string {
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "roadcare-credential.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "roadcare", "credential.json")
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://roadcare.gomel.by"
	}
	return origins
}
