package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - Everything the server reads from the environment
type Config struct {
	Port              string
	BaseURL           string
	DBDriver          string // mysql | sqlite
	DBDSN             string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	JWTSecret         string
	JWTTTL            time.Duration
	AllowRegistration bool
	CORSOrigins       []string
	GASURL            string
	SheetsTimeout     time.Duration
	BackupAt          string // HH:MM, empty disables the nightly push
	Location          *time.Location
	GeminiAPIKey      string
	GeminiModel       string
	RankingLimit      int
	LogLevel          string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	cfg := &Config{
		Port:              stringFromEnv("PORT", "8080"),
		BaseURL:           stringFromEnv("BASE_URL", "http://localhost:8080"),
		DBDriver:          strings.ToLower(stringFromEnv("DB_DRIVER", "mysql")),
		DBDSN:             os.Getenv("DB_DSN"),
		DBMaxOpenConns:    intFromEnv("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    intFromEnv("DB_MAX_IDLE_CONNS", 10),
		JWTSecret:         stringFromEnv("JWT_SECRET", "super_secret_key_for_pos_system_2025"),
		JWTTTL:            time.Duration(intFromEnv("JWT_TTL_HOURS", 24)) * time.Hour,
		AllowRegistration: os.Getenv("ALLOW_REGISTRATION") == "true",
		CORSOrigins:       listFromEnv("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		GASURL:            os.Getenv("GAS_URL"),
		SheetsTimeout:     time.Duration(intFromEnv("SHEETS_TIMEOUT_SECONDS", 15)) * time.Second,
		BackupAt:          os.Getenv("BACKUP_AT"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       stringFromEnv("GEMINI_MODEL", "gemini-2.0-flash-001"),
		RankingLimit:      intFromEnv("RANKING_LIMIT", 5),
		LogLevel:          stringFromEnv("LOG_LEVEL", "info"),
	}

	tz := stringFromEnv("TIMEZONE", "Asia/Tokyo")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Warning: unknown TIMEZONE %q, falling back to UTC", tz)
		loc = time.UTC
	}
	cfg.Location = loc

	SetLogLevel(cfg.LogLevel)
	return cfg
}

// Now is the wall clock in the shop's timezone. Business dates derive from it.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}

func stringFromEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func listFromEnv(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
