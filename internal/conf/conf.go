package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration
type Config struct {
	// API is the message-source endpoint configuration
	API APIConfig

	// Fetch controls pagination
	Fetch FetchConfig

	// Monitor controls the live polling loop
	Monitor MonitorConfig

	// History is the monitor snapshot store configuration
	History HistoryConfig

	// Server is the dashboard API server configuration
	Server ServerConfig

	// Debug mode
	Debug bool
}

// APIConfig contains the conversation API endpoint and credential
type APIConfig struct {
	URL   string
	Token string // bearer token, treated as an opaque credential
}

// FetchConfig contains pagination settings
type FetchConfig struct {
	Mode        string // single, recent or all
	MaxPages    int
	TargetHours int
	TodayOnly   bool
}

// MonitorConfig contains live monitor settings
type MonitorConfig struct {
	Interval time.Duration
}

// HistoryConfig contains the snapshot database location
type HistoryConfig struct {
	DBPath string
}

// ServerConfig contains the dashboard API server settings
type ServerConfig struct {
	Port int
}

// LoadFromEnv loads configuration from environment variables.
// A malformed value is an error, not a silent fallback to the default,
// so a typo is fatal at startup instead of surprising the caller later.
func LoadFromEnv() (*Config, error) {
	maxPages := 5
	if val := os.Getenv("WEN_MAX_PAGES"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return nil, &ConfigError{Field: "WEN_MAX_PAGES", Message: "not a number: " + val}
		}
		maxPages = parsed
	}

	targetHours := 24
	if val := os.Getenv("WEN_TARGET_HOURS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return nil, &ConfigError{Field: "WEN_TARGET_HOURS", Message: "not a number: " + val}
		}
		targetHours = parsed
	}

	fetchMode := os.Getenv("WEN_FETCH_MODE")
	if fetchMode == "" {
		fetchMode = "recent"
	}

	interval := 5 * time.Minute
	if val := os.Getenv("WEN_POLL_INTERVAL"); val != "" {
		parsed, err := ParseInterval(val)
		if err != nil {
			return nil, err
		}
		interval = parsed
	}

	dbPath := os.Getenv("WEN_HISTORY_DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".wentracker", "history.db")
	}

	port := 8787
	if val := os.Getenv("WEN_API_PORT"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return nil, &ConfigError{Field: "WEN_API_PORT", Message: "not a number: " + val}
		}
		port = parsed
	}

	return &Config{
		API: APIConfig{
			URL:   os.Getenv("WEN_API_URL"),
			Token: os.Getenv("WEN_API_TOKEN"),
		},
		Fetch: FetchConfig{
			Mode:        fetchMode,
			MaxPages:    maxPages,
			TargetHours: targetHours,
			TodayOnly:   os.Getenv("WEN_TODAY_ONLY") == "true",
		},
		Monitor: MonitorConfig{
			Interval: interval,
		},
		History: HistoryConfig{
			DBPath: dbPath,
		},
		Server: ServerConfig{
			Port: port,
		},
		Debug: os.Getenv("DEBUG") == "true",
	}, nil
}

// ParseInterval parses an interval string like "30s", "5m" or "2h".
// A bare number is read as minutes, kept for backward compatibility.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, &ConfigError{Field: "interval", Message: "empty"}
	}

	unit := time.Minute
	digits := s
	switch {
	case strings.HasSuffix(s, "s"):
		unit = time.Second
		digits = s[:len(s)-1]
	case strings.HasSuffix(s, "m"):
		unit = time.Minute
		digits = s[:len(s)-1]
	case strings.HasSuffix(s, "h"):
		unit = time.Hour
		digits = s[:len(s)-1]
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, &ConfigError{Field: "interval", Message: "want formats like 30s, 5m or 2h, got " + s}
	}
	return time.Duration(n) * unit, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.URL == "" || c.API.Token == "" {
		return &ConfigError{Field: "WEN_API_URL/WEN_API_TOKEN", Message: "required"}
	}
	switch c.Fetch.Mode {
	case "single", "recent", "all":
	default:
		return &ConfigError{Field: "WEN_FETCH_MODE", Message: "must be single, recent or all"}
	}
	if c.Fetch.MaxPages <= 0 {
		return &ConfigError{Field: "WEN_MAX_PAGES", Message: "must be positive"}
	}
	if c.Fetch.TargetHours < 0 {
		return &ConfigError{Field: "WEN_TARGET_HOURS", Message: "must not be negative"}
	}
	if c.Monitor.Interval <= 0 {
		return &ConfigError{Field: "WEN_POLL_INTERVAL", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
