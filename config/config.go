package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds configuration values for the service. Sensitive data has
// no in-code defaults and must come from the config file or the environment.
type AppConfig struct {
	AppPort     string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Discussion boards posts may be filed under. The analysis board hosts
	// the analysis-contest threads.
	Boards         []string
	AllowedOrigins []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Redis for caching
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load reads configuration once during boot.
// Precedence: config/config.json -> defaults -> environment overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func applyDefaults(out *AppConfig) {
	if out.AppPort == "" {
		out.AppPort = "8080"
	}
	if out.DBHost == "" {
		out.DBHost = "127.0.0.1"
	}
	if out.DBPort == "" {
		out.DBPort = "3306"
	}
	if out.DBUser == "" {
		out.DBUser = "root"
	}
	if out.DBName == "" {
		out.DBName = "polemika"
	}
	if len(out.Boards) == 0 {
		out.Boards = []string{"general", "analysis", "debate", "news"}
	}
	if len(out.AllowedOrigins) == 0 {
		out.AllowedOrigins = []string{"*"}
	}
	if out.GinMode == "" {
		out.GinMode = "release"
	}
	if out.RedisHost == "" {
		out.RedisHost = "127.0.0.1"
	}
	if out.RedisPort == 0 {
		out.RedisPort = 6379
	}
	if out.LogLevel == "" {
		out.LogLevel = "info"
	}
	if out.LogPath == "" {
		out.LogPath = "logs/polemika.log"
	}
	if out.GinPath == "" {
		out.GinPath = "logs/access.log"
	}
}

func applyEnvOverrides(out *AppConfig) {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString(&out.AppPort, "APP_PORT")
	setString(&out.DatabaseURI, "DATABASE_URI")
	setString(&out.DBHost, "DB_HOST")
	setString(&out.DBPort, "DB_PORT")
	setString(&out.DBUser, "DB_USER")
	setString(&out.DBPassword, "DB_PASSWORD")
	setString(&out.DBName, "DB_NAME")
	setString(&out.GinMode, "GIN_MODE")
	setString(&out.RedisHost, "REDIS_HOST")
	setInt(&out.RedisPort, "REDIS_PORT")
	setInt(&out.RedisDB, "REDIS_DB")
	setString(&out.RedisPassword, "REDIS_PASSWORD")
	setString(&out.LogLevel, "LOG_LEVEL")
	setString(&out.LogPath, "LOG_PATH")
	if v := strings.TrimSpace(os.Getenv("BOARDS")); v != "" {
		var boards []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				boards = append(boards, b)
			}
		}
		if len(boards) > 0 {
			out.Boards = boards
		}
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			out.AllowedOrigins = origins
		}
	}
}

// loadJSONConfig reads config/config.json. Both grouped keys (db, redis,
// log, ...) and flat keys are accepted.
func loadJSONConfig(path string, out *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "Port")
		out.GinMode = getString(app, "GinMode")
		if list := getStringSlice(app, "Boards"); len(list) > 0 {
			out.Boards = list
		}
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
	}

	if db, ok := raw["db"].(map[string]any); ok {
		out.DatabaseURI = getString(db, "URI")
		out.DBHost = getString(db, "Host")
		out.DBPort = getString(db, "Port")
		out.DBUser = getString(db, "User")
		out.DBPassword = getString(db, "Password")
		out.DBName = getString(db, "Name")
	}

	if rd, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rd, "Host")
		if v := getInt(rd, "Port"); v != 0 {
			out.RedisPort = v
		}
		if v := getInt(rd, "DB"); v != 0 {
			out.RedisDB = v
		}
		out.RedisPassword = getString(rd, "Password")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if v := getString(lg, "Level"); v != "" {
			out.LogLevel = v
		}
		if v := getString(lg, "Path"); v != "" {
			out.LogPath = v
		}
		if v := getString(lg, "GinPath"); v != "" {
			out.GinPath = v
		}
		if v := getInt(lg, "MaxSizeMB"); v != 0 {
			out.LogMaxSizeMB = v
		}
		if v := getInt(lg, "MaxBackups"); v != 0 {
			out.LogMaxBackups = v
		}
		if v := getInt(lg, "MaxAgeDays"); v != 0 {
			out.LogMaxAgeDays = v
		}
		out.LogCompress = getBool(lg, "Compress")
	}

	// Flat keys for backward compatibility.
	if v := getString(raw, "AppPort"); v != "" && out.AppPort == "" {
		out.AppPort = v
	}
	if v := getString(raw, "GinMode"); v != "" && out.GinMode == "" {
		out.GinMode = v
	}

	return nil
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func getBool(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func getStringSlice(m map[string]any, key string) []string {
	arr, ok := m[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, it := range arr {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
