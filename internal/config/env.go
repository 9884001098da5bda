package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hugo/flashd/pkg/compositor"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default values
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("FLASHD_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if retention := os.Getenv("FLASHD_HISTORY_RETENTION_DAYS"); retention != "" {
		if days, err := strconv.Atoi(retention); err == nil && days > 0 {
			cfg.Database.HistoryRetention = time.Duration(days) * 24 * time.Hour
		}
	}

	// Flash configuration
	if duration := os.Getenv("FLASHD_DURATION_MS"); duration != "" {
		if ms, err := strconv.Atoi(duration); err == nil && ms > 0 {
			cfg.Flash.Duration = time.Duration(ms) * time.Millisecond
		}
	}

	if color := os.Getenv("FLASHD_COLOR"); color != "" {
		if c, ok := parseHexColor(color); ok {
			c.A = cfg.Flash.Color.A
			cfg.Flash.Color = c
		}
	}

	if alpha := os.Getenv("FLASHD_ALPHA"); alpha != "" {
		if a, err := strconv.ParseFloat(alpha, 64); err == nil && a >= 0 && a <= 1 {
			cfg.Flash.Color.A = a
		}
	}

	if easing := os.Getenv("FLASHD_EASING"); easing != "" {
		cfg.Flash.Easing = easing
	}

	if effect := os.Getenv("FLASHD_EFFECT"); effect == "fade" || effect == "border" {
		cfg.Flash.Effect = effect
	}

	if debounce := os.Getenv("FLASHD_DEBOUNCE_MS"); debounce != "" {
		if ms, err := strconv.Atoi(debounce); err == nil && ms >= 0 {
			cfg.Flash.Debounce = time.Duration(ms) * time.Millisecond
		}
	}

	if retention := os.Getenv("FLASHD_RETENTION"); retention != "" {
		if seconds, err := strconv.Atoi(retention); err == nil && seconds > 0 {
			cfg.Flash.Retention = time.Duration(seconds) * time.Second
		}
	}

	// Dispatch configuration
	if exclude := os.Getenv("FLASHD_EXCLUDE"); exclude != "" {
		var apps []string
		for _, name := range strings.Split(exclude, ",") {
			if name = strings.TrimSpace(name); name != "" {
				apps = append(apps, name)
			}
		}
		cfg.Dispatch.ExcludeApps = apps
	}

	// Daemon configuration
	if pidFile := os.Getenv("FLASHD_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	if logFile := os.Getenv("FLASHD_LOG_FILE"); logFile != "" {
		cfg.Daemon.LogFile = logFile
	}

	// Web configuration
	if webHost := os.Getenv("FLASHD_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("FLASHD_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}
}

// parseHexColor parses "#RRGGBB" (leading # optional) into a Color.
// The alpha component is left at zero for the caller to fill in.
func parseHexColor(s string) (compositor.Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return compositor.Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return compositor.Color{}, false
	}
	return compositor.Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}, true
}

// New creates a new Config with default values and loads from environment
func New() *Config {
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}
