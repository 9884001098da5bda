package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hugo/flashd/pkg/compositor"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Flash animation configuration
	Flash FlashConfig

	// Event dispatch configuration
	Dispatch DispatchConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Web server configuration
	Web WebConfig
}

// DatabaseConfig holds flash-history persistence configuration
type DatabaseConfig struct {
	Path             string        // Path to SQLite database file
	HistoryRetention time.Duration // How long flash history rows are kept
}

// FlashConfig holds the per-flash animation parameters. Sessions snapshot
// these values at start; a change never restyles a running flash.
type FlashConfig struct {
	Duration      time.Duration    // How long one flash lasts
	Color         compositor.Color // Overlay color; A is the starting opacity
	Easing        string           // quad, cubic, quart or expo
	Effect        string           // fade or border
	TickInterval  time.Duration    // Repaint cadence
	Debounce      time.Duration    // Minimum gap between accepted triggers per window
	Retention     time.Duration    // How long per-window trigger state is kept
	SweepInterval time.Duration    // How often stale trigger state is reclaimed
}

// DispatchConfig holds event dispatch behavior configuration
type DispatchConfig struct {
	SettleDelay time.Duration // Wait after app activation before resolving focus
	ExcludeApps []string      // Application names that never trigger a flash
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
	LogFile string // Path the daemonized process logs to
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string // Host to bind web server to
	Port int    // Port for web server
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:             "", // Empty means use default ~/.config/flashd/flashd.db
			HistoryRetention: 30 * 24 * time.Hour,
		},
		Flash: FlashConfig{
			Duration:      300 * time.Millisecond,
			Color:         compositor.Color{R: 0.25, G: 0.55, B: 1.0, A: 0.7},
			Easing:        "cubic",
			Effect:        "fade",
			TickInterval:  16 * time.Millisecond, // ~60 Hz
			Debounce:      500 * time.Millisecond,
			Retention:     60 * time.Second,
			SweepInterval: 30 * time.Second,
		},
		Dispatch: DispatchConfig{
			SettleDelay: 10 * time.Millisecond,
			ExcludeApps: nil,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/flashd-%d.pid", os.Getuid()),
			LogFile: "/tmp/flashd.log",
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Flash.Duration <= 0 {
		return fmt.Errorf("flash duration must be positive, got %v", c.Flash.Duration)
	}

	if c.Flash.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", c.Flash.TickInterval)
	}

	components := []struct {
		name  string
		value float64
	}{
		{"red", c.Flash.Color.R},
		{"green", c.Flash.Color.G},
		{"blue", c.Flash.Color.B},
		{"alpha", c.Flash.Color.A},
	}
	for _, comp := range components {
		if comp.value < 0 || comp.value > 1 {
			return fmt.Errorf("color %s component must be in [0,1], got %v", comp.name, comp.value)
		}
	}

	if c.Flash.Effect != "fade" && c.Flash.Effect != "border" {
		return fmt.Errorf("effect must be fade or border, got %q", c.Flash.Effect)
	}

	if c.Flash.Debounce < 0 {
		return fmt.Errorf("debounce cannot be negative")
	}

	if c.Flash.Retention <= 0 {
		return fmt.Errorf("retention must be positive, got %v", c.Flash.Retention)
	}

	if c.Dispatch.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative")
	}

	// Validate web config
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	// Validate daemon config
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// Partial is a sparse flash-config change; nil fields are left untouched.
// This is how runtime adjustments (hotkey bindings, the web API) modify the
// process-wide configuration.
type Partial struct {
	Duration *time.Duration
	Color    *compositor.Color
	Alpha    *float64
	Easing   *string
	Effect   *string
}

// Apply merges a partial change into the flash configuration.
// The change takes effect on the next triggered flash.
func (c *Config) Apply(p Partial) {
	if p.Duration != nil && *p.Duration > 0 {
		c.Flash.Duration = *p.Duration
	}
	if p.Color != nil {
		c.Flash.Color = *p.Color
	}
	if p.Alpha != nil {
		a := *p.Alpha
		if a < 0 {
			a = 0
		} else if a > 1 {
			a = 1
		}
		c.Flash.Color.A = a
	}
	if p.Easing != nil {
		c.Flash.Easing = *p.Easing
	}
	if p.Effect != nil && (*p.Effect == "fade" || *p.Effect == "border") {
		c.Flash.Effect = *p.Effect
	}
}

// Shape returns the overlay shape the configured effect maps to.
func (f FlashConfig) Shape() compositor.Shape {
	if f.Effect == "border" {
		return compositor.StrokedRectangle
	}
	return compositor.FilledRectangle
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
    History Retention: %v
  Flash:
    Duration: %v
    Color: (%.2f, %.2f, %.2f) alpha %.2f
    Easing: %s
    Effect: %s
    Tick Interval: %v
    Debounce: %v
    Retention: %v
  Dispatch:
    Settle Delay: %v
    Excluded Apps: %s
  Daemon:
    PID File: %s
    Log File: %s
  Web:
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Database.HistoryRetention,
		c.Flash.Duration,
		c.Flash.Color.R,
		c.Flash.Color.G,
		c.Flash.Color.B,
		c.Flash.Color.A,
		c.Flash.Easing,
		c.Flash.Effect,
		c.Flash.TickInterval,
		c.Flash.Debounce,
		c.Flash.Retention,
		c.Dispatch.SettleDelay,
		strings.Join(c.Dispatch.ExcludeApps, ", "),
		c.Daemon.PIDFile,
		c.Daemon.LogFile,
		c.Web.Host,
		c.Web.Port,
	)
}
