package config

import (
	"testing"
	"time"

	"github.com/hugo/flashd/pkg/compositor"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() config invalid: %v", err)
	}

	if cfg.Flash.Duration != 300*time.Millisecond {
		t.Errorf("Duration = %v, want 300ms", cfg.Flash.Duration)
	}
	if cfg.Flash.Debounce != 500*time.Millisecond {
		t.Errorf("Debounce = %v, want 500ms", cfg.Flash.Debounce)
	}
	if cfg.Flash.Retention != 60*time.Second {
		t.Errorf("Retention = %v, want 60s", cfg.Flash.Retention)
	}
	if cfg.Flash.Effect != "fade" {
		t.Errorf("Effect = %q, want fade", cfg.Flash.Effect)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero duration", func(c *Config) { c.Flash.Duration = 0 }},
		{"negative duration", func(c *Config) { c.Flash.Duration = -time.Second }},
		{"zero tick", func(c *Config) { c.Flash.TickInterval = 0 }},
		{"alpha above one", func(c *Config) { c.Flash.Color.A = 1.5 }},
		{"negative red", func(c *Config) { c.Flash.Color.R = -0.1 }},
		{"unknown effect", func(c *Config) { c.Flash.Effect = "sparkle" }},
		{"zero retention", func(c *Config) { c.Flash.Retention = 0 }},
		{"bad port", func(c *Config) { c.Web.Port = 0 }},
		{"empty host", func(c *Config) { c.Web.Host = "" }},
		{"empty pid file", func(c *Config) { c.Daemon.PIDFile = "" }},
	}

	for _, tc := range tests {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", tc.name)
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FLASHD_DURATION_MS", "450")
	t.Setenv("FLASHD_COLOR", "#ff8000")
	t.Setenv("FLASHD_ALPHA", "0.5")
	t.Setenv("FLASHD_EASING", "expo")
	t.Setenv("FLASHD_EFFECT", "border")
	t.Setenv("FLASHD_EXCLUDE", "flashd, xterm")
	t.Setenv("FLASHD_WEB_PORT", "8123")

	cfg := New()

	if cfg.Flash.Duration != 450*time.Millisecond {
		t.Errorf("Duration = %v, want 450ms", cfg.Flash.Duration)
	}
	if cfg.Flash.Color.R != 1 || cfg.Flash.Color.B != 0 {
		t.Errorf("Color = %+v, want R=1 B=0", cfg.Flash.Color)
	}
	if cfg.Flash.Color.A != 0.5 {
		t.Errorf("Alpha = %v, want 0.5", cfg.Flash.Color.A)
	}
	if cfg.Flash.Easing != "expo" {
		t.Errorf("Easing = %q, want expo", cfg.Flash.Easing)
	}
	if cfg.Flash.Effect != "border" {
		t.Errorf("Effect = %q, want border", cfg.Flash.Effect)
	}
	if len(cfg.Dispatch.ExcludeApps) != 2 || cfg.Dispatch.ExcludeApps[1] != "xterm" {
		t.Errorf("ExcludeApps = %v, want [flashd xterm]", cfg.Dispatch.ExcludeApps)
	}
	if cfg.Web.Port != 8123 {
		t.Errorf("Port = %d, want 8123", cfg.Web.Port)
	}
}

func TestEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("FLASHD_DURATION_MS", "-5")
	t.Setenv("FLASHD_COLOR", "notacolor")
	t.Setenv("FLASHD_EFFECT", "sparkle")
	t.Setenv("FLASHD_WEB_PORT", "99999")

	cfg := New()
	def := Default()

	if cfg.Flash.Duration != def.Flash.Duration {
		t.Errorf("Duration = %v, want default %v", cfg.Flash.Duration, def.Flash.Duration)
	}
	if cfg.Flash.Color != def.Flash.Color {
		t.Errorf("Color = %+v, want default %+v", cfg.Flash.Color, def.Flash.Color)
	}
	if cfg.Flash.Effect != def.Flash.Effect {
		t.Errorf("Effect = %q, want default %q", cfg.Flash.Effect, def.Flash.Effect)
	}
	if cfg.Web.Port != def.Web.Port {
		t.Errorf("Port = %d, want default %d", cfg.Web.Port, def.Web.Port)
	}
}

func TestApplyPartial(t *testing.T) {
	cfg := Default()

	d := 750 * time.Millisecond
	a := 0.9
	effect := "border"
	cfg.Apply(Partial{Duration: &d, Alpha: &a, Effect: &effect})

	if cfg.Flash.Duration != d {
		t.Errorf("Duration = %v, want %v", cfg.Flash.Duration, d)
	}
	if cfg.Flash.Color.A != 0.9 {
		t.Errorf("Alpha = %v, want 0.9", cfg.Flash.Color.A)
	}
	if cfg.Flash.Effect != "border" {
		t.Errorf("Effect = %q, want border", cfg.Flash.Effect)
	}

	// Out-of-range alpha is clamped, invalid effect ignored.
	big := 2.0
	bad := "sparkle"
	cfg.Apply(Partial{Alpha: &big, Effect: &bad})
	if cfg.Flash.Color.A != 1 {
		t.Errorf("Alpha = %v, want clamped to 1", cfg.Flash.Color.A)
	}
	if cfg.Flash.Effect != "border" {
		t.Errorf("Effect = %q, want border unchanged", cfg.Flash.Effect)
	}

	// RGB replacement keeps explicit color.
	c := compositor.Color{R: 1, G: 0, B: 0, A: 0.4}
	cfg.Apply(Partial{Color: &c})
	if cfg.Flash.Color != c {
		t.Errorf("Color = %+v, want %+v", cfg.Flash.Color, c)
	}
}

func TestShapeForEffect(t *testing.T) {
	cfg := Default()
	if cfg.Flash.Shape() != compositor.FilledRectangle {
		t.Errorf("fade Shape() = %v, want FilledRectangle", cfg.Flash.Shape())
	}
	cfg.Flash.Effect = "border"
	if cfg.Flash.Shape() != compositor.StrokedRectangle {
		t.Errorf("border Shape() = %v, want StrokedRectangle", cfg.Flash.Shape())
	}
}
