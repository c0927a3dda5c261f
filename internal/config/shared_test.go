package config

import (
	"testing"
	"time"
)

func TestReadDefaults(t *testing.T) {
	cfg, err := Read(t.TempDir())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got := cfg.CheckInterval(); got != 30*time.Second {
		t.Errorf("CheckInterval = %v, want 30s", got)
	}
	if got := cfg.RotateInterval(); got != 2*time.Minute {
		t.Errorf("RotateInterval = %v, want 2m", got)
	}
	if len(cfg.FallbackVideos) != 3 {
		t.Errorf("Expected 3 default clips, got %d", len(cfg.FallbackVideos))
	}
	if cfg.Links["twitch"] != "https://www.twitch.tv/strimando" {
		t.Errorf("Unexpected twitch link: %q", cfg.Links["twitch"])
	}
	if cfg.Live.Provider != "random" {
		t.Errorf("Expected random provider by default, got %q", cfg.Live.Provider)
	}
}

func TestReadEnvOverrides(t *testing.T) {
	t.Setenv("LINKTREE_LIVE_PROVIDER", "twitch,kick")
	t.Setenv("LINKTREE_LIVE_CHECK_INTERVAL_SECONDS", "10")
	t.Setenv("LINKTREE_FALLBACK_VIDEOS", "https://a.example/1,https://a.example/2")

	cfg, err := Read(t.TempDir())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if cfg.Live.Provider != "twitch,kick" {
		t.Errorf("Provider = %q", cfg.Live.Provider)
	}
	if cfg.CheckInterval() != 10*time.Second {
		t.Errorf("CheckInterval = %v, want 10s", cfg.CheckInterval())
	}
	if len(cfg.FallbackVideos) != 2 || cfg.FallbackVideos[1] != "https://a.example/2" {
		t.Errorf("FallbackVideos = %v", cfg.FallbackVideos)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{FallbackVideos: []string{"https://a.example/1"}}
		c.Live.CheckInterval = 30
		c.Live.RotateInterval = 120
		c.Live.RandomProbability = 0.3
		c.Live.ProbeTimeout = 5
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"Valid", func(c *Config) {}, false},
		{"No Clips", func(c *Config) { c.FallbackVideos = nil }, true},
		{"Blank Clip", func(c *Config) { c.FallbackVideos = []string{" "} }, true},
		{"Zero Check Interval", func(c *Config) { c.Live.CheckInterval = 0 }, true},
		{"Negative Rotation", func(c *Config) { c.Live.RotateInterval = -1 }, true},
		{"Zero Probe Timeout", func(c *Config) { c.Live.ProbeTimeout = 0 }, true},
		{"Negative Probe Timeout", func(c *Config) { c.Live.ProbeTimeout = -3 }, true},
		{"Probability Above One", func(c *Config) { c.Live.RandomProbability = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProbeTimeoutDefault(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{0, DefaultProbeTimeout},
		{-1, DefaultProbeTimeout},
		{2, 2 * time.Second},
	}
	for _, tt := range tests {
		c := &Config{}
		c.Live.ProbeTimeout = tt.seconds
		if got := c.ProbeTimeout(); got != tt.want {
			t.Errorf("ProbeTimeout(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}
