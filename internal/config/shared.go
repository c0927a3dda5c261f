package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Streamer struct {
		Name             string `mapstructure:"name"`
		TwitchChannel    string `mapstructure:"twitch_channel"`
		YoutubeChannelID string `mapstructure:"youtube_channel_id"`
		KickChannel      string `mapstructure:"kick_channel"`
	} `mapstructure:"streamer"`
	// Links maps a platform name (twitch, kick, pix, ...) to its URL.
	Links          map[string]string `mapstructure:"links"`
	FallbackVideos []string          `mapstructure:"fallback_videos"`
	Server         struct {
		Addr        string `mapstructure:"addr"`
		MetricsPort string `mapstructure:"metrics_port"`
		ParentHost  string `mapstructure:"parent_host"`
		LogLevel    string `mapstructure:"log_level"`
	} `mapstructure:"server"`
	Live struct {
		Provider          string  `mapstructure:"provider"`
		CheckInterval     int     `mapstructure:"check_interval_seconds"`
		RotateInterval    int     `mapstructure:"rotate_interval_seconds"`
		RandomProbability float64 `mapstructure:"random_probability"`
		ProbeTimeout      int     `mapstructure:"probe_timeout_seconds"`
	} `mapstructure:"live"`
	Twitch struct {
		ClientID    string `mapstructure:"client_id"`
		AccessToken string `mapstructure:"access_token"`
		APIBase     string `mapstructure:"api_base"`
	} `mapstructure:"twitch"`
	Youtube struct {
		APIKey  string `mapstructure:"api_key"`
		APIBase string `mapstructure:"api_base"`
	} `mapstructure:"youtube"`
	Kick struct {
		APIBase string `mapstructure:"api_base"`
	} `mapstructure:"kick"`
	Database struct {
		Driver   string `mapstructure:"driver"`
		Path     string `mapstructure:"path"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Storage struct {
		Provider  string `mapstructure:"provider"`
		LocalPath string `mapstructure:"local_path"`
		KeyID     string `mapstructure:"key_id"`
		AppKey    string `mapstructure:"app_key"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
	} `mapstructure:"storage"`
	Auth struct {
		JWTSecret string `mapstructure:"jwt_secret"`
	} `mapstructure:"auth"`
}

// CheckInterval is how often the live status is polled.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.Live.CheckInterval) * time.Second
}

// RotateInterval is how often the highlight clip changes while offline.
func (c *Config) RotateInterval() time.Duration {
	return time.Duration(c.Live.RotateInterval) * time.Second
}

// DefaultProbeTimeout applies when live.probe_timeout_seconds is unset.
const DefaultProbeTimeout = 5 * time.Second

// ProbeTimeout bounds a single live check. Both the scheduler deadline and
// the provider HTTP client are derived from it.
func (c *Config) ProbeTimeout() time.Duration {
	if c.Live.ProbeTimeout <= 0 {
		return DefaultProbeTimeout
	}
	return time.Duration(c.Live.ProbeTimeout) * time.Second
}

// Validate rejects configurations the scheduler cannot run with.
func (c *Config) Validate() error {
	if len(c.FallbackVideos) == 0 {
		return errors.New("fallback_videos must contain at least one clip")
	}
	for i, v := range c.FallbackVideos {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("fallback_videos[%d] is empty", i)
		}
	}
	if c.Live.CheckInterval <= 0 {
		return fmt.Errorf("live.check_interval_seconds must be positive, got %d", c.Live.CheckInterval)
	}
	if c.Live.RotateInterval <= 0 {
		return fmt.Errorf("live.rotate_interval_seconds must be positive, got %d", c.Live.RotateInterval)
	}
	if c.Live.ProbeTimeout <= 0 {
		return fmt.Errorf("live.probe_timeout_seconds must be positive, got %d", c.Live.ProbeTimeout)
	}
	if c.Live.RandomProbability < 0 || c.Live.RandomProbability > 1 {
		return fmt.Errorf("live.random_probability must be within [0,1], got %v", c.Live.RandomProbability)
	}
	return nil
}

func Load() *Config {
	cfg, err := Read(".", "../")
	if err != nil {
		log.Fatalf("Unable to load config: %v", err)
	}
	return cfg
}

// Read builds the configuration from defaults, an optional config.yaml found
// in one of paths and LINKTREE_* environment variables.
func Read(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LINKTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Register keys
	v.BindEnv("streamer.name")
	v.BindEnv("streamer.twitch_channel")
	v.BindEnv("streamer.youtube_channel_id")
	v.BindEnv("streamer.kick_channel")
	v.BindEnv("fallback_videos")

	v.BindEnv("server.addr")
	v.BindEnv("server.metrics_port")
	v.BindEnv("server.parent_host")
	v.BindEnv("server.log_level")

	// Live Check Bindings
	v.BindEnv("live.provider")
	v.BindEnv("live.check_interval_seconds")
	v.BindEnv("live.rotate_interval_seconds")
	v.BindEnv("live.random_probability")
	v.BindEnv("live.probe_timeout_seconds")

	// Platform APIs
	v.BindEnv("twitch.client_id")
	v.BindEnv("twitch.access_token")
	v.BindEnv("twitch.api_base")
	v.BindEnv("youtube.api_key")
	v.BindEnv("youtube.api_base")
	v.BindEnv("kick.api_base")

	v.BindEnv("database.driver")
	v.BindEnv("database.path")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.name")

	v.BindEnv("storage.provider")
	v.BindEnv("storage.local_path")
	v.BindEnv("storage.key_id")
	v.BindEnv("storage.app_key")
	v.BindEnv("storage.endpoint")
	v.BindEnv("storage.region")
	v.BindEnv("storage.bucket")

	v.BindEnv("auth.jwt_secret")

	// Defaults
	v.SetDefault("streamer.name", "strimando")
	v.SetDefault("streamer.twitch_channel", "strimando")
	v.SetDefault("streamer.kick_channel", "strimando")
	v.SetDefault("links", map[string]string{
		"twitch":    "https://www.twitch.tv/strimando",
		"kick":      "https://kick.com/strimando",
		"pix":       "#",
		"twitter":   "https://twitter.com/strimando",
		"instagram": "https://instagram.com/strimando",
		"youtube":   "https://youtube.com/@strimando",
		"tiktok":    "https://tiktok.com/@strimando",
		"discord":   "https://discord.gg/strimando",
	})
	v.SetDefault("fallback_videos", []string{
		"https://www.youtube.com/embed/MJ2EWU_him0",
		"https://www.youtube.com/embed/r0BpA5kGJtE",
		"https://www.youtube.com/embed/8gq4wMERd0I",
	})

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_port", ":9091")
	v.SetDefault("server.parent_host", "localhost")
	v.SetDefault("server.log_level", "error")

	v.SetDefault("live.provider", "random")
	v.SetDefault("live.check_interval_seconds", 30)
	v.SetDefault("live.rotate_interval_seconds", 120) // 2 minutes per clip
	v.SetDefault("live.random_probability", 0.3)
	v.SetDefault("live.probe_timeout_seconds", 5)

	v.SetDefault("twitch.api_base", "https://api.twitch.tv")
	v.SetDefault("youtube.api_base", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("kick.api_base", "https://kick.com")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "linktree.db")
	v.SetDefault("database.port", "5432")

	v.SetDefault("storage.provider", "none")
	v.SetDefault("storage.local_path", "./public")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" {
		log.Println("⚠️ auth.jwt_secret is empty, admin routes are disabled (LINKTREE_AUTH_JWT_SECRET)")
	}

	return &cfg, nil
}
