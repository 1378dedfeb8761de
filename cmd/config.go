package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the knobs read from SONGID_* environment variables.
type Config struct {
	YTMusicURL     string        `mapstructure:"ytmusic_url"`
	MusicBrainzURL string        `mapstructure:"musicbrainz_url"`
	ThumbnailURL   string        `mapstructure:"thumbnail_url"`
	HL             string        `mapstructure:"hl"`
	GL             string        `mapstructure:"gl"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Rate           float64       `mapstructure:"rate"`
	LogLevel       string        `mapstructure:"log_level"`
}

// LoadConfig reads the environment. There is no config file.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("songid")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.Rate <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %v", cfg.Rate)
	}
	return &cfg, nil
}

// Unmarshal only sees keys viper knows about, so every key needs a default.
func setDefaults(v *viper.Viper) {
	v.SetDefault("ytmusic_url", "https://music.youtube.com")
	v.SetDefault("musicbrainz_url", mzEndpoint)
	v.SetDefault("thumbnail_url", ytThumbEndpoint)
	v.SetDefault("hl", "en")
	v.SetDefault("gl", "US")
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("rate", 1.0)
	v.SetDefault("log_level", "warn")
}

// SlogLevel maps the configured level name, defaulting to warn.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}
