package cmd_test

import (
	"log/slog"
	"testing"
	"time"

	pop "github.com/maroda/songid/cmd"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := pop.LoadConfig()
		if err != nil {
			t.Fatalf("want no error, got %v", err)
		}
		if cfg.YTMusicURL != "https://music.youtube.com" {
			t.Errorf("want youtube music url, got %q", cfg.YTMusicURL)
		}
		if cfg.Timeout != 15*time.Second {
			t.Errorf("want 15s, got %s", cfg.Timeout)
		}
		if cfg.SlogLevel() != slog.LevelWarn {
			t.Errorf("want warn, got %s", cfg.SlogLevel())
		}
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("SONGID_YTMUSIC_URL", "http://localhost:9999")
		t.Setenv("SONGID_TIMEOUT", "3s")
		t.Setenv("SONGID_RATE", "2.5")
		t.Setenv("SONGID_LOG_LEVEL", "debug")

		cfg, err := pop.LoadConfig()
		if err != nil {
			t.Fatalf("want no error, got %v", err)
		}
		if cfg.YTMusicURL != "http://localhost:9999" {
			t.Errorf("want override, got %q", cfg.YTMusicURL)
		}
		if cfg.Timeout != 3*time.Second {
			t.Errorf("want 3s, got %s", cfg.Timeout)
		}
		if cfg.Rate != 2.5 {
			t.Errorf("want 2.5, got %v", cfg.Rate)
		}
		if cfg.SlogLevel() != slog.LevelDebug {
			t.Errorf("want debug, got %s", cfg.SlogLevel())
		}
	})

	t.Run("Zero rate is rejected", func(t *testing.T) {
		t.Setenv("SONGID_RATE", "0")
		if _, err := pop.LoadConfig(); err == nil {
			t.Error("want error, got nil")
		}
	})
}
