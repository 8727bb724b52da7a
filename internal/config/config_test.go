package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseAppliesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := parse([]byte("reply:\n  sink_url: http://sink.local/replies\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Bot.CommandWord != "/remind" {
		t.Fatalf("CommandWord = %q", cfg.Bot.CommandWord)
	}
	if cfg.Server.Listen != ":8080" {
		t.Fatalf("Listen = %q", cfg.Server.Listen)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("Driver = %q", cfg.Storage.Driver)
	}
	if cfg.Scheduler.ResyncEvery.Std() != time.Minute {
		t.Fatalf("ResyncEvery = %s", cfg.Scheduler.ResyncEvery.Std())
	}
	if cfg.Reply.RatePerSec != 1 {
		t.Fatalf("RatePerSec = %d", cfg.Reply.RatePerSec)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	_, err := parse([]byte("reply:\n  sink_url: http://sink\n  tpyo: yes\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestParseRequiresSinkURL(t *testing.T) {
	t.Parallel()
	_, err := parse([]byte("bot:\n  name: remind-bot\n"))
	if err == nil {
		t.Fatal("expected error for missing reply.sink_url")
	}
}

func TestDurationField(t *testing.T) {
	t.Parallel()
	cfg, err := parse([]byte("reply:\n  sink_url: http://sink\nscheduler:\n  resync_every: 90s\n  fire_timeout: 2m\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Scheduler.ResyncEvery.Std() != 90*time.Second {
		t.Fatalf("ResyncEvery = %s", cfg.Scheduler.ResyncEvery.Std())
	}
	if cfg.Scheduler.FireTimeout.Std() != 2*time.Minute {
		t.Fatalf("FireTimeout = %s", cfg.Scheduler.FireTimeout.Std())
	}

	if _, err := parse([]byte("reply:\n  sink_url: http://sink\nscheduler:\n  resync_every: -5s\n")); err == nil {
		t.Fatal("expected error for negative duration")
	}
	if _, err := parse([]byte("reply:\n  sink_url: http://sink\nscheduler:\n  resync_every: soonish\n")); err == nil {
		t.Fatal("expected error for junk duration")
	}
}

func TestManagerLoadAndGet(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("reply:\n  sink_url: http://sink\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(path, zerolog.Nop())
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Get() != cfg {
		t.Fatal("Get should return the committed config")
	}
}
