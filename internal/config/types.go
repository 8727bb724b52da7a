// Package config loads and watches the bot's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Reply     ReplyConfig     `yaml:"reply"`
	Logging   LoggingConfig   `yaml:"logging"`
	Pprof     PprofConfig     `yaml:"pprof"`
}

type BotConfig struct {
	// Name is the bot's own login, used to drop self-authored comments.
	Name string `yaml:"name"`
	// CommandWord addresses the reminder subsystem, default "/remind".
	CommandWord string `yaml:"command_word"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
}

type StorageConfig struct {
	Driver      string   `yaml:"driver"`
	Path        string   `yaml:"path"`
	BusyTimeout Duration `yaml:"busy_timeout"`
}

type SchedulerConfig struct {
	ResyncEvery Duration `yaml:"resync_every"`
	FireTimeout Duration `yaml:"fire_timeout"`
}

type ReplyConfig struct {
	// SinkURL receives outbound replies as JSON POSTs.
	SinkURL    string `yaml:"sink_url"`
	RatePerSec int    `yaml:"rate_per_sec"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

type PprofConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Token   string `yaml:"token"`
}

func (c *Config) applyDefaults() {
	if c.Bot.Name == "" {
		c.Bot.Name = "remind-bot"
	}
	if c.Bot.CommandWord == "" {
		c.Bot.CommandWord = "/remind"
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "./data/remindbot.db"
	}
	if c.Storage.BusyTimeout == 0 {
		c.Storage.BusyTimeout = Duration(2 * time.Second)
	}
	if c.Scheduler.ResyncEvery == 0 {
		c.Scheduler.ResyncEvery = Duration(time.Minute)
	}
	if c.Scheduler.FireTimeout == 0 {
		c.Scheduler.FireTimeout = Duration(30 * time.Second)
	}
	if c.Reply.RatePerSec == 0 {
		c.Reply.RatePerSec = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Reply.SinkURL) == "" {
		return errors.New("config: reply.sink_url is required")
	}
	return nil
}

// Duration is a time.Duration that unmarshals from Go duration strings
// ("90s", "2h30m").
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	if parsed < 0 {
		return fmt.Errorf("config: duration must be >= 0, got %q", raw)
	}
	*d = Duration(parsed)
	return nil
}
