// Package config defines the rotavault configuration and its loading
// rules. A run's configuration is one immutable value built by laying
// file-sourced settings over the defaults and command-line overrides
// over both; nothing mutates it after the run starts.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/clarvel/rotavault/internal/rotation"
	"github.com/clarvel/rotavault/internal/snapshot"
)

type Config struct {
	Source      string            `yaml:"source"`
	Destination DestinationConfig `yaml:"destination"`
	Transfer    TransferConfig    `yaml:"transfer"`
	Retention   RetentionConfig   `yaml:"retention"`
	Logging     LoggingConfig     `yaml:"logging"`
	Daemon      DaemonConfig      `yaml:"daemon"`
	LockFile    string            `yaml:"lockFile"`
}

type DestinationConfig struct {
	Root       string `yaml:"root"`
	NameFormat string `yaml:"nameFormat"` // strftime template, e.g. %Y-%m-%d
	LatestName string `yaml:"latestName"`
}

type TransferConfig struct {
	Command     string   `yaml:"command"`
	Args        []string `yaml:"args"`
	ExcludeFile string   `yaml:"excludeFile"`
	LogFile     string   `yaml:"logFile"`
	Verbose     bool     `yaml:"verbose"`
}

type RetentionConfig struct {
	Mode      string `yaml:"mode"` // "depth" or "keep"
	Daily     int    `yaml:"daily"`
	Weekly    int    `yaml:"weekly"`
	Monthly   int    `yaml:"monthly"`
	WeekStart string `yaml:"weekStart"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", ...
	Format string `yaml:"format"` // "text", "json"
	File   string `yaml:"file"`
}

type DaemonConfig struct {
	Schedule string       `yaml:"schedule"` // cron spec
	Reload   ReloadConfig `yaml:"reload"`
}

type ReloadConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "auto", "fsnotify", "signal"
}

// Default returns the configuration used when neither file nor flags
// say otherwise.
func Default() Config {
	return Config{
		Destination: DestinationConfig{
			NameFormat: "%Y-%m-%d",
			LatestName: "latest",
		},
		Transfer: TransferConfig{
			Command: "rsync",
			Args:    []string{"-a", "--delete"},
		},
		Retention: RetentionConfig{
			Mode:      "depth",
			Daily:     1,
			Weekly:    4,
			Monthly:   12,
			WeekStart: "monday",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Daemon: DaemonConfig{
			Schedule: "0 3 * * *",
			Reload:   ReloadConfig{Enabled: true, Mode: "auto"},
		},
	}
}

// Validate checks the assembled configuration before a run.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source path is not set")
	}
	if c.Destination.Root == "" {
		return fmt.Errorf("destination root is not set")
	}
	if c.Destination.LatestName == "" {
		return fmt.Errorf("latest link name is not set")
	}
	if strings.ContainsAny(c.Destination.LatestName, "/\\") {
		return fmt.Errorf("latest link name %q contains a path separator", c.Destination.LatestName)
	}
	if err := snapshot.ValidateTemplate(c.Destination.NameFormat); err != nil {
		return err
	}
	if c.Transfer.Command == "" {
		return fmt.Errorf("transfer command is not set")
	}

	policy, err := c.Policy()
	if err != nil {
		return err
	}
	if err := policy.Validate(); err != nil {
		return err
	}

	if c.Daemon.Schedule != "" {
		if _, err := cron.ParseStandard(c.Daemon.Schedule); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", c.Daemon.Schedule, err)
		}
	}
	return nil
}

// Policy translates the retention section into a rotation policy.
func (c *Config) Policy() (rotation.Policy, error) {
	mode, err := rotation.ParseMode(c.Retention.Mode)
	if err != nil {
		return rotation.Policy{}, err
	}
	weekStart, err := parseWeekday(c.Retention.WeekStart)
	if err != nil {
		return rotation.Policy{}, err
	}
	return rotation.Policy{
		Mode:      mode,
		Daily:     c.Retention.Daily,
		Weekly:    c.Retention.Weekly,
		Monthly:   c.Retention.Monthly,
		WeekStart: weekStart,
	}, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "", "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	case "sunday":
		return time.Sunday, nil
	default:
		return time.Monday, fmt.Errorf("unknown week start %q", s)
	}
}
