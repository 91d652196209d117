package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ProbingConfig carries the measurement tunables. All durations are in
// milliseconds in the file; zero values take the reference defaults below.
type ProbingConfig struct {
	ConnectTimeoutMs int `toml:"connect_timeout_ms"` // per-socket connect ceiling
	PollTimeoutMs    int `toml:"poll_timeout_ms"`    // wait per poll round
	IdleWaitMs       int `toml:"idle_wait_ms"`       // secondary wait when no data yet
	MaxPollRounds    int `toml:"max_poll_rounds"`    // poll-round cap for large groups
	MaxWorkers       int `toml:"max_workers"`        // probe fan-out pool size
}

func (p ProbingConfig) ConnectTimeout() time.Duration {
	return time.Duration(p.ConnectTimeoutMs) * time.Millisecond
}

func (p ProbingConfig) PollTimeout() time.Duration {
	return time.Duration(p.PollTimeoutMs) * time.Millisecond
}

func (p ProbingConfig) IdleWait() time.Duration {
	return time.Duration(p.IdleWaitMs) * time.Millisecond
}

// Config represents the application configuration.
type Config struct {
	PortsDir string        `toml:"ports_dir"` // root of the ports tree
	SitesMk  string        `toml:"sites_mk"`  // optional: explicit site list location
	LogLevel string        `toml:"log_level"` // debug, info, warn, error
	LogDir   string        `toml:"log_dir"`   // rotating log file directory
	Probing  ProbingConfig `toml:"probing"`
}

// Load reads configuration from the specified TOML file. A missing file is
// only an error when the caller explicitly asked for that path; otherwise
// the defaults stand on their own.
func Load(configPath string, explicit bool) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) && !explicit {
			applyDefaults(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", configPath, err)
	}

	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.PortsDir == "" {
		cfg.PortsDir = "/usr/ports"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogDir == "" {
		cfg.LogDir = "./logs"
	}
	if cfg.Probing.ConnectTimeoutMs == 0 {
		cfg.Probing.ConnectTimeoutMs = 5000 // Default: 5 second connect ceiling
	}
	if cfg.Probing.PollTimeoutMs == 0 {
		cfg.Probing.PollTimeoutMs = 1000 // Default: 1 second poll rounds
	}
	if cfg.Probing.IdleWaitMs == 0 {
		cfg.Probing.IdleWaitMs = 30000 // Default: 30 second idle wait
	}
	if cfg.Probing.MaxPollRounds == 0 {
		cfg.Probing.MaxPollRounds = 10 // Default: enough results after 10 rounds
	}
	if cfg.Probing.MaxWorkers == 0 {
		cfg.Probing.MaxWorkers = 50
	}
}

func (cfg *Config) validate() error {
	p := cfg.Probing
	if p.ConnectTimeoutMs < 0 || p.PollTimeoutMs < 0 || p.IdleWaitMs < 0 {
		return fmt.Errorf("probing timeouts must not be negative")
	}
	if p.MaxPollRounds < 0 {
		return fmt.Errorf("max_poll_rounds must not be negative")
	}
	if p.MaxWorkers < 0 {
		return fmt.Errorf("max_workers must not be negative")
	}
	return nil
}

// SetupLogger configures logrus based on the config. Diagnostics go to
// stderr and a rotating log file; stdout is reserved for the rendered site
// rankings.
func SetupLogger(cfg *Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("invalid log level '%s', using 'info'", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	os.MkdirAll(cfg.LogDir, 0755)
	fileLogger := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "fastest_sites.log"),
		MaxSize:    100,  // Max size in MB per log file
		MaxBackups: 7,    // Keep 7 recent backups
		MaxAge:     30,   // Keep logs for 30 days
		Compress:   true, // Compress old logs
	}
	log.SetOutput(io.MultiWriter(os.Stderr, fileLogger))
}
