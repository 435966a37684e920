package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Ytdlp       YtdlpConfig       `yaml:"ytdlp"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type FFmpegConfig struct {
	BinaryPath        string `yaml:"binary_path"`
	CommandTimeoutSec int    `yaml:"command_timeout_sec"`
}

type YtdlpConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type PathsConfig struct {
	WorkRoot string `yaml:"work_root"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	ExtractWorkers int `yaml:"extract_workers"`
}

// Default returns a config that works with the tools on PATH.
func Default() *Config {
	c := &Config{}
	_ = c.Validate()
	return c
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate fills defaults and rejects nonsensical values.
func (c *Config) Validate() error {
	if c.FFmpeg.CommandTimeoutSec < 0 {
		return fmt.Errorf("ffmpeg.command_timeout_sec must be >= 0")
	}
	if c.Performance.ExtractWorkers < 0 {
		return fmt.Errorf("performance.extract_workers must be >= 0")
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Ytdlp.BinaryPath == "" {
		c.Ytdlp.BinaryPath = "yt-dlp"
	}
	if c.Paths.WorkRoot == "" {
		c.Paths.WorkRoot = ".cache"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.ExtractWorkers == 0 {
		c.Performance.ExtractWorkers = 1
	}
	return nil
}

// CommandTimeout returns the per-invocation bound; 0 means no limit.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.FFmpeg.CommandTimeoutSec) * time.Second
}
