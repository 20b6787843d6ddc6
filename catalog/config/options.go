package config

import (
	"time"

	"go.uber.org/zap/zapcore"
)

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithBaseURL(url string) Option {
	return func(c *Config) {
		if url != "" {
			c.API.BaseURL = url
		}
	}
}

func WithAuthMode(mode AuthMode) Option {
	return func(c *Config) {
		if mode != "" {
			c.API.AuthMode = mode
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.API.Timeout = timeout
		}
	}
}

func WithSessionPath(path string) Option {
	return func(c *Config) {
		c.Session.Path = path
	}
}

func WithCoverMode(mode CoverMode) Option {
	return func(c *Config) {
		if mode != "" {
			c.API.CoverMode = mode
		}
	}
}

func WithPasswordPolicy(policy string) Option {
	return func(c *Config) {
		if policy != "" {
			c.Form.PasswordPolicy = policy
		}
	}
}
