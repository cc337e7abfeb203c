// Package config loads process configuration from the environment.
package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config is the full set of environment-driven settings the demo binary
// needs to stand up an engine pool and drive it.
type Config struct {
	Engine struct {
		Path string   `envconfig:"ENGINE_PATH" required:"true"`
		Args []string `envconfig:"ENGINE_ARGS"`
	}
	Pool struct {
		Capacity int `envconfig:"POOL_CAPACITY" default:"16"`
	}
	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}
}

// Load reads Config from the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
