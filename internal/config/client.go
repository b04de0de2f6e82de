package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ClientConfig struct {
	BaseURL  string        `env:"SCREEPS_BASE_URL" envDefault:"https://screeps.com"`
	Timeout  time.Duration `env:"SCREEPS_TIMEOUT" envDefault:"10s"`
	Username string        `env:"SCREEPS_USERNAME"`
	Token    string        `env:"SCREEPS_TOKEN"`
}

func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	err := env.Parse(&cfg)
	return cfg, err
}
