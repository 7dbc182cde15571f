package devblocker

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the service endpoint registry: one base address per backend
// service. It is read once at construction and immutable thereafter; every
// service path is prefixed with /api/v1 by the transport.
type Config struct {
	AuthURL         string `env:"AUTH_SERVICE_URL" env-default:"http://localhost:8081"`
	UserURL         string `env:"USER_SERVICE_URL" env-default:"http://localhost:8082"`
	BlockerURL      string `env:"BLOCKER_SERVICE_URL" env-default:"http://localhost:8083"`
	SolutionURL     string `env:"SOLUTION_SERVICE_URL" env-default:"http://localhost:8084"`
	CommentURL      string `env:"COMMENT_SERVICE_URL" env-default:"http://localhost:8085"`
	NotificationURL string `env:"NOTIFICATION_SERVICE_URL" env-default:"http://localhost:8086"`
}

// ConfigFromEnv builds a Config from the environment, falling back to the
// local development defaults for any unset variable.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("devblocker: read config from env: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	required := map[string]string{
		"auth":         c.AuthURL,
		"user":         c.UserURL,
		"blocker":      c.BlockerURL,
		"solution":     c.SolutionURL,
		"comment":      c.CommentURL,
		"notification": c.NotificationURL,
	}
	for name, u := range required {
		if u == "" {
			return fmt.Errorf("devblocker: %s service URL is required", name)
		}
	}
	return nil
}
