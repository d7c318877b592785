package event

import (
	"time"

	"github.com/dmitrymomot/eventscope/core/config"
)

// Config holds dispatcher settings loaded from the environment.
type Config struct {
	Strategy           Strategy      `env:"EVENTS_STRATEGY" envDefault:"concurrent"`
	MaxConcurrency     int           `env:"EVENTS_MAX_CONCURRENCY" envDefault:"0"`
	PublishTimeout     time.Duration `env:"EVENTS_PUBLISH_TIMEOUT" envDefault:"0s"`
	ValidateParameters bool          `env:"EVENTS_VALIDATE_PARAMETERS" envDefault:"true"`
}

// LoadConfig reads Config from the environment.
//
// Example:
//
//	cfg, err := event.LoadConfig()
//	if err != nil {
//	    return err
//	}
//	d := event.NewDispatcher(event.WithConfig(cfg), event.WithLogger(log))
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
