package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// cache holds one loaded value per configuration type.
	cache sync.Map // reflect.Type -> any

	dotenvOnce sync.Once
)

// Load populates cfg from environment variables using `env` struct tags.
// Each configuration type is loaded once per process; subsequent calls for the
// same type return the cached value. A .env file in the working directory is
// loaded into the environment before the first parse, if present.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	key := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(key); ok {
		*cfg = cached.(T)
		return nil
	}

	dotenvOnce.Do(func() {
		// Missing .env is not an error; explicit environment still applies.
		_ = godotenv.Load()
	})

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrParseFailed, key.String(), err)
	}

	// First writer wins so concurrent loaders observe one consistent value.
	actual, _ := cache.LoadOrStore(key, *cfg)
	*cfg = actual.(T)
	return nil
}

// MustLoad is like Load but panics on failure. Useful during startup where a
// missing required variable is a configuration defect.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
