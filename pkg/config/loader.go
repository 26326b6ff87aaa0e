package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu     sync.Mutex
	cache  = make(map[string]any)
	envced sync.Once
)

// LoadEnv loads variables from the given dotenv files into the process
// environment. Existing variables are never overwritten, so real environment
// values beat file values.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Load parses environment variables into the config struct based on its
// `env` tags. Each struct type is parsed once per process; later calls for
// the same type return the cached value, so every component sees identical
// settings no matter when it loads them.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	envced.Do(func() {
		// A missing .env file is fine; the environment itself is the
		// source of truth in deployed environments.
		_ = godotenv.Load()
	})

	key := typeName[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache[key] = *v
	return nil
}

// MustLoad is Load for configs the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// ResetCache clears the per-type cache, for tests that mutate the environment.
func ResetCache() {
	mu.Lock()
	defer mu.Unlock()
	cache = make(map[string]any)
}

func typeName[T any]() string {
	t := reflect.TypeOf(*new(T))
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
