package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option adjusts how Load reads the environment.
type Option func(*loadOptions)

type loadOptions struct {
	prefix   string
	files    []string
	optional bool
	environ  map[string]string
}

// WithPrefix prepends prefix to every variable name.
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) { o.prefix = prefix }
}

// WithEnvFiles reads the given .env files. Missing files are an error unless
// WithOptionalEnvFiles is also given.
func WithEnvFiles(files ...string) Option {
	return func(o *loadOptions) { o.files = append(o.files, files...) }
}

// WithOptionalEnvFiles skips env files that do not exist.
func WithOptionalEnvFiles() Option {
	return func(o *loadOptions) { o.optional = true }
}

// WithEnvironment replaces the process environment with vars.
func WithEnvironment(vars map[string]string) Option {
	return func(o *loadOptions) { o.environ = vars }
}

// Load parses the environment into a new T.
func Load[T any](opts ...Option) (T, error) {
	var cfg T
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	environ := o.environ
	if environ == nil {
		environ = env.ToMap(os.Environ())
	}
	merged := make(map[string]string, len(environ))
	for _, file := range o.files {
		vars, err := godotenv.Read(file)
		if err != nil {
			if o.optional && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return cfg, errors.Join(ErrReadingEnvFile, fmt.Errorf("%s: %w", file, err))
		}
		for k, v := range vars {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	for k, v := range environ {
		merged[k] = v
	}

	if err := env.ParseWithOptions(&cfg, env.Options{
		Environment: merged,
		Prefix:      o.prefix,
	}); err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad is like Load but panics on error. Intended for main packages.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}
