// Package config loads typed configuration from environment variables.
//
// Struct fields are bound with caarlos0/env tags. Optional .env files are
// read with godotenv; variables already present in the process environment
// take precedence over file values.
//
//	type Config struct {
//		HTTP   httpserver.Config
//		Driver string `env:"JOURNAL_DRIVER" envDefault:"memory"`
//	}
//
//	cfg, err := config.Load[Config](config.WithEnvFiles(".env"))
//
// Load does not cache: each call re-reads the environment, which keeps tests
// isolated when they pass their own variables with WithEnvironment.
package config
