package config

import "errors"

var (
	ErrParsingConfig  = errors.New("config: failed to parse environment into config")
	ErrReadingEnvFile = errors.New("config: failed to read env file")
)
