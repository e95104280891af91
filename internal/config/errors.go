package config

import "errors"

var (
	// ErrParse is returned when environment variables cannot be parsed into the config.
	ErrParse = errors.New("failed to parse environment variables into config")

	// ErrEnvFile is returned when an existing .env file cannot be read.
	ErrEnvFile = errors.New("failed to load env file")

	// ErrInvalid is returned by Validate.
	ErrInvalid = errors.New("invalid configuration")
)
