package server

import (
	"fmt"
	"strconv"
	"time"
)

// Reveal server defaults. Pages are tiny, so the limits are tight.
const (
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultMaxHeaderBytes  = 16 << 10
)

// Config holds HTTP server configuration parameters.
//
// It defines timeouts, size limits, and network settings for the HTTP server.
type Config struct {
	Port           string        // Port number to listen on
	ReadTimeout    time.Duration // Maximum duration for reading the entire request
	WriteTimeout   time.Duration // Maximum duration for writing the response
	IdleTimeout    time.Duration // Maximum duration to wait for next request with keep-alives
	MaxHeaderBytes int           // Maximum size of request headers
}

// DefaultConfig returns a Config for port with the default limits.
func DefaultConfig(port string) *Config {
	return &Config{
		Port:           port,
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		IdleTimeout:    DefaultIdleTimeout,
		MaxHeaderBytes: DefaultMaxHeaderBytes,
	}
}

// Validate validates that the server configuration is valid.
//
// Returns an error describing the validation failure, or nil if valid.
func (c *Config) Validate() error {
	if err := ValidatePort(c.Port); err != nil {
		return err
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return fmt.Errorf("invalid timeouts: must not be negative")
	}
	return nil
}

// ValidatePort validates a port number.
//
// A valid port must be:
//   - Numeric (can be converted to an integer)
//   - Within the valid TCP/UDP port range (1-65535)
//
// Returns an error describing the validation failure, or nil if valid.
func ValidatePort(port string) error {
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port number: %s (must be numeric)", port)
	}
	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("invalid port number: %s (must be between 1 and 65535)", port)
	}
	return nil
}
