// Package config loads giftdraw settings from the environment, an optional
// .env file, and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/rampantspark/giftdraw/internal/logging"
	"github.com/rampantspark/giftdraw/internal/santa"
	"github.com/rampantspark/giftdraw/internal/server"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "GIFTDRAW_"

// Config holds the settings of one giftdraw run.
type Config struct {
	Roster    string `env:"ROSTER" envDefault:"participants.yaml"`
	OutputDir string `env:"OUTPUT_DIR"` // empty means DefaultOutputDir
	Template  string `env:"TEMPLATE"`   // empty means the embedded template
	Image     string `env:"IMAGE"`      // optional picture embedded in every page

	MaxBudget int    `env:"MAX_BUDGET" envDefault:"40"`
	Currency  string `env:"CURRENCY" envDefault:"$"`
	Language  string `env:"LANG" envDefault:"fr"`

	MaxIntraFamily int    `env:"MAX_INTRA_FAMILY" envDefault:"1"`
	MaxAttempts    int    `env:"MAX_ATTEMPTS" envDefault:"1000"`
	CapScope       string `env:"CAP_SCOPE" envDefault:"global"`
	Seed           uint64 `env:"SEED" envDefault:"0"`

	Print      bool   `env:"PRINT" envDefault:"false"`
	LedgerPath string `env:"LEDGER"`

	Serve      bool   `env:"SERVE" envDefault:"false"`
	Port       string `env:"PORT" envDefault:"8000"`
	RateLimit  int    `env:"RATE_LIMIT" envDefault:"5"`
	RateBurst  int    `env:"RATE_BURST" envDefault:"10"`
	UseHTTPS   bool   `env:"HTTPS" envDefault:"false"`
	TrustProxy bool   `env:"TRUST_PROXY" envDefault:"false"`

	Verbose   bool   `env:"VERBOSE" envDefault:"false"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// DefaultOutputDir returns the output directory used when none is set.
func DefaultOutputDir(now time.Time) string {
	return filepath.Join("results", fmt.Sprintf("Echange_cadeau_%d", now.Year()))
}

// Load reads the .env file at envFile (if it exists) and parses the
// environment into a Config.
//
// Parameters:
//   - envFile: path of the dotenv file; empty skips it
//
// Returns the parsed Config or an error wrapping ErrParse.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrEnvFile, envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir(time.Now())
	}
	return cfg, nil
}

// RegisterFlags binds command-line flags to the config fields. The current
// field values become the flag defaults, so flags override the environment.
func (c *Config) RegisterFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.Roster, "r", c.Roster, "Roster file (YAML or JSON)")
	flags.StringVar(&c.OutputDir, "o", c.OutputDir, "Output directory for instruction pages")
	flags.StringVar(&c.Template, "t", c.Template, "HTML template file (default: built-in)")
	flags.StringVar(&c.Image, "i", c.Image, "Image embedded in every page (optional)")
	flags.IntVar(&c.MaxBudget, "b", c.MaxBudget, "Maximum gift budget")
	flags.StringVar(&c.Currency, "c", c.Currency, "Currency symbol shown with the budget")
	flags.StringVar(&c.Language, "l", c.Language, "Page language (fr, en)")
	flags.IntVar(&c.MaxIntraFamily, "m", c.MaxIntraFamily, "Maximum intra-family pairings")
	flags.IntVar(&c.MaxAttempts, "n", c.MaxAttempts, "Maximum draw attempts")
	flags.StringVar(&c.CapScope, "scope", c.CapScope, "Intra-family cap scope (global, per-family)")
	flags.Uint64Var(&c.Seed, "seed", c.Seed, "Seed for a reproducible draw (0: random)")
	flags.BoolVar(&c.Print, "print", c.Print, "Print the assignments (spoils the surprise)")
	flags.StringVar(&c.LedgerPath, "ledger", c.LedgerPath, "SQLite file recording run metadata (optional)")
	flags.BoolVar(&c.Serve, "serve", c.Serve, "Serve private reveal links after the draw")
	flags.StringVar(&c.Port, "p", c.Port, "Port for the reveal server")
	flags.BoolVar(&c.Verbose, "v", c.Verbose, "Verbose logging")
}

// Scope returns the parsed cap scope.
func (c *Config) Scope() (santa.CapScope, error) {
	return santa.ParseCapScope(c.CapScope)
}

// Format returns the log format.
func (c *Config) Format() logging.Format {
	if c.LogFormat == string(logging.FormatJSON) {
		return logging.FormatJSON
	}
	return logging.FormatText
}

// Validate checks the configuration for values the run cannot use.
//
// Returns an error wrapping ErrInvalid describing the first problem found,
// or nil if valid.
func (c *Config) Validate() error {
	if c.Roster == "" {
		return fmt.Errorf("%w: roster file is required", ErrInvalid)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalid)
	}
	if c.MaxIntraFamily < 0 {
		return fmt.Errorf("%w: max intra-family must not be negative (got %d)", ErrInvalid, c.MaxIntraFamily)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1 (got %d)", ErrInvalid, c.MaxAttempts)
	}
	if c.MaxBudget < 0 {
		return fmt.Errorf("%w: budget must not be negative (got %d)", ErrInvalid, c.MaxBudget)
	}
	if _, err := c.Scope(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Serve {
		if err := server.ValidatePort(c.Port); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		if c.RateLimit < 1 || c.RateBurst < 1 {
			return fmt.Errorf("%w: rate limit and burst must be positive", ErrInvalid)
		}
	}
	return nil
}
