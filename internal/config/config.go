// Package config resolves runtime configuration from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/julianstephens/consultbook/internal/availability"
	"github.com/julianstephens/consultbook/internal/constants"
)

// Config holds the booking widget settings
type Config struct {
	BackendURL    string        `ignored:"true"`
	FetchTimeout  time.Duration `envconfig:"CONSULTBOOK_FETCH_TIMEOUT" default:"10s"`
	SubmitTimeout time.Duration `envconfig:"CONSULTBOOK_SUBMIT_TIMEOUT" default:"15s"`
	FallbackEmail string        `envconfig:"CONSULTBOOK_FALLBACK_EMAIL" default:"appointment@ingcap.co.uk"`
	BlockedDates  []string      `envconfig:"CONSULTBOOK_BLOCKED_DATES"`
	Timezone      string        `envconfig:"CONSULTBOOK_TIMEZONE" default:"Europe/London"`
}

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// ResolveBackendURL applies the fixed resolution order: the explicit
// CONSULTBOOK_BACKEND_URL, then the alternate BACKEND_URL, then the local default.
// A trailing slash is trimmed so paths can be appended directly.
func ResolveBackendURL(lookup LookupFunc) string {
	for _, key := range []string{constants.BackendURLEnv, constants.AltBackendURLEnv} {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimRight(strings.TrimSpace(v), "/")
		}
	}
	return constants.DefaultBackendURL
}

// LoadDotEnv loads variables from the given files without overriding ones
// already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads .env (if present) and the process environment into a Config
func Load() (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from the current environment without touching .env files
func FromEnv(lookup LookupFunc) (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	c.BackendURL = ResolveBackendURL(lookup)
	if len(c.BlockedDates) == 0 {
		c.BlockedDates = availability.DefaultBlockedDates
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks durations, blocked date format and timezone
func (c Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.SubmitTimeout <= 0 {
		return fmt.Errorf("submit timeout must be positive, got %s", c.SubmitTimeout)
	}
	if !strings.Contains(c.FallbackEmail, "@") {
		return fmt.Errorf("invalid fallback email %q", c.FallbackEmail)
	}
	for _, d := range c.BlockedDates {
		if _, err := time.Parse(constants.DateFormat, d); err != nil {
			return fmt.Errorf("invalid blocked date %q, use YYYY-MM-DD", d)
		}
	}
	if _, err := LoadLocation(c.Timezone); err != nil {
		return err
	}
	return nil
}

// Location returns the configured business timezone
func (c Config) Location() *time.Location {
	loc, err := LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadLocation loads a timezone by IANA name; "" and "Local" mean the system zone
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}
