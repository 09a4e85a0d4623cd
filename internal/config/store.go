package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

var (
	// ErrAccountExists is returned by Add when the account id is already configured.
	ErrAccountExists = errors.New("account already configured")

	// ErrInvalidConfig is returned by Load when the file is not a mapping of
	// account ids to mappings of calendar ids to names.
	ErrInvalidConfig = errors.New("invalid calendars configuration")
)

// Calendars maps account id -> calendar id -> calendar display name.
type Calendars map[string]map[string]string

// Load reads the configuration at path. A missing file yields an empty
// configuration.
func Load(path string) (Calendars, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Calendars{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var conf Calendars
	if err := json.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if conf == nil {
		return nil, fmt.Errorf("%w: %s: top level value must be an object", ErrInvalidConfig, path)
	}
	for account, calendars := range conf {
		if calendars == nil {
			return nil, fmt.Errorf("%w: %s: account %q must map to an object", ErrInvalidConfig, path, account)
		}
	}

	return conf, nil
}

// Save writes conf to path as JSON indented with 4 spaces. Non-ASCII
// calendar names are written as-is.
func Save(path string, conf Calendars) error {
	if conf == nil {
		conf = Calendars{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(conf); err != nil {
		return fmt.Errorf("failed to encode calendars: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// AccountIDs returns the configured account ids in ascending order.
func (c Calendars) AccountIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CalendarIDs returns the calendar ids configured for account in ascending order.
func (c Calendars) CalendarIDs(account string) []string {
	ids := make([]string, 0, len(c[account]))
	for id := range c[account] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether account is configured.
func (c Calendars) Has(account string) bool {
	_, ok := c[account]
	return ok
}

// Add registers calendars under a new account id. An existing account is
// left untouched and ErrAccountExists is returned.
func (c Calendars) Add(account string, calendars map[string]string) error {
	if c.Has(account) {
		return fmt.Errorf("%w: %s", ErrAccountExists, account)
	}
	if calendars == nil {
		calendars = map[string]string{}
	}
	c[account] = calendars
	return nil
}
