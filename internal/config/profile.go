package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EntityProfile tunes one entity migration.
type EntityProfile struct {
	BatchSize     int `toml:"batch_size"`
	RecordDelayMS int `toml:"record_delay_ms"`
}

// RecordDelay is the pause between two records.
func (e EntityProfile) RecordDelay() time.Duration {
	return time.Duration(e.RecordDelayMS) * time.Millisecond
}

// GeocodeProfile tunes the place-search client.
type GeocodeProfile struct {
	Attempts         int `toml:"attempts"`
	PacingMS         int `toml:"pacing_ms"`
	CacheTTLHours    int `toml:"cache_ttl_hours"`
	RequestTimeoutMS int `toml:"request_timeout_ms"`
}

// Pacing is the minimum interval between two geocode calls of one caller.
func (g GeocodeProfile) Pacing() time.Duration {
	return time.Duration(g.PacingMS) * time.Millisecond
}

// CacheTTL is how long Redis keeps a resolved place.
func (g GeocodeProfile) CacheTTL() time.Duration {
	return time.Duration(g.CacheTTLHours) * time.Hour
}

// RequestTimeout bounds a single HTTP request.
func (g GeocodeProfile) RequestTimeout() time.Duration {
	return time.Duration(g.RequestTimeoutMS) * time.Millisecond
}

// Profile describes one migration run.
type Profile struct {
	// Cutoff selects legacy users and companies updated at or after it.
	Cutoff       time.Time      `toml:"cutoff"`
	MediaBaseURL string         `toml:"media_base_url"`
	Users        EntityProfile  `toml:"users"`
	Paymethods   EntityProfile  `toml:"paymethods"`
	Companies    EntityProfile  `toml:"companies"`
	Products     EntityProfile  `toml:"products"`
	Geocode      GeocodeProfile `toml:"geocode"`
}

// DefaultProfile is the profile used when no file is given.
func DefaultProfile() *Profile {
	return &Profile{
		Cutoff:       time.Date(2023, 6, 1, 3, 0, 0, 0, time.UTC),
		MediaBaseURL: "https://storage.googleapis.com/ta-na-mao-f41a6.appspot.com",
		Users:        EntityProfile{BatchSize: 100},
		Paymethods:   EntityProfile{BatchSize: 50},
		Companies:    EntityProfile{BatchSize: 10, RecordDelayMS: 2000},
		Products:     EntityProfile{BatchSize: 10},
		Geocode: GeocodeProfile{
			Attempts:         3,
			PacingMS:         1000,
			CacheTTLHours:    24 * 30,
			RequestTimeoutMS: 15000,
		},
	}
}

// LoadProfile reads a TOML profile over DefaultProfile. An empty path
// returns the defaults.
func LoadProfile(filePath string) (*Profile, error) {
	p := DefaultProfile()
	if filePath == "" {
		return p, nil
	}

	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile '%s': %w", filePath, err)
	}
	if err := toml.Unmarshal(bytes, p); err != nil {
		return nil, fmt.Errorf("failed to parse profile '%s': %w", filePath, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile '%s': %w", filePath, err)
	}
	return p, nil
}

// Validate rejects settings the migration cannot run with.
func (p *Profile) Validate() error {
	for name, e := range map[string]EntityProfile{
		"users": p.Users, "paymethods": p.Paymethods,
		"companies": p.Companies, "products": p.Products,
	} {
		if e.BatchSize <= 0 {
			return fmt.Errorf("%s.batch_size must be positive", name)
		}
		if e.RecordDelayMS < 0 {
			return fmt.Errorf("%s.record_delay_ms must not be negative", name)
		}
	}
	if p.Geocode.Attempts <= 0 {
		return errors.New("geocode.attempts must be positive")
	}
	if p.MediaBaseURL == "" {
		return errors.New("media_base_url is required")
	}
	return nil
}

// OverrideBatchSize applies a command-line batch size to every entity.
func (p *Profile) OverrideBatchSize(n int) {
	if n <= 0 {
		return
	}
	p.Users.BatchSize = n
	p.Paymethods.BatchSize = n
	p.Companies.BatchSize = n
	p.Products.BatchSize = n
}
