package cache

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/pawtrack/go-datastore/internal/cacheinfra"
)

// Config exposes the cache manager configuration.
type Config struct {
	// TTL is the default time-to-live applied by Set. Zero means entries
	// never expire unless SetWithTTL supplies an explicit TTL.
	TTL time.Duration

	// Prefix and Version namespace every key written to the persistent
	// store, e.g. "cache:" + "1.0" produces keys under "cache:1.0:".
	Prefix  string
	Version string

	// PersistToStorage mirrors the in-memory index to the backing store.
	// In-memory stays authoritative; persistence is best effort.
	PersistToStorage bool

	// In-memory index sizing.
	Capacity           int
	NumShards          int
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	index := cacheinfra.DefaultConfig()
	return Config{
		TTL:                5 * time.Minute,
		Prefix:             "cache:",
		Version:            "1.0",
		PersistToStorage:   true,
		Capacity:           index.Capacity,
		NumShards:          index.NumShards,
		EvictionPercentage: index.EvictionPercentage,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.TTL, validation.Min(time.Duration(0))),
		validation.Field(&c.Prefix, validation.Required),
		validation.Field(&c.Version, validation.Required),
	); err != nil {
		return err
	}
	return c.indexConfig().Validate()
}

func (c Config) indexConfig() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}
