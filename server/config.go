package server

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Config tunes a Server. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// MaxRecordBytes bounds every binary record accepted for decoding.
	// Larger records are rejected before any work is done.
	MaxRecordBytes int `toml:"max_record_bytes"`

	// CacheSize is the number of decoded transactions kept, keyed by the
	// hash of the full record. Zero disables the cache.
	CacheSize int `toml:"cache_size"`

	// BatchConcurrency bounds the goroutines used by DecodeTransactions.
	BatchConcurrency int `toml:"batch_concurrency"`

	// LogLevel is a zerolog level name.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		// Matches the default transaction size limit of a CKB node's
		// transaction pool.
		MaxRecordBytes:   512 * 1024,
		CacheSize:        1024,
		BatchConcurrency: 8,
		LogLevel:         "info",
	}
}

// Validate checks that every field is in range.
func (c Config) Validate() error {
	if c.MaxRecordBytes <= 0 {
		return fmt.Errorf("server config: max_record_bytes must be positive, got %d", c.MaxRecordBytes)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("server config: cache_size must not be negative, got %d", c.CacheSize)
	}
	if c.BatchConcurrency <= 0 {
		return fmt.Errorf("server config: batch_concurrency must be positive, got %d", c.BatchConcurrency)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("server config: log_level: %w", err)
	}
	return nil
}

// LoadConfig reads a TOML file over DefaultConfig. Keys the file leaves
// out keep their defaults; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("server config: %w", err)
	}
	return finishConfig(cfg, md)
}

// ParseConfig is LoadConfig for an in-memory document.
func ParseConfig(doc string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(doc, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("server config: %w", err)
	}
	return finishConfig(cfg, md)
}

func finishConfig(cfg Config, md toml.MetaData) (Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("server config: unknown keys %v", undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
