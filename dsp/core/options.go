package core

import "fmt"

// StreamConfig defines the chunking of a producer.
type StreamConfig struct {
	ChunkSize int
	Axis      int
}

// StreamOption mutates a StreamConfig.
type StreamOption func(*StreamConfig)

// DefaultStreamConfig returns the defaults used for long recordings:
// chunks of 100000 samples along the last axis.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		ChunkSize: 100000,
		Axis:      -1,
	}
}

// WithChunkSize sets the number of samples per chunk along the axis.
// Non-positive values are rejected by Validate.
func WithChunkSize(n int) StreamOption {
	return func(cfg *StreamConfig) {
		cfg.ChunkSize = n
	}
}

// WithAxis sets the sample axis. Negative values count from the last axis.
func WithAxis(axis int) StreamOption {
	return func(cfg *StreamConfig) {
		cfg.Axis = axis
	}
}

// ApplyStreamOptions applies zero or more options to the default config.
func ApplyStreamOptions(opts ...StreamOption) StreamConfig {
	cfg := DefaultStreamConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate checks the config against an array rank and returns a copy with
// the axis normalized.
func (c StreamConfig) Validate(ndim int) (StreamConfig, error) {
	if c.ChunkSize <= 0 {
		return c, fmt.Errorf("%w: chunksize must be > 0, got %d", ErrConfiguration, c.ChunkSize)
	}

	axis, err := NormalizeAxis(c.Axis, ndim)
	if err != nil {
		return c, err
	}
	c.Axis = axis

	return c, nil
}
