package parallel

import (
	"log/slog"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/parallel/metrics"
)

// config holds Pool configuration.
type config struct {
	// Workers defines the fixed number of worker goroutines.
	// Must be > 0. There is no default: it is the required argument of New.
	Workers uint

	// ResultsBufferSize defines the capacity of the packet channel used by
	// Map and UnorderedMap. Zero means "one slot per worker".
	ResultsBufferSize uint

	// Name is attached to every log record emitted by the pool.
	// Default: "" (omitted).
	Name string

	// Logger receives lifecycle and failure records.
	// Default: slog.Default().
	Logger *slog.Logger

	// Metrics constructs the pool instruments.
	// Default: metrics.NoopProvider.
	Metrics metrics.Provider
}

// defaultConfig centralizes default values for config.
func defaultConfig(workers uint) config {
	return config{
		Workers:           workers,
		ResultsBufferSize: 0, // one slot per worker
		Name:              "",
		Logger:            slog.Default(),
		Metrics:           metrics.NewNoopProvider(),
	}
}

// validateConfig checks invariants that individual options cannot check alone.
func validateConfig(cfg *config) error {
	if cfg.Workers == 0 {
		return errorc.With(ErrInvalidConfig, errorc.String("", "worker count must be > 0"))
	}
	return nil
}

// resultsBuffer returns the effective packet channel capacity.
func (c *config) resultsBuffer() int {
	if c.ResultsBufferSize == 0 {
		return int(c.Workers)
	}
	return int(c.ResultsBufferSize)
}

// Option configures a Pool. Use New(workers, opts...) to construct a Pool via options.
type Option func(*config) error

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) error {
		if logger != nil {
			cfg.Logger = logger
		}
		return nil
	}
}

// WithName sets the pool name used to tell several pools apart in logs.
func WithName(name string) Option {
	return func(cfg *config) error { cfg.Name = name; return nil }
}

// WithMetrics sets the metrics provider (must be non-nil).
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithResultsBuffer sets the capacity of the packet channel used by Map and UnorderedMap (must be > 0).
func WithResultsBuffer(size uint) Option {
	return func(cfg *config) error {
		if size == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithResultsBuffer requires size > 0"))
		}
		cfg.ResultsBufferSize = size
		return nil
	}
}
