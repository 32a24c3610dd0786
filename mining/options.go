package mining

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"
)

// Option configures a Miner.
type Option func(*Miner) error

// WithPoolSize sets the embedding worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Miner) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if m.pool != nil {
			m.pool.Release()
		}
		m.pool = pool
		return nil
	}
}

// WithParallelism sets how many categories resolve at once.
// Default is runtime.NumCPU().
func WithParallelism(n int) Option {
	return func(m *Miner) error {
		if n < 1 {
			n = 1
		}
		m.parallelism = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Miner) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithClock sets the source of "now" used by the aggregate window.
func WithClock(now func() time.Time) Option {
	return func(m *Miner) error {
		if now == nil {
			now = time.Now
		}
		m.now = now
		return nil
	}
}

// WithEmbedTimeout bounds each embedding call. Zero disables the deadline.
func WithEmbedTimeout(d time.Duration) Option {
	return func(m *Miner) error {
		if d < 0 {
			return fmt.Errorf("embed timeout must not be negative: %s", d)
		}
		m.embedTimeout = d
		return nil
	}
}

// WithRetry sets how often a failed embedding call is attempted and the
// base delay of the exponential backoff between attempts.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(m *Miner) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		m.maxAttempts = maxAttempts
		m.retryDelay = baseDelay
		return nil
	}
}

// WithRateLimit caps embedding calls at rps per second with the given burst.
// A non-positive rps removes the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(m *Miner) error {
		if rps <= 0 {
			m.limiter = nil
			return nil
		}
		if burst < 1 {
			burst = 1
		}
		m.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// WithFilter restricts mining to categories whose key matches at least one
// of the doublestar patterns (for example "insta_*" or "fb_{ads,apps}").
func WithFilter(patterns ...string) Option {
	return func(m *Miner) error {
		if err := validatePatterns(patterns); err != nil {
			return err
		}
		m.include = append(m.include, patterns...)
		return nil
	}
}

// WithExclude skips categories whose key matches any of the patterns.
// Exclusion wins over WithFilter.
func WithExclude(patterns ...string) Option {
	return func(m *Miner) error {
		if err := validatePatterns(patterns); err != nil {
			return err
		}
		m.exclude = append(m.exclude, patterns...)
		return nil
	}
}

// WithProgress reports category progress to w.
func WithProgress(w io.Writer) Option {
	return func(m *Miner) error {
		m.progress = w
		return nil
	}
}

func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}
	return nil
}

// selected reports whether key passes the include and exclude patterns.
func (m *Miner) selected(key string) bool {
	for _, p := range m.exclude {
		if ok, _ := doublestar.Match(p, key); ok {
			return false
		}
	}
	if len(m.include) == 0 {
		return true
	}
	for _, p := range m.include {
		if ok, _ := doublestar.Match(p, key); ok {
			return true
		}
	}
	return false
}
