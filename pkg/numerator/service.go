// Package numerator provides the database-backed code counter service.
package numerator

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/core/numerator"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Compile-time check that Service implements numerator.Counter.
var _ numerator.Counter = (*Service)(nil)

// Service hands out per-key counters stored in sys_sequences.
type Service struct {
	querier Querier
	opts    numerator.Options

	// cacheMu protects ranges map
	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a new numerator service.
func New(querier Querier, opts numerator.Options) *Service {
	return &Service{
		querier: querier,
		opts:    opts,
		ranges:  make(map[string]*cachedRange),
	}
}

// Next implements numerator.Counter.
//
// Supports Strict (DB-level) and Cached (Memory-level) strategies.
func (s *Service) Next(ctx context.Context, key string) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("numerator service is not initialized")
	}

	switch s.opts.Strategy {
	case numerator.StrategyCached:
		return s.nextCached(ctx, key)
	default:
		return s.nextStrict(ctx, key)
	}
}

// nextStrict fetches the next number directly from DB using UPSERT + RETURNING.
func (s *Service) nextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next %s: %w", key, err)
	}
	return num, nil
}

// nextCached serves numbers from memory, reserving a new range when the
// current one is exhausted. current_val always holds the last reserved value,
// so a reservation of size n yields (current_val-n, current_val].
func (s *Service) nextCached(ctx context.Context, key string) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, exists := s.ranges[key]
	if !exists {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := s.opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64
		err := s.querier.QueryRow(ctx, `
			INSERT INTO sys_sequences (key, current_val)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
			RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range %s: %w", key, err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// Set overrides the last issued value for key (used when importing data).
func (s *Service) Set(ctx context.Context, key string, value int64) error {
	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, key)
	s.cacheMu.Unlock()

	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
