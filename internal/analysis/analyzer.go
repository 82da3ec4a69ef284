package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"rats/internal/logging"
	"rats/internal/services/oiio"
)

const progressInterval = 50

// AnalyzerOption configures the analyzer.
type AnalyzerOption func(*Analyzer)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithConcurrency selects parallel comparison with the given worker bound.
// workers == 0 means available parallelism.
func WithConcurrency(concurrent bool, workers int) AnalyzerOption {
	return func(a *Analyzer) {
		a.concurrent = concurrent
		a.workers = workers
	}
}

// Analyzer computes all pairwise comparisons for an output image.
type Analyzer struct {
	provider   oiio.StatsProvider
	concurrent bool
	workers    int
	logger     *slog.Logger
}

// NewAnalyzer constructs an analyzer backed by the given stats provider.
func NewAnalyzer(provider oiio.StatsProvider, opts ...AnalyzerOption) (*Analyzer, error) {
	if provider == nil {
		return nil, errors.New("stats provider required")
	}
	a := &Analyzer{provider: provider, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// AnalyzeImage compares every unordered candidate pair's copy of image under
// the scratch root and returns the full comparison set. Each comparison is a
// pure unit of work with its own result slot, so completion order does not
// matter; the first failure cancels outstanding units and is returned.
func (a *Analyzer) AnalyzeImage(ctx context.Context, scratch, image string, candidates int) (*ComparisonSet, error) {
	pairs := make([]PairKey, 0, candidates*(candidates-1)/2)
	for i := 0; i < candidates; i++ {
		for j := i + 1; j < candidates; j++ {
			pairs = append(pairs, PairKey{I: i, J: j})
		}
	}

	limit := 1
	if a.concurrent {
		limit = a.workers
		if limit <= 0 {
			limit = runtime.NumCPU()
		}
	}

	a.logger.Info("comparing candidate pairs",
		logging.String(logging.FieldImage, image),
		logging.Int("comparisons", len(pairs)),
		logging.Int("workers", limit),
	)

	results := make([]Comparison, len(pairs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	var completed atomic.Int64
	for slot, pair := range pairs {
		slot, pair := slot, pair
		group.Go(func() error {
			left := candidatePath(scratch, pair.I, image)
			right := candidatePath(scratch, pair.J, image)
			stats, err := a.provider.DiffStats(groupCtx, left, right)
			if err != nil {
				return fmt.Errorf("compare candidates %d and %d: %w", pair.I, pair.J, err)
			}
			results[slot] = Derive(stats)
			if done := completed.Add(1); done%progressInterval == 0 || done == int64(len(pairs)) {
				a.logger.Info("comparison progress",
					logging.String(logging.FieldImage, image),
					logging.Int("completed", int(done)),
					logging.Int("total", len(pairs)),
				)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	set := NewComparisonSet(candidates)
	for slot, pair := range pairs {
		set.Add(pair.I, pair.J, results[slot])
	}
	return set, nil
}

func candidatePath(scratch string, index int, image string) string {
	return filepath.Join(scratch, strconv.Itoa(index), image)
}
