package analysis

import (
	"math"

	"rats/internal/services/oiio"
)

// PairKey identifies an unordered candidate pair; I < J always holds.
type PairKey struct {
	I int
	J int
}

// NewPairKey normalizes (i, j) so lookups by either order resolve identically.
func NewPairKey(i, j int) PairKey {
	if j < i {
		i, j = j, i
	}
	return PairKey{I: i, J: j}
}

// Comparison holds the statistical difference between two candidates' copies
// of the same output image.
type Comparison struct {
	MeanError float64
	RMSError  float64
	MaxError  float64
	Stats     oiio.Stats
}

// Derive computes the comparison scalars from absolute-difference statistics.
//
// RMSError is an approximation reusing the already-computed moments:
// sqrt(mean over channels of (avg^2 + stddev^2)). Exact RMS would need the
// raw difference pixels; downstream thresholds are calibrated against this
// formula, so it must not be "corrected".
func Derive(stats oiio.Stats) Comparison {
	channels := stats.Channels()
	if channels == 0 {
		return Comparison{Stats: stats}
	}

	var meanSum, rmsSum float64
	maxError := stats.Max[0]
	for c := 0; c < channels; c++ {
		meanSum += stats.Avg[c]
		rmsSum += stats.Avg[c]*stats.Avg[c] + stats.StdDev[c]*stats.StdDev[c]
		if stats.Max[c] > maxError {
			maxError = stats.Max[c]
		}
	}

	return Comparison{
		MeanError: meanSum / float64(channels),
		RMSError:  math.Sqrt(rmsSum / float64(channels)),
		MaxError:  maxError,
		Stats:     stats,
	}
}

// ComparisonSet holds all pairwise comparisons for one output image.
type ComparisonSet struct {
	candidates int
	byPair     map[PairKey]Comparison
}

// NewComparisonSet creates an empty set for the given candidate count.
func NewComparisonSet(candidates int) *ComparisonSet {
	return &ComparisonSet{
		candidates: candidates,
		byPair:     make(map[PairKey]Comparison, candidates*(candidates-1)/2),
	}
}

// Add stores the comparison for the unordered pair (i, j).
func (s *ComparisonSet) Add(i, j int, cmp Comparison) {
	s.byPair[NewPairKey(i, j)] = cmp
}

// Lookup returns the comparison for (i, j) regardless of argument order.
func (s *ComparisonSet) Lookup(i, j int) (Comparison, bool) {
	cmp, ok := s.byPair[NewPairKey(i, j)]
	return cmp, ok
}

// Len returns the number of stored comparisons.
func (s *ComparisonSet) Len() int {
	return len(s.byPair)
}

// Candidates returns the candidate count the set was built for.
func (s *ComparisonSet) Candidates() int {
	return s.candidates
}
