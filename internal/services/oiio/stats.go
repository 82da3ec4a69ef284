package oiio

import "context"

// Stats holds per-channel pixel statistics. Every slice is indexed by
// channel and has the same length.
type Stats struct {
	Min         []float64
	Max         []float64
	Avg         []float64
	StdDev      []float64
	NaNCount    []int64
	InfCount    []int64
	FiniteCount []int64
}

// Channels returns the channel count.
func (s Stats) Channels() int {
	return len(s.Avg)
}

// StatsProvider is the pixel-statistics interface the pipeline depends on.
type StatsProvider interface {
	// Stats computes per-channel statistics for a single image.
	Stats(ctx context.Context, image string) (Stats, error)
	// DiffStats computes per-channel statistics of abs(imageA - imageB).
	DiffStats(ctx context.Context, imageA, imageB string) (Stats, error)
}
