package analysis

// CandidateSummary folds all comparisons involving one candidate.
type CandidateSummary struct {
	// TotalRMSError is the sum of rms_error over all peer comparisons; the
	// selector minimizes it.
	TotalRMSError float64
	// MeanError is the average pairwise mean error over the N-1 peers.
	MeanError float64
	// LargestMaxError is the worst single-pixel error seen against any peer.
	LargestMaxError float64
	// LargestAvg and LargestStdDev are the worst per-channel first and second
	// moments seen against any peer.
	LargestAvg    float64
	LargestStdDev float64
}

// ImageSummary collapses all pairwise detail for one output image into the
// worst-case scalars the threshold calculator consumes.
type ImageSummary struct {
	LargestMeanError float64
	LargestMaxError  float64
	LargestAvg       float64
	LargestStdDev    float64
}

// Aggregate reduces a comparison set into per-candidate summaries and the
// image-level worst case. The reduction only takes maxima and sums over a
// fixed key set, so it is invariant to the order comparisons were produced.
func Aggregate(set *ComparisonSet) ([]CandidateSummary, ImageSummary) {
	n := set.Candidates()
	summaries := make([]CandidateSummary, n)

	for i := 0; i < n; i++ {
		summary := &summaries[i]
		var meanSum float64
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			cmp, ok := set.Lookup(i, j)
			if !ok {
				continue
			}
			summary.TotalRMSError += cmp.RMSError
			meanSum += cmp.MeanError
			if cmp.MaxError > summary.LargestMaxError {
				summary.LargestMaxError = cmp.MaxError
			}
			for c := 0; c < cmp.Stats.Channels(); c++ {
				if cmp.Stats.Avg[c] > summary.LargestAvg {
					summary.LargestAvg = cmp.Stats.Avg[c]
				}
				if cmp.Stats.StdDev[c] > summary.LargestStdDev {
					summary.LargestStdDev = cmp.Stats.StdDev[c]
				}
			}
		}
		if n > 1 {
			summary.MeanError = meanSum / float64(n-1)
		}
	}

	var image ImageSummary
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			cmp, ok := set.Lookup(i, j)
			if !ok {
				continue
			}
			if cmp.MeanError > image.LargestMeanError {
				image.LargestMeanError = cmp.MeanError
			}
			if cmp.MaxError > image.LargestMaxError {
				image.LargestMaxError = cmp.MaxError
			}
			for c := 0; c < cmp.Stats.Channels(); c++ {
				if cmp.Stats.Avg[c] > image.LargestAvg {
					image.LargestAvg = cmp.Stats.Avg[c]
				}
				if cmp.Stats.StdDev[c] > image.LargestStdDev {
					image.LargestStdDev = cmp.Stats.StdDev[c]
				}
			}
		}
	}

	return summaries, image
}
