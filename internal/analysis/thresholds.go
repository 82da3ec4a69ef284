package analysis

// Tolerance carries the derived idiff-style thresholds for one output image
// under one execution mode.
type Tolerance struct {
	Warn        float64 `json:"warn"`
	WarnPercent float64 `json:"warnpercent"`
	Fail        float64 `json:"fail"`
	FailPercent float64 `json:"failpercent"`
	HardFail    float64 `json:"hardfail"`
}

const (
	warnSigmas    = 2
	failSigmas    = 3
	warnPercent   = 25.0    // 100 - 75
	failPercent   = 11.1111 // 100 - 88.8888
	hardFailScale = 10
	// minHardFail keeps unusually quiet images from deriving a near-zero
	// hardfail threshold out of negligible pairwise noise.
	minHardFail = 0.004
)

// DeriveTolerance converts worst-case moments into thresholds using
// Chebyshev's inequality: for any distribution, at least 1 - 1/k² of mass
// lies within mean ± k·stddev, so k=2 guarantees 75% coverage and k=3
// guarantees 88.8888%. The moments are the worst case over all pairwise
// comparisons rather than an average, a deliberate conservative bias so the
// tolerance does not under-cover rare high-variance pairs.
func DeriveTolerance(summary ImageSummary) Tolerance {
	hardFail := summary.LargestMaxError * hardFailScale
	if hardFail < minHardFail {
		hardFail = minHardFail
	}
	return Tolerance{
		Warn:        summary.LargestAvg + warnSigmas*summary.LargestStdDev,
		WarnPercent: warnPercent,
		Fail:        summary.LargestAvg + failSigmas*summary.LargestStdDev,
		FailPercent: failPercent,
		HardFail:    hardFail,
	}
}
