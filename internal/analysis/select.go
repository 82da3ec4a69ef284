package analysis

// ChooseBest returns the index of the candidate with the smallest total
// pairwise RMS error: the render that, on average, disagrees least with
// every other independent render. Ties resolve to the lowest index.
// Returns -1 for an empty slice.
func ChooseBest(summaries []CandidateSummary) int {
	if len(summaries) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(summaries); i++ {
		if summaries[i].TotalRMSError < summaries[best].TotalRMSError {
			best = i
		}
	}
	return best
}
