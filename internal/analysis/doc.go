// Package analysis implements the candidate-selection and
// tolerance-derivation engine: pairwise comparison of candidate renders,
// aggregation of the N(N-1)/2 comparison results into per-candidate and
// per-image summaries, selection of the most representative candidate, and
// statistical threshold derivation via Chebyshev's inequality.
package analysis
