// Package updater orchestrates a full canonical update run: render N
// candidates, compare every unordered pair per tracked image, pick the most
// representative candidate, derive tolerance thresholds, and publish the
// results into the reference store. Phases run strictly forward with a hard
// barrier between them; the first failure aborts the run with no change to
// durable state.
package updater
