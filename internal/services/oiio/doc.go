// Package oiio wraps the OpenImageIO oiiotool binary behind a small client.
//
// The pipeline never touches pixels itself; it asks this adapter for
// per-channel statistics of a single image or of the absolute difference of
// two images, and derives everything else from those moments. The Executor
// seam exists so the engine can be exercised with canned statistics.
package oiio
