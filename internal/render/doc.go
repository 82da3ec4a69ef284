// Package render produces candidate images by invoking the external render
// command N times, each run isolated in its own working directory under the
// scratch root. The batch is fail-fast: the first non-zero exit aborts the
// run and reports the failing candidate index with the captured output.
package render
