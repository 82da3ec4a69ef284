// Package services carries cross-cutting helpers shared by the pipeline
// stages: sentinel error markers with contextual wrapping, and context keys
// used to thread run identity through logging.
package services
