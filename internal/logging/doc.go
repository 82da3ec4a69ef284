// Package logging wraps log/slog construction and the structured attribute
// vocabulary used across the pipeline. Loggers derive standard fields
// (run_id, stage, image) from context so every stage reports under the same
// keys regardless of which goroutine emits the record.
package logging
