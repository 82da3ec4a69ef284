// Package config loads, validates, and normalizes rats configuration.
//
// Settings come from a TOML file with repository defaults filled in, then a
// small set of RATS_* environment variables applied on top. The environment
// always wins over both the file and explicit CLI flags; existing test-suite
// wrappers depend on that precedence.
package config
