// Package runlog records completed canonical updates in a local SQLite
// database so engineers can answer "when was this reference last regenerated
// and what did it pick" without digging through CI logs.
package runlog
