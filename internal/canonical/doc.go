// Package canonical publishes winning candidate images into the reference
// store and merges freshly derived tolerance records into the persisted
// tolerance document. Image copies and the document rewrite both go through
// write-temp-then-rename; the document merge additionally takes a file lock
// so concurrent test invocations sharing one store do not lose updates.
package canonical
