// Package script is the tool runtime: it compiles tool sources,
// merges them into one cumulative program, and dispatches calls by
// name.
//
// Tools are ECMAScript function declarations executed by an embedded
// goja interpreter. The merged program is modeled as an explicit arena
// of named definitions with last-write-wins override on merge, so
// re-creating a tool replaces its behavior for every later call.
// Dispatch falls back from the merged program to the interpreter's
// globals, where the native capabilities (file I/O, scraping,
// messaging, queue administration, self-replication) are registered
// once at construction.
//
// Script-level functions accept zero or exactly one string argument.
// This is a hard limitation of the calling convention, not a temporary
// gap: callers needing more encode multiple values into one string.
//
// No sandboxing is applied: scripts run with the process's own
// filesystem and network access, limited only by the approval gate in
// front of network-received code.
package script
