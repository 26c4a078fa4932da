// Package history is the log of messages received from peer agents.
//
// Two backends implement the Log interface: MemoryLog (the default,
// lost on exit) and SQLiteLog (durable, one table, schema created on
// open). The transport gateway appends to whichever backend it was
// given; nothing else writes to the log.
package history
