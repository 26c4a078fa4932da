// Package store persists tool scripts as files on disk.
//
// Each tool occupies one script file in the store directory, with the
// file stem as the tool name. The directory is authoritative: listing
// rescans it every time, so scripts dropped in by hand (or by a cloned
// agent) show up without any registration step. Creating a tool with
// an existing name overwrites it; last write wins.
package store
