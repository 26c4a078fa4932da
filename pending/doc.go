// Package pending holds tool proposals received from peer agents
// until they are approved or rejected.
//
// Network-received code never reaches the script runtime directly: the
// transport gateway enqueues it here with its computed safety level,
// and only an explicit approval installs it. Approval and rejection
// operate on the first queued entry with a matching name; duplicates
// stay queued and must be dealt with one at a time.
package pending
