// Package ipc implements the inter-agent message protocol.
//
// Messages are a tagged union (Text, ToolShare, ToolRequest) carried
// as JSON inside a {"content": string} envelope POSTed to /message.
// Parsing degrades gracefully: any payload that is not a recognizable
// envelope is treated as plain text, so agents can always talk to
// peers that only speak strings.
//
// The Gateway is the single dispatch point: inbound ToolShare payloads
// go to the pending queue for approval, inbound text goes to the
// message log, and outbound sharing classifies the tool source before
// it leaves the process. All network I/O runs on the package's worker
// Pool with a per-call timeout.
package ipc
