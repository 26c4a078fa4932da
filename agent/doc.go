// Package agent connects a chat backend to the tool runtime.
//
// A turn flows: user input -> LLM (with history and a system prompt
// advertising the current tools) -> reply text -> Process, which
// installs any fenced tool definitions and dispatches any
// [TOOL: name(arg)] directives. The agent never terminates the
// conversation over a tool failure; every directive outcome is
// reported as an Event for the caller to print.
package agent
