// Package swarmthing is a self-extending conversational agent: an LLM
// chat loop whose model can write new JavaScript tools at runtime,
// persist them to disk, call them, and exchange them with peer agents
// over a small HTTP message protocol.
//
// The module is organized by concern:
//
//   - script: the embeddable tool runtime (goja interpreter, program
//     arena, native builtins)
//   - store: the filesystem tool store (one .js file per tool)
//   - safety: source classification for tools received from peers
//   - pending: the approval queue gating network-received tools
//   - ipc: the inter-agent gateway, HTTP server, and worker pool
//   - history: the received-message log (in memory or SQLite)
//   - agent: the chat turn driver and model-output parser
//   - cmd/swarmthing: the interactive REPL binary
//
// Run the agent:
//
//	OPENAI_API_KEY=... go run ./cmd/swarmthing
//
// Without an API key the binary runs offline and processes input
// directly as tool blocks and [TOOL: name(arg)] directives.
package swarmthing
