package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallnest/swarmthing/log"
	"github.com/smallnest/swarmthing/script"
	"github.com/smallnest/swarmthing/store"
)

// Agent drives the chat turn: it forwards user input to the LLM with
// accumulated history, then applies whatever the reply asked for (tool
// creation blocks, tool calls) against the runtime.
type Agent struct {
	llm     LLM
	runtime *script.Runtime
	store   *store.ToolStore
	history []ChatMessage
	logger  log.Logger
}

// New creates an agent. llm may be nil, in which case Chat returns an
// error and callers drive Process directly (offline mode).
func New(llm LLM, runtime *script.Runtime, st *store.ToolStore, logger log.Logger) *Agent {
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &Agent{
		llm:     llm,
		runtime: runtime,
		store:   st,
		logger:  logger,
	}
}

// SystemPrompt renders the tool-use instructions with the current tool
// list. Rebuilt per turn so newly created tools are advertised
// immediately.
func (a *Agent) SystemPrompt() string {
	tools := strings.Join(a.store.List(), ", ")
	return fmt.Sprintf(`You are a research agent that can create and use tools.
Available Tools: [%s]

IMPORTANT - Tool Reuse Policy:
1. BEFORE creating any new tool, check if an existing tool can fulfill the request
2. Use [TOOL: list_tools()] to see all available tools
3. Use [TOOL: inspect_tool(name)] to understand what a tool does
4. Consider composing existing tools instead of creating a new one
5. ONLY create a new tool if no existing tool or combination can solve the task

IMPORTANT - Scripting Limitations:
1. Tools are JavaScript function declarations.
2. Every tool takes zero or exactly one string argument. Encode multiple values into one string if needed.
3. Return strings (or values convertible to strings).

To create a tool (ONLY when necessary), output a fenced code block with language 'js' and the tool name in a comment:
`+"```js"+`
// filename: my_tool
function my_tool(arg) {
    return "result";
}
`+"```"+`

To use a tool, output: [TOOL: tool_name(arg)]`, tools)
}

// Chat runs one conversational turn and returns the model's reply.
func (a *Agent) Chat(ctx context.Context, input string) (string, error) {
	if a.llm == nil {
		return "", fmt.Errorf("no LLM configured")
	}

	a.history = append(a.history, ChatMessage{Role: RoleUser, Content: input})
	reply, err := a.llm.Chat(ctx, a.history, a.SystemPrompt())
	if err != nil {
		return "", err
	}
	a.history = append(a.history, ChatMessage{Role: RoleAssistant, Content: reply})
	return reply, nil
}

// History returns the accumulated conversation.
func (a *Agent) History() []ChatMessage {
	out := make([]ChatMessage, len(a.history))
	copy(out, a.history)
	return out
}

// EventKind discriminates what Process did for one directive.
type EventKind int

const (
	// EventToolCreated: a code block was installed as a tool.
	EventToolCreated EventKind = iota
	// EventToolCalled: a [TOOL:] directive was dispatched.
	EventToolCalled
)

// Event is the outcome of one directive found in a model reply.
type Event struct {
	Kind   EventKind
	Name   string
	Output string
	Err    error
}

// Process applies every tool-creation block and tool call found in a
// reply, in order of appearance (creations first, so a reply that
// defines a tool and immediately calls it works). Failures are
// recorded on the event, never returned: a broken tool or a failed
// call must not end the conversation.
func (a *Agent) Process(reply string) []Event {
	var events []Event

	for _, block := range ExtractToolBlocks(reply) {
		a.logger.Info("creating tool: %s", block.Name)
		ev := Event{Kind: EventToolCreated, Name: block.Name}
		if err := a.runtime.Install(block.Name, block.Code); err != nil {
			ev.Err = err
		} else {
			ev.Output = fmt.Sprintf("Tool '%s' created", block.Name)
		}
		events = append(events, ev)
	}

	for _, call := range ExtractToolCalls(reply) {
		a.logger.Info("executing tool: %s", call.Name)
		ev := Event{Kind: EventToolCalled, Name: call.Name}
		out, err := a.runtime.Call(call.Name, call.Args...)
		if err != nil {
			ev.Err = err
		} else {
			ev.Output = out
		}
		events = append(events, ev)
	}

	return events
}
