package agent

import (
	"regexp"
	"strings"

	mdast "github.com/gomarkdown/markdown/ast"
	mdparser "github.com/gomarkdown/markdown/parser"
)

// ToolBlock is a tool definition extracted from a fenced code block in
// model output.
type ToolBlock struct {
	Name string
	Code string
}

// ToolCall is a [TOOL: name(args)] directive extracted from model
// output. Args holds zero or one raw argument string.
type ToolCall struct {
	Name string
	Args []string
}

// filenameRe matches the "// filename: name" comment naming a tool
// inside its code block.
var filenameRe = regexp.MustCompile(`(?m)^\s*//\s*filename:\s*(\S+)\s*$`)

// toolCallRe matches [TOOL: name(args)] with a single unstructured
// argument segment.
var toolCallRe = regexp.MustCompile(`\[TOOL:\s*([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*\]`)

// codeBlockLangs are the fence info strings treated as tool
// definitions.
var codeBlockLangs = map[string]bool{
	"js":         true,
	"javascript": true,
	"tool":       true,
}

// ExtractToolBlocks parses model output as markdown and returns every
// fenced code block that defines a tool. The tool name comes from the
// "// filename:" comment; blocks without one get the name
// "unknown_tool", matching the permissive behavior of the chat
// protocol (the model is told to always include it).
func ExtractToolBlocks(markdown string) []ToolBlock {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions)
	doc := p.Parse([]byte(markdown))

	var blocks []ToolBlock
	mdast.WalkFunc(doc, func(node mdast.Node, entering bool) mdast.WalkStatus {
		if !entering {
			return mdast.GoToNext
		}
		cb, ok := node.(*mdast.CodeBlock)
		if !ok {
			return mdast.GoToNext
		}
		lang := strings.ToLower(strings.TrimSpace(string(cb.Info)))
		if !codeBlockLangs[lang] {
			return mdast.GoToNext
		}

		code := string(cb.Literal)
		name := "unknown_tool"
		if m := filenameRe.FindStringSubmatch(code); m != nil {
			name = m[1]
		}
		blocks = append(blocks, ToolBlock{Name: name, Code: code})
		return mdast.GoToNext
	})
	return blocks
}

// ExtractToolCalls returns every [TOOL: name(args)] directive in the
// text, in order. The argument segment is passed through as one raw
// string (surrounding quotes and whitespace stripped); an empty
// segment means a zero-argument call. Multi-argument marshalling is
// deliberately unsupported.
func ExtractToolCalls(text string) []ToolCall {
	var calls []ToolCall
	for _, m := range toolCallRe.FindAllStringSubmatch(text, -1) {
		name := m[1]
		rawArg := strings.TrimSpace(m[2])
		rawArg = strings.Trim(rawArg, `"'`)

		call := ToolCall{Name: name}
		if rawArg != "" {
			call.Args = append(call.Args, rawArg)
		}
		calls = append(calls, call)
	}
	return calls
}
